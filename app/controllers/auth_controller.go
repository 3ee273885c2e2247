package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/charvi/app/models"
	"github.com/shashiranjanraj/charvi/app/services"
	"github.com/shashiranjanraj/charvi/pkg/bind"
	"github.com/shashiranjanraj/charvi/pkg/logger"
	"github.com/shashiranjanraj/charvi/pkg/middleware"
	"github.com/shashiranjanraj/charvi/pkg/response"
	"github.com/shashiranjanraj/charvi/pkg/session"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Login handles POST /api/auth/login. On success the session carries
// the admin id and a Bearer token is returned for non-browser clients.
// Every failure mode reads the same from outside: 401, one message.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in models.LoginRequest
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, "Username and password are required", errs)
		return
	}

	admin, err := c.service.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Unauthorized(w, "Invalid credentials")
			return
		}
		logger.WithCtx(r.Context()).Error("login failed", "error", err)
		response.ServerError(w, "Login failed")
		return
	}

	sess := session.FromCtx(r)
	sess.Set(middleware.SessionAdminKey, admin.ID)
	if err := sess.Save(w); err != nil {
		logger.WithCtx(r.Context()).Error("session save failed", "error", err)
		response.ServerError(w, "Login failed")
		return
	}

	token, err := c.service.IssueToken(admin)
	if err != nil {
		logger.WithCtx(r.Context()).Error("token issue failed", "error", err)
		response.ServerError(w, "Login failed")
		return
	}

	response.Success(w, map[string]interface{}{
		"admin": map[string]string{"id": admin.ID, "username": admin.Username},
		"token": token,
	})
}

// Logout handles POST /api/auth/logout. Destroys the session whether
// or not anyone was logged in.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromCtx(r)
	sess.Destroy()
	if err := sess.Save(w); err != nil {
		logger.WithCtx(r.Context()).Error("session destroy failed", "error", err)
		response.ServerError(w, "Logout failed")
		return
	}
	response.Success(w, map[string]string{"message": "Logged out"})
}

// Me handles GET /api/auth/me: the identity probe for the admin panel.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	if id, ok := session.FromCtx(r).GetString(middleware.SessionAdminKey); ok && id != "" {
		response.Success(w, map[string]string{"adminId": id})
		return
	}
	response.Unauthorized(w, "Not authenticated")
}
