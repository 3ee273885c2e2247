package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/charvi/app/models"
	"github.com/shashiranjanraj/charvi/app/store"
	"github.com/shashiranjanraj/charvi/pkg/bind"
	"github.com/shashiranjanraj/charvi/pkg/event"
	"github.com/shashiranjanraj/charvi/pkg/logger"
	"github.com/shashiranjanraj/charvi/pkg/response"
)

type CustomerController struct {
	store store.Store
}

func NewCustomerController(s store.Store) *CustomerController {
	return &CustomerController{store: s}
}

// Index handles GET /api/customers (admin).
func (c *CustomerController) Index(w http.ResponseWriter, r *http.Request) {
	customers, err := c.store.ListCustomers(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("list customers failed", "error", err)
		response.ServerError(w, "Failed to fetch customers")
		return
	}
	response.Success(w, customers)
}

// Store handles POST /api/customers. Public: the storefront submits
// interested leads without authentication. Duplicate email or phone
// submissions create separate records.
func (c *CustomerController) Store(w http.ResponseWriter, r *http.Request) {
	var in models.InsertCustomer
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, "Invalid customer data", errs)
		return
	}

	customer, err := c.store.CreateCustomer(r.Context(), in)
	if err != nil {
		logger.WithCtx(r.Context()).Error("create customer failed", "error", err)
		response.ServerError(w, "Failed to create customer")
		return
	}
	event.FireAsync("customer.created", customer)
	response.Created(w, customer)
}
