package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/charvi/pkg/logger"
	"github.com/shashiranjanraj/charvi/pkg/response"
	"github.com/shashiranjanraj/charvi/pkg/storage"
)

// Product image uploads. The admin panel uploads an image here first,
// then submits the returned URL as the product's image field.
type UploadController struct{}

func NewUploadController() *UploadController {
	return &UploadController{}
}

const maxUploadBytes = 10 << 20 // 10 MiB

var allowedImageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

// Store handles POST /api/uploads (admin): multipart form with an
// "image" file field. The file lands on the configured storage disk
// (local directory or S3-compatible bucket).
func (c *UploadController) Store(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing image file")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		response.Error(w, http.StatusBadRequest, "Unsupported image type")
		return
	}

	path := fmt.Sprintf("products/%s/%s%s",
		time.Now().UTC().Format("2006/01"), uuid.NewString(), ext)
	if err := storage.PutStream(path, file); err != nil {
		logger.WithCtx(r.Context()).Error("upload failed", "path", path, "error", err)
		response.ServerError(w, "Upload failed")
		return
	}

	response.Created(w, map[string]string{
		"path": path,
		"url":  storage.URL(path),
	})
}
