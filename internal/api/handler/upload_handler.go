package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"message_wall/internal/api/middleware"
	"message_wall/internal/app/service"
	"message_wall/internal/common"
)

// multipartOverhead is room for boundaries and part headers around the file.
const multipartOverhead = 1 << 20

type UploadHandler struct {
	uploadService *service.UploadService
	guard         *middleware.Guard
	maxBytes      int64
}

func NewUploadHandler(uploadService *service.UploadService, guard *middleware.Guard, maxBytes int64) *UploadHandler {
	return &UploadHandler{uploadService: uploadService, guard: guard, maxBytes: maxBytes}
}

func (h *UploadHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(authed chi.Router) {
		authed.Use(h.guard.RequireUser)
		authed.Post("/upload", h.upload)
	})
}

func (h *UploadHandler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			common.RespondWithError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		common.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	resp, err := h.uploadService.UploadImage(r.Context(), header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if errors.Is(err, service.ErrFileTooLarge) {
		common.RespondWithError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}
