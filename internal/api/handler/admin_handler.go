package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"message_wall/internal/api/middleware"
	"message_wall/internal/app/service"
	"message_wall/internal/common"
)

type AdminHandler struct {
	adminService *service.AdminService
	guard        *middleware.Guard
}

func NewAdminHandler(adminService *service.AdminService, guard *middleware.Guard) *AdminHandler {
	return &AdminHandler{adminService: adminService, guard: guard}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(h.guard.RequireAdmin)
		adminRouter.Get("/users", h.listUsers)
		adminRouter.Put("/users/{userID}", h.updateUser)
		adminRouter.Delete("/messages/{messageID}", h.deleteMessage)
		adminRouter.Get("/status", h.stats)
	})
}

func (h *AdminHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context())
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	admin, ok := currentUser(w, r)
	if !ok {
		return
	}
	userID, ok := idParam(w, r, "userID")
	if !ok {
		return
	}
	var req service.AdminUpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	view, err := h.adminService.UpdateUser(r.Context(), admin, userID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, view)
}

func (h *AdminHandler) deleteMessage(w http.ResponseWriter, r *http.Request) {
	admin, ok := currentUser(w, r)
	if !ok {
		return
	}
	messageID, ok := idParam(w, r, "messageID")
	if !ok {
		return
	}

	if err := h.adminService.DeleteMessage(r.Context(), admin, messageID); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Message deleted"})
}

func (h *AdminHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Stats(r.Context())
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, stats)
}
