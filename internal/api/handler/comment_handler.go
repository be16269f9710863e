package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"message_wall/internal/api/middleware"
	"message_wall/internal/app/service"
	"message_wall/internal/common"
)

type CommentHandler struct {
	commentService *service.CommentService
	guard          *middleware.Guard
}

func NewCommentHandler(commentService *service.CommentService, guard *middleware.Guard) *CommentHandler {
	return &CommentHandler{commentService: commentService, guard: guard}
}

func (h *CommentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/messages/{messageID}/comments", h.listComments) // public

	r.Group(func(authed chi.Router) {
		authed.Use(h.guard.RequireUser)
		authed.Post("/comments", h.createComment)
	})
}

func (h *CommentHandler) listComments(w http.ResponseWriter, r *http.Request) {
	messageID, ok := idParam(w, r, "messageID")
	if !ok {
		return
	}
	comments, err := h.commentService.ListByMessage(r.Context(), messageID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, comments)
}

func (h *CommentHandler) createComment(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req service.CreateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.commentService.Create(r.Context(), user, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, comment)
}
