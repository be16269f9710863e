package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"message_wall/internal/api/middleware"
	"message_wall/internal/app/service"
	"message_wall/internal/common"
)

type MessageHandler struct {
	messageService *service.MessageService
	guard          *middleware.Guard
}

func NewMessageHandler(messageService *service.MessageService, guard *middleware.Guard) *MessageHandler {
	return &MessageHandler{messageService: messageService, guard: guard}
}

func (h *MessageHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(authed chi.Router) {
		authed.Use(h.guard.RequireUser)
		authed.Get("/messages", h.listMessages)
		authed.Post("/messages", h.createMessage)
		authed.Post("/messages/{messageID}/like", h.toggleLike)
	})
}

func (h *MessageHandler) listMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	messages, err := h.messageService.List(r.Context(), user.ID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, messages)
}

func (h *MessageHandler) createMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req service.CreateMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.messageService.Create(r.Context(), user, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, msg)
}

func (h *MessageHandler) toggleLike(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	messageID, ok := idParam(w, r, "messageID")
	if !ok {
		return
	}

	res, err := h.messageService.ToggleLike(r.Context(), user.ID, messageID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, res)
}
