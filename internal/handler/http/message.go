package http

import (
	"net/http"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/message"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type MessageHandler interface {
	Send(w http.ResponseWriter, r *http.Request)
	Inbox(w http.ResponseWriter, r *http.Request)
	Sent(w http.ResponseWriter, r *http.Request)
	MarkRead(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type messageHandlerImpl struct {
	messageService message.MessageService
}

func NewMessageHandler(messageService message.MessageService) MessageHandler {
	return &messageHandlerImpl{messageService: messageService}
}

func (h *messageHandlerImpl) Send(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req message.SendRequest
	if !decodeJSON(w, r, "Send message", &req) {
		return
	}

	result, err := h.messageService.Send(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Message sent", result)
}

func (h *messageHandlerImpl) Inbox(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	results, pageInfo, err := h.messageService.Inbox(r.Context(), actor, paginationFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, results, pageInfo)
}

func (h *messageHandlerImpl) Sent(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	results, pageInfo, err := h.messageService.Sent(r.Context(), actor, paginationFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, results, pageInfo)
}

func (h *messageHandlerImpl) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.messageService.MarkRead(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Message marked as read", nil)
}

func (h *messageHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.messageService.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Message deleted", nil)
}
