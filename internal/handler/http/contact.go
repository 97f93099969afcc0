package http

import (
	"net/http"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/contact"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/handler/http/response"
)

type ContactHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
}

type contactHandlerImpl struct {
	contactService contact.ContactService
}

func NewContactHandler(contactService contact.ContactService) ContactHandler {
	return &contactHandlerImpl{contactService: contactService}
}

// Submit implements ContactHandler - public endpoint
func (h *contactHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req contact.SubmitRequest
	if !decodeJSON(w, r, "Contact", &req) {
		return
	}

	if err := h.contactService.Submit(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Thank you, your message has been received", nil)
}
