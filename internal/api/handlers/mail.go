package handlers

import (
	"net/http"

	"courier/internal/core"
	"courier/internal/types"
)

// sentResponse is the body returned after a successful dispatch.
type sentResponse struct {
	Message string `json:"message"`
}

// dispatch builds the handler for one templated notification kind: decode,
// validate, run the pipeline, answer 200 on acceptance by the provider.
func dispatch[T types.Email](h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload T
		if err := h.decodeAndValidate(w, r, &payload); err != nil {
			core.Error(w, r, err)
			return
		}

		if err := h.mail.SendTemplated(r.Context(), payload); err != nil {
			core.Error(w, r, err)
			return
		}

		core.JSON(w, r, http.StatusOK, sentResponse{Message: "email has been sent"})
	}
}

// SendSimpleMail dispatches a pre-composed plain text message without
// template resolution.
func (h *Handler) SendSimpleMail(w http.ResponseWriter, r *http.Request) {
	var payload types.SimpleMail
	if err := h.decodeAndValidate(w, r, &payload); err != nil {
		core.Error(w, r, err)
		return
	}

	if err := h.mail.SendSimple(r.Context(), payload); err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, sentResponse{Message: "email has been sent"})
}
