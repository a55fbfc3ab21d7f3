package handlers

import (
	"net/http"

	"courier/internal/core"
	"courier/internal/types"
)

// CreateContact registers the user in the CRM contact database and adds it
// to the registration contact list.
func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req types.CreateContact
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}

	created, err := h.contacts.CreateContact(r.Context(), req)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, created)
}

// DeleteContact removes the user from the CRM contact database.
func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	var req types.DeleteContact
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}

	if err := h.contacts.DeleteContact(r.Context(), req); err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, sentResponse{Message: "contact has been deleted"})
}
