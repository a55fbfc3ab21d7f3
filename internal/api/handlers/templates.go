package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"courier/internal/core"
	"courier/internal/mail"
	"courier/internal/types"
)

// templateName parses the {template} URL segment against the closed variant
// set.
func templateName(r *http.Request) (types.TemplateName, error) {
	return types.ParseTemplateName(chi.URLParam(r, "template"))
}

// GetTemplate returns the stored template body for a variant.
func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	name, err := templateName(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	tmpl, err := h.templates.GetByName(r.Context(), types.GetPrincipal(r.Context()), name)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, tmpl)
}

// updateTemplateRequest carries the new body for an existing template.
type updateTemplateRequest struct {
	Data string `json:"data" validate:"required"`
}

// UpdateTemplate replaces the body of an existing template. Placeholders are
// checked against the variant's payload fields before anything is written.
func (h *Handler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	name, err := templateName(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	var req updateTemplateRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}

	if err := mail.ValidatePlaceholders(name, req.Data); err != nil {
		core.Error(w, r, err)
		return
	}

	tmpl, err := h.templates.Update(r.Context(), types.GetPrincipal(r.Context()), name, req.Data)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, tmpl)
}

// CreateTemplate stores a new template. The name must be a known variant and
// the body's placeholders must match that variant's payload fields.
func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req types.NewTemplate
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}

	name, err := types.ParseTemplateName(string(req.Name))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	req.Name = name

	if err := mail.ValidatePlaceholders(name, req.Data); err != nil {
		core.Error(w, r, err)
		return
	}

	tmpl, err := h.templates.Create(r.Context(), types.GetPrincipal(r.Context()), req)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusCreated, tmpl)
}

// DeleteTemplate removes a template and returns the deleted row.
func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	name, err := templateName(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	tmpl, err := h.templates.Delete(r.Context(), types.GetPrincipal(r.Context()), name)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, tmpl)
}
