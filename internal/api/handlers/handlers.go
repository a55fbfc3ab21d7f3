// Package handlers contains the HTTP handlers for the courier API: the
// notification dispatch endpoints, template management, role management, and
// CRM contact sync. Handlers decode and validate input, call the domain
// services, and translate results through the core response helpers.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"courier/internal/acl"
	"courier/internal/contacts"
	"courier/internal/core"
	"courier/internal/db"
	"courier/internal/mail"
	"courier/internal/types"
)

// Handler bundles the domain services behind the API.
type Handler struct {
	srv        *core.Server
	mail       *mail.Service
	templates  *db.TemplateRepository
	roles      *db.UserRoleRepository
	rolesCache *acl.RolesCache
	contacts   *contacts.Service
}

// New creates the handler set.
func New(
	srv *core.Server,
	mailSvc *mail.Service,
	templates *db.TemplateRepository,
	roles *db.UserRoleRepository,
	contactsSvc *contacts.Service,
) *Handler {
	return &Handler{
		srv:        srv,
		mail:       mailSvc,
		templates:  templates,
		roles:      roles,
		rolesCache: srv.RolesCache,
		contacts:   contactsSvc,
	}
}

// Register mounts every route on the router.
func (h *Handler) Register(r chi.Router) {
	// Dispatch endpoints. Paths mirror the notification kinds: the /users and
	// /stores prefixes say who the message is for, the rest names the event.
	r.Post("/simple-mail", h.SendSimpleMail)
	r.Post("/users/order-update-state", dispatch[types.OrderUpdateStateForUser](h))
	r.Post("/stores/order-update-state", dispatch[types.OrderUpdateStateForStore](h))
	r.Post("/users/order-create", dispatch[types.OrderCreateForUser](h))
	r.Post("/stores/order-create", dispatch[types.OrderCreateForStore](h))
	r.Post("/users/email-verification", dispatch[types.EmailVerificationForUser](h))
	r.Post("/users/apply-email-verification", dispatch[types.ApplyEmailVerificationForUser](h))
	r.Post("/users/password-reset", dispatch[types.PasswordResetForUser](h))
	r.Post("/users/apply-password-reset", dispatch[types.ApplyPasswordResetForUser](h))
	r.Post("/users/stores/update-moderation-status", dispatch[types.StoreModerationStatusForUser](h))
	r.Post("/users/base_products/update-moderation-status", dispatch[types.BaseProductModerationStatusForUser](h))
	r.Post("/moderators/stores/update-moderation-status", dispatch[types.StoreModerationStatusForModerator](h))
	r.Post("/moderators/base_products/update-moderation-status", dispatch[types.BaseProductModerationStatusForModerator](h))

	// Template management.
	r.Post("/templates", h.CreateTemplate)
	r.Get("/templates/{template}", h.GetTemplate)
	r.Put("/templates/{template}", h.UpdateTemplate)
	r.Delete("/templates/{template}", h.DeleteTemplate)

	// Role management.
	r.Get("/roles", h.ListOwnRoles)
	r.Post("/roles", h.CreateRole)
	r.Delete("/roles", h.DeleteRole)
	r.Get("/roles/by-user-id/{user_id}", h.ListRolesByUserID)
	r.Delete("/roles/by-user-id/{user_id}", h.DeleteDefaultRoles)
	r.Post("/roles/default/{user_id}", h.CreateDefaultRole)

	// CRM contact sync.
	r.Post("/emarsys/contact", h.CreateContact)
	r.Delete("/emarsys/contact", h.DeleteContact)
}

// decodeAndValidate reads the body into dst and runs struct validation,
// writing nothing; the caller responds.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := core.DecodeJSON(w, r, dst); err != nil {
		return err
	}
	return h.srv.Validator.ValidateStruct(dst)
}
