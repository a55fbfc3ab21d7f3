package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"courier/internal/core"
	"courier/internal/types"
)

// userIDParam parses the {user_id} URL segment.
func userIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		return 0, types.NewAppError(types.ErrCodeValidationInvalidBody,
			"user_id must be an integer", err)
	}
	return id, nil
}

// ListOwnRoles returns the caller's role grants.
func (h *Handler) ListOwnRoles(w http.ResponseWriter, r *http.Request) {
	p := types.GetPrincipal(r.Context())
	if p.UserID == nil {
		core.Error(w, r, types.NewAppError(types.ErrCodePermissionDenied,
			"authentication required", nil))
		return
	}

	grants, err := h.roles.ListForUser(r.Context(), p, *p.UserID)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, grants)
}

// ListRolesByUserID returns the grants of an arbitrary user.
func (h *Handler) ListRolesByUserID(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	grants, err := h.roles.ListForUser(r.Context(), types.GetPrincipal(r.Context()), userID)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, grants)
}

// CreateRole grants a role to a user. Writes invalidate the user's cached
// role set so the next request sees the new grant.
func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req types.NewUserRole
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}

	grant, err := h.roles.Create(r.Context(), types.GetPrincipal(r.Context()), req)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	h.rolesCache.Invalidate(req.UserID)
	core.JSON(w, r, http.StatusCreated, grant)
}

// DeleteRole revokes one role grant.
func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	var req types.RemoveUserRole
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}

	grant, err := h.roles.Delete(r.Context(), types.GetPrincipal(r.Context()), req)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	h.rolesCache.Invalidate(req.UserID)
	core.JSON(w, r, http.StatusOK, grant)
}

// CreateDefaultRole grants the baseline user role, called when an account is
// created.
func (h *Handler) CreateDefaultRole(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	grant, err := h.roles.CreateDefault(r.Context(), types.GetPrincipal(r.Context()), userID)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	h.rolesCache.Invalidate(userID)
	core.JSON(w, r, http.StatusCreated, grant)
}

// DeleteDefaultRoles removes the baseline grants, called when an account is
// deleted.
func (h *Handler) DeleteDefaultRoles(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	removed, err := h.roles.DeleteDefaults(r.Context(), types.GetPrincipal(r.Context()), userID)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	h.rolesCache.Invalidate(userID)
	core.JSON(w, r, http.StatusOK, removed)
}
