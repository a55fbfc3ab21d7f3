// Package acl implements the static access control engine gating template and
// role operations. Evaluation is a pure function over an immutable rule table:
// for each role the caller holds, the table yields the scope at which the
// (resource, action) pair is granted. A grant at ScopeAll permits outright; a
// grant at ScopeOwned permits only when the scope checker confirms the caller
// owns the object. No roles, or no matching grant, means deny.
package acl

import (
	"fmt"

	"courier/internal/types"
)

// Resource is an entity class protected by the engine.
type Resource string

const (
	ResourceTemplates Resource = "templates"
	ResourceUserRoles Resource = "user_roles"
)

// Action is an operation on a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Scope is the reach of a grant: everything, or only objects the caller owns.
type Scope string

const (
	ScopeAll   Scope = "all"
	ScopeOwned Scope = "owned"
)

// ScopeChecker decides whether the caller owns the object being acted on.
// Repositories implement it for their own entity type; templates have no
// owner, so their checker always answers false.
type ScopeChecker interface {
	IsInScope(userID int64, scope Scope, obj any) bool
}

// ruleKey indexes the static grant table.
type ruleKey struct {
	role     types.Role
	resource Resource
	action   Action
}

// rules is the process-wide grant table. It is never mutated after init, so
// it is safe to share across requests without locking.
var rules = map[ruleKey]Scope{
	// Superusers act on everything without restriction.
	{types.RoleSuperuser, ResourceTemplates, ActionRead}:   ScopeAll,
	{types.RoleSuperuser, ResourceTemplates, ActionCreate}: ScopeAll,
	{types.RoleSuperuser, ResourceTemplates, ActionUpdate}: ScopeAll,
	{types.RoleSuperuser, ResourceTemplates, ActionDelete}: ScopeAll,
	{types.RoleSuperuser, ResourceUserRoles, ActionRead}:   ScopeAll,
	{types.RoleSuperuser, ResourceUserRoles, ActionCreate}: ScopeAll,
	{types.RoleSuperuser, ResourceUserRoles, ActionDelete}: ScopeAll,

	// Moderators may read templates to preview notification content.
	{types.RoleModerator, ResourceTemplates, ActionRead}: ScopeAll,

	// Ordinary users may read their own role grants.
	{types.RoleUser, ResourceUserRoles, ActionRead}: ScopeOwned,
}

// Check evaluates whether the principal may perform action on resource.
// obj is the concrete object being acted on; it is consulted only when a
// grant carries ScopeOwned. Denial is a typed permission error, never a
// generic one, so callers can distinguish 403-class from 5xx-class outcomes.
func Check(p types.Principal, resource Resource, action Action, checker ScopeChecker, obj any) error {
	for _, role := range p.Roles {
		scope, ok := rules[ruleKey{role, resource, action}]
		if !ok {
			continue
		}
		switch scope {
		case ScopeAll:
			return nil
		case ScopeOwned:
			if p.UserID != nil && checker != nil && checker.IsInScope(*p.UserID, scope, obj) {
				return nil
			}
		}
	}
	return types.NewAppErrorWithDetails(
		types.ErrCodePermissionDenied,
		fmt.Sprintf("access denied for %s on %s", action, resource),
		nil,
		map[string]any{"resource": string(resource), "action": string(action)},
	)
}
