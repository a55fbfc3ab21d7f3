package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"courier/internal/acl"
	"courier/internal/types"
)

// UserRoleRepository manages role grants in the user_roles table. Reads and
// writes on behalf of a caller are access controlled; RolesForAuth is the one
// ungated path, used by the auth middleware to build the caller's principal
// in the first place.
type UserRoleRepository struct {
	db DBTX
}

// NewUserRoleRepository creates a role repository backed by the given
// connection source.
func NewUserRoleRepository(db DBTX) *UserRoleRepository {
	return &UserRoleRepository{db: db}
}

var _ acl.ScopeChecker = (*UserRoleRepository)(nil)

// IsInScope implements acl.ScopeChecker. A grant is in scope when it belongs
// to the caller. obj is either an int64 target user ID or a types.UserRole.
func (r *UserRoleRepository) IsInScope(userID int64, scope acl.Scope, obj any) bool {
	switch v := obj.(type) {
	case int64:
		return v == userID
	case types.UserRole:
		return v.UserID == userID
	case *types.UserRole:
		return v != nil && v.UserID == userID
	default:
		return false
	}
}

const userRoleColumns = "id, user_id, role, created_at, updated_at"

func scanUserRole(row pgx.Row) (*types.UserRole, error) {
	var ur types.UserRole
	if err := row.Scan(&ur.ID, &ur.UserID, &ur.Role, &ur.CreatedAt, &ur.UpdatedAt); err != nil {
		return nil, err
	}
	return &ur, nil
}

// RolesForAuth returns the bare role set for a user without authorization.
// Only the auth middleware should call this.
func (r *UserRoleRepository) RolesForAuth(ctx context.Context, userID int64) ([]types.Role, error) {
	rows, err := r.db.Query(ctx,
		"SELECT role FROM user_roles WHERE user_id = $1", userID)
	if err != nil {
		return nil, dbError(fmt.Sprintf("failed to load roles for user %d", userID), err)
	}
	defer rows.Close()

	var roles []types.Role
	for rows.Next() {
		var role types.Role
		if err := rows.Scan(&role); err != nil {
			return nil, dbError(fmt.Sprintf("failed to scan role for user %d", userID), err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(fmt.Sprintf("failed to read roles for user %d", userID), err)
	}
	return roles, nil
}

// ListForUser returns the full grant rows for a user on behalf of a caller.
// Superusers may list anyone; everyone else only themselves.
func (r *UserRoleRepository) ListForUser(ctx context.Context, p types.Principal, userID int64) ([]types.UserRole, error) {
	if err := acl.Check(p, acl.ResourceUserRoles, acl.ActionRead, r, userID); err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx,
		"SELECT "+userRoleColumns+" FROM user_roles WHERE user_id = $1 ORDER BY id", userID)
	if err != nil {
		return nil, dbError(fmt.Sprintf("failed to list roles for user %d", userID), err)
	}
	defer rows.Close()

	grants := []types.UserRole{}
	for rows.Next() {
		var ur types.UserRole
		if err := rows.Scan(&ur.ID, &ur.UserID, &ur.Role, &ur.CreatedAt, &ur.UpdatedAt); err != nil {
			return nil, dbError(fmt.Sprintf("failed to scan role grant for user %d", userID), err)
		}
		grants = append(grants, ur)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(fmt.Sprintf("failed to read role grants for user %d", userID), err)
	}
	return grants, nil
}

// Create inserts a role grant on behalf of a caller.
func (r *UserRoleRepository) Create(ctx context.Context, p types.Principal, payload types.NewUserRole) (*types.UserRole, error) {
	if err := acl.Check(p, acl.ResourceUserRoles, acl.ActionCreate, r, payload); err != nil {
		return nil, err
	}
	row := r.db.QueryRow(ctx,
		"INSERT INTO user_roles (user_id, role) VALUES ($1, $2) RETURNING "+userRoleColumns,
		payload.UserID, string(payload.Role))
	ur, err := scanUserRole(row)
	if err != nil {
		return nil, dbError(fmt.Sprintf("failed to grant role %s to user %d", payload.Role, payload.UserID), err)
	}
	return ur, nil
}

// Delete removes one role grant on behalf of a caller, returning the deleted
// row. A missing grant maps to not_found_role.
func (r *UserRoleRepository) Delete(ctx context.Context, p types.Principal, payload types.RemoveUserRole) (*types.UserRole, error) {
	if err := acl.Check(p, acl.ResourceUserRoles, acl.ActionDelete, r, payload); err != nil {
		return nil, err
	}
	row := r.db.QueryRow(ctx,
		"DELETE FROM user_roles WHERE id = (SELECT id FROM user_roles WHERE user_id = $1 AND role = $2 ORDER BY id LIMIT 1) RETURNING "+userRoleColumns,
		payload.UserID, string(payload.Role))
	ur, err := scanUserRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewAppError(types.ErrCodeNotFoundRole,
				fmt.Sprintf("user %d has no %s role", payload.UserID, payload.Role), err)
		}
		return nil, dbError(fmt.Sprintf("failed to revoke role %s from user %d", payload.Role, payload.UserID), err)
	}
	return ur, nil
}

// CreateDefault grants the baseline user role to a freshly registered user.
// Called from the user-creation hook, which runs with superuser credentials.
func (r *UserRoleRepository) CreateDefault(ctx context.Context, p types.Principal, userID int64) (*types.UserRole, error) {
	return r.Create(ctx, p, types.NewUserRole{UserID: userID, Role: types.RoleUser})
}

// DeleteDefaults removes the baseline grants for a user being deleted,
// returning the removed rows.
func (r *UserRoleRepository) DeleteDefaults(ctx context.Context, p types.Principal, userID int64) ([]types.UserRole, error) {
	if err := acl.Check(p, acl.ResourceUserRoles, acl.ActionDelete, r, userID); err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx,
		"DELETE FROM user_roles WHERE user_id = $1 AND role = $2 RETURNING "+userRoleColumns,
		userID, string(types.RoleUser))
	if err != nil {
		return nil, dbError(fmt.Sprintf("failed to delete default roles for user %d", userID), err)
	}
	defer rows.Close()

	removed := []types.UserRole{}
	for rows.Next() {
		var ur types.UserRole
		if err := rows.Scan(&ur.ID, &ur.UserID, &ur.Role, &ur.CreatedAt, &ur.UpdatedAt); err != nil {
			return nil, dbError(fmt.Sprintf("failed to scan deleted role for user %d", userID), err)
		}
		removed = append(removed, ur)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(fmt.Sprintf("failed to read deleted roles for user %d", userID), err)
	}
	return removed, nil
}
