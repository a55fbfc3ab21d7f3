package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"courier/internal/types"
)

func userRoleScan(id, userID int64, role types.Role, at time.Time) func(dest ...any) error {
	return func(dest ...any) error {
		*dest[0].(*int64) = id
		*dest[1].(*int64) = userID
		*dest[2].(*types.Role) = role
		*dest[3].(*time.Time) = at
		*dest[4].(*time.Time) = at
		return nil
	}
}

func TestUserRoleRepository_RolesForAuth(t *testing.T) {
	db := new(mockDBTX)
	repo := NewUserRoleRepository(db)

	rows := &mockRows{scanFns: []func(dest ...any) error{
		func(dest ...any) error { *dest[0].(*types.Role) = types.RoleUser; return nil },
		func(dest ...any) error { *dest[0].(*types.Role) = types.RoleModerator; return nil },
	}}
	db.On("Query", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(rows, nil)

	roles, err := repo.RolesForAuth(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, []types.Role{types.RoleUser, types.RoleModerator}, roles)
	assert.True(t, rows.closed)
}

func TestUserRoleRepository_RolesForAuth_QueryError(t *testing.T) {
	db := new(mockDBTX)
	repo := NewUserRoleRepository(db)

	db.On("Query", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(nil, errors.New("connection refused"))

	_, err := repo.RolesForAuth(context.Background(), 42)
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeInternalDB, appErr.Code)
}

func TestUserRoleRepository_ListForUser_OwnGrantsAllowed(t *testing.T) {
	db := new(mockDBTX)
	repo := NewUserRoleRepository(db)

	now := time.Now().UTC()
	rows := &mockRows{scanFns: []func(dest ...any) error{
		userRoleScan(1, 42, types.RoleUser, now),
	}}
	db.On("Query", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(rows, nil)

	grants, err := repo.ListForUser(context.Background(), userPrincipal(42), 42)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, types.RoleUser, grants[0].Role)
}

func TestUserRoleRepository_ListForUser_OtherUserDenied(t *testing.T) {
	db := new(mockDBTX)
	repo := NewUserRoleRepository(db)

	_, err := repo.ListForUser(context.Background(), userPrincipal(42), 43)
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodePermissionDenied, appErr.Code)
	db.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserRoleRepository_ListForUser_SuperuserListsAnyone(t *testing.T) {
	db := new(mockDBTX)
	repo := NewUserRoleRepository(db)

	now := time.Now().UTC()
	rows := &mockRows{scanFns: []func(dest ...any) error{
		userRoleScan(2, 43, types.RoleModerator, now),
	}}
	db.On("Query", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(rows, nil)

	grants, err := repo.ListForUser(context.Background(), superuserPrincipal(1), 43)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, int64(43), grants[0].UserID)
}

func TestUserRoleRepository_Create_Success(t *testing.T) {
	db := new(mockDBTX)
	repo := NewUserRoleRepository(db)

	now := time.Now().UTC()
	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(&mockRow{scanFn: userRoleScan(10, 42, types.RoleModerator, now)})

	ur, err := repo.Create(context.Background(), superuserPrincipal(1), types.NewUserRole{
		UserID: 42,
		Role:   types.RoleModerator,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), ur.ID)
	assert.Equal(t, types.RoleModerator, ur.Role)
}

func TestUserRoleRepository_Create_UserDenied(t *testing.T) {
	db := new(mockDBTX)
	repo := NewUserRoleRepository(db)

	_, err := repo.Create(context.Background(), userPrincipal(42), types.NewUserRole{
		UserID: 42,
		Role:   types.RoleSuperuser,
	})
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodePermissionDenied, appErr.Code)
	db.AssertNotCalled(t, "QueryRow", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserRoleRepository_Delete_MissingGrant(t *testing.T) {
	db := new(mockDBTX)
	repo := NewUserRoleRepository(db)

	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(&mockRow{scanErr: pgx.ErrNoRows})

	_, err := repo.Delete(context.Background(), superuserPrincipal(1), types.RemoveUserRole{
		UserID: 42,
		Role:   types.RoleModerator,
	})
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeNotFoundRole, appErr.Code)
	assert.Equal(t, 404, appErr.HTTPStatus())
}

func TestUserRoleRepository_CreateDefault_GrantsUserRole(t *testing.T) {
	db := new(mockDBTX)
	repo := NewUserRoleRepository(db)

	now := time.Now().UTC()
	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(&mockRow{scanFn: userRoleScan(11, 99, types.RoleUser, now)})

	ur, err := repo.CreateDefault(context.Background(), superuserPrincipal(1), 99)
	require.NoError(t, err)
	assert.Equal(t, types.RoleUser, ur.Role)
	assert.Equal(t, int64(99), ur.UserID)
}

func TestUserRoleRepository_DeleteDefaults_ReturnsRemoved(t *testing.T) {
	db := new(mockDBTX)
	repo := NewUserRoleRepository(db)

	now := time.Now().UTC()
	rows := &mockRows{scanFns: []func(dest ...any) error{
		userRoleScan(11, 99, types.RoleUser, now),
	}}
	db.On("Query", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(rows, nil)

	removed, err := repo.DeleteDefaults(context.Background(), superuserPrincipal(1), 99)
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, types.RoleUser, removed[0].Role)
}

func TestUserRoleRepository_IsInScope(t *testing.T) {
	repo := NewUserRoleRepository(new(mockDBTX))

	assert.True(t, repo.IsInScope(42, "owned", int64(42)))
	assert.False(t, repo.IsInScope(42, "owned", int64(43)))
	assert.True(t, repo.IsInScope(42, "owned", types.UserRole{UserID: 42}))
	assert.False(t, repo.IsInScope(42, "owned", "bogus"))
}
