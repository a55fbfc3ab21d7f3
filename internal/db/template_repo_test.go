package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"courier/internal/types"
)

func templateRow(id int64, name types.TemplateName, data string) *mockRow {
	return &mockRow{
		scanFn: func(dest ...any) error {
			*dest[0].(*int64) = id
			*dest[1].(*types.TemplateName) = name
			*dest[2].(*string) = data
			return nil
		},
	}
}

func TestTemplateRepository_Resolve_Success(t *testing.T) {
	db := new(mockDBTX)
	repo := NewTemplateRepository(db)

	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(templateRow(1, types.TemplatePasswordResetForUser, "Reset: {{reset_token}}"))

	tmpl, err := repo.Resolve(context.Background(), types.TemplatePasswordResetForUser)
	require.NoError(t, err)
	assert.Equal(t, types.TemplatePasswordResetForUser, tmpl.Name)
	assert.Equal(t, "Reset: {{reset_token}}", tmpl.Data)
	db.AssertExpectations(t)
}

func TestTemplateRepository_Resolve_NotFound(t *testing.T) {
	db := new(mockDBTX)
	repo := NewTemplateRepository(db)

	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(&mockRow{scanErr: pgx.ErrNoRows})

	_, err := repo.Resolve(context.Background(), types.TemplateOrderCreateForUser)
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeNotFoundTemplate, appErr.Code)
	assert.Equal(t, 404, appErr.HTTPStatus())
}

func TestTemplateRepository_Resolve_DBError(t *testing.T) {
	db := new(mockDBTX)
	repo := NewTemplateRepository(db)

	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(&mockRow{scanErr: errors.New("connection refused")})

	_, err := repo.Resolve(context.Background(), types.TemplateOrderCreateForUser)
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeInternalDB, appErr.Code)
}

func TestTemplateRepository_GetByName_SuperuserAllowed(t *testing.T) {
	db := new(mockDBTX)
	repo := NewTemplateRepository(db)

	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(templateRow(7, types.TemplateOrderCreateForUser, "Order {{order_slug}} created"))

	tmpl, err := repo.GetByName(context.Background(), superuserPrincipal(1), types.TemplateOrderCreateForUser)
	require.NoError(t, err)
	assert.Equal(t, int64(7), tmpl.ID)
}

func TestTemplateRepository_GetByName_UserDenied(t *testing.T) {
	db := new(mockDBTX)
	repo := NewTemplateRepository(db)

	// The row is fetched before the grant check, so the deny is a 403 on an
	// existing template, not a 404.
	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(templateRow(7, types.TemplateOrderCreateForUser, "Order {{order_slug}} created"))

	_, err := repo.GetByName(context.Background(), userPrincipal(1), types.TemplateOrderCreateForUser)
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodePermissionDenied, appErr.Code)
	assert.Equal(t, 403, appErr.HTTPStatus())
}

func TestTemplateRepository_GetByName_ModeratorAllowed(t *testing.T) {
	db := new(mockDBTX)
	repo := NewTemplateRepository(db)

	id := int64(5)
	moderator := types.Principal{UserID: &id, Roles: []types.Role{types.RoleModerator}}

	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(templateRow(7, types.TemplateOrderCreateForUser, "body"))

	_, err := repo.GetByName(context.Background(), moderator, types.TemplateOrderCreateForUser)
	require.NoError(t, err)
}

func TestTemplateRepository_Create_DeniedBeforeInsert(t *testing.T) {
	db := new(mockDBTX)
	repo := NewTemplateRepository(db)

	_, err := repo.Create(context.Background(), userPrincipal(1), types.NewTemplate{
		Name: types.TemplateOrderCreateForUser,
		Data: "body",
	})
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodePermissionDenied, appErr.Code)

	// No storage call happened.
	db.AssertNotCalled(t, "QueryRow", mock.Anything, mock.Anything, mock.Anything)
}

func TestTemplateRepository_Create_Conflict(t *testing.T) {
	db := new(mockDBTX)
	repo := NewTemplateRepository(db)

	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(&mockRow{scanErr: &pgconn.PgError{Code: "23505"}})

	_, err := repo.Create(context.Background(), superuserPrincipal(1), types.NewTemplate{
		Name: types.TemplateOrderCreateForUser,
		Data: "body",
	})
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeConflictTemplate, appErr.Code)
	assert.Equal(t, 409, appErr.HTTPStatus())
}

func TestTemplateRepository_Update_FetchThenWrite(t *testing.T) {
	db := new(mockDBTX)
	repo := NewTemplateRepository(db)

	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(templateRow(3, types.TemplatePasswordResetForUser, "old body")).Once()
	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(templateRow(3, types.TemplatePasswordResetForUser, "new body")).Once()

	tmpl, err := repo.Update(context.Background(), superuserPrincipal(1), types.TemplatePasswordResetForUser, "new body")
	require.NoError(t, err)
	assert.Equal(t, "new body", tmpl.Data)
	db.AssertExpectations(t)
}

func TestTemplateRepository_Update_NotFoundStopsBeforeWrite(t *testing.T) {
	db := new(mockDBTX)
	repo := NewTemplateRepository(db)

	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(&mockRow{scanErr: pgx.ErrNoRows}).Once()

	_, err := repo.Update(context.Background(), superuserPrincipal(1), types.TemplatePasswordResetForUser, "new body")
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeNotFoundTemplate, appErr.Code)
	db.AssertNumberOfCalls(t, "QueryRow", 1)
}

func TestTemplateRepository_Delete_ReturnsRemovedRow(t *testing.T) {
	db := new(mockDBTX)
	repo := NewTemplateRepository(db)

	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(templateRow(9, types.TemplateOrderCreateForStore, "body")).Twice()

	tmpl, err := repo.Delete(context.Background(), superuserPrincipal(1), types.TemplateOrderCreateForStore)
	require.NoError(t, err)
	assert.Equal(t, int64(9), tmpl.ID)
}

func TestTemplateRepository_IsInScope_AlwaysFalse(t *testing.T) {
	repo := NewTemplateRepository(new(mockDBTX))
	assert.False(t, repo.IsInScope(1, "owned", &types.Template{ID: 1}))
}
