package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"courier/internal/external"
	"courier/internal/types"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(ctx context.Context, name types.TemplateName) (*types.Template, error) {
	args := m.Called(ctx, name)
	if t := args.Get(0); t != nil {
		return t.(*types.Template), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Send(ctx context.Context, msg types.SimpleMail, contentType string) error {
	args := m.Called(ctx, msg, contentType)
	return args.Error(0)
}

func TestSendTemplated_Success(t *testing.T) {
	resolver := new(mockResolver)
	provider := new(mockProvider)
	svc := NewService(resolver, provider, 4, nil)

	resolver.On("Resolve", mock.Anything, types.TemplatePasswordResetForUser).
		Return(&types.Template{
			ID:   1,
			Name: types.TemplatePasswordResetForUser,
			Data: "Token: {{reset_token}}",
		}, nil)
	provider.On("Send", mock.Anything, mock.MatchedBy(func(msg types.SimpleMail) bool {
		return msg.To == "user@example.com" && msg.Text == "Token: abc123"
	}), external.ContentTypeHTML).Return(nil)

	err := svc.SendTemplated(context.Background(), types.PasswordResetForUser{
		To:         "user@example.com",
		Subject:    "Password reset",
		ResetToken: "abc123",
	})
	require.NoError(t, err)
	provider.AssertExpectations(t)
}

func TestSendTemplated_MissingTemplateSkipsProvider(t *testing.T) {
	resolver := new(mockResolver)
	provider := new(mockProvider)
	svc := NewService(resolver, provider, 4, nil)

	resolver.On("Resolve", mock.Anything, types.TemplateOrderCreateForUser).
		Return(nil, types.NewAppError(types.ErrCodeNotFoundTemplate, "template order_create_for_user not found", nil))

	err := svc.SendTemplated(context.Background(), types.OrderCreateForUser{
		To:        "user@example.com",
		Subject:   "Order created",
		OrderSlug: "ord-1",
	})
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeNotFoundTemplate, appErr.Code)
	assert.Equal(t, 404, appErr.HTTPStatus())
	assert.Contains(t, appErr.Message, "resolve stage failed")

	provider.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendTemplated_RenderFailureSkipsProvider(t *testing.T) {
	resolver := new(mockResolver)
	provider := new(mockProvider)
	svc := NewService(resolver, provider, 4, nil)

	// Stored template names a field this payload kind does not carry.
	resolver.On("Resolve", mock.Anything, types.TemplateApplyPasswordResetForUser).
		Return(&types.Template{
			Name: types.TemplateApplyPasswordResetForUser,
			Data: "Token: {{reset_token}}",
		}, nil)

	err := svc.SendTemplated(context.Background(), types.ApplyPasswordResetForUser{
		To:      "user@example.com",
		Subject: "Done",
	})
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeInternalRender, appErr.Code)
	assert.Contains(t, appErr.Message, "render stage failed")

	provider.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendTemplated_ProviderFailureKeepsCode(t *testing.T) {
	resolver := new(mockResolver)
	provider := new(mockProvider)
	svc := NewService(resolver, provider, 4, nil)

	resolver.On("Resolve", mock.Anything, types.TemplatePasswordResetForUser).
		Return(&types.Template{
			Name: types.TemplatePasswordResetForUser,
			Data: "Token: {{reset_token}}",
		}, nil)
	provider.On("Send", mock.Anything, mock.Anything, mock.Anything).
		Return(types.NewAppError(types.ErrCodeUpstreamUnavailable, "upstream returned 503 after retries", nil))

	err := svc.SendTemplated(context.Background(), types.PasswordResetForUser{
		To:         "user@example.com",
		Subject:    "Password reset",
		ResetToken: "abc123",
	})
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeUpstreamUnavailable, appErr.Code)
	assert.Contains(t, appErr.Message, "send stage failed")
}

func TestSendSimple_UsesTextContent(t *testing.T) {
	resolver := new(mockResolver)
	provider := new(mockProvider)
	svc := NewService(resolver, provider, 4, nil)

	provider.On("Send", mock.Anything, mock.Anything, external.ContentTypeText).Return(nil)

	err := svc.SendSimple(context.Background(), types.SimpleMail{
		To:      "user@example.com",
		Subject: "hi",
		Text:    "plain body",
	})
	require.NoError(t, err)

	resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
	provider.AssertExpectations(t)
}

func TestSendTemplated_CancelledContextFailsQueueStage(t *testing.T) {
	resolver := new(mockResolver)
	provider := new(mockProvider)
	svc := NewService(resolver, provider, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.SendTemplated(ctx, types.PasswordResetForUser{
		To:         "user@example.com",
		Subject:    "Password reset",
		ResetToken: "abc123",
	})
	require.Error(t, err)
	resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}
