package mail

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier/internal/types"
)

func TestRender_PasswordReset(t *testing.T) {
	tmpl := &types.Template{
		ID:   1,
		Name: types.TemplatePasswordResetForUser,
		Data: "<p>Your reset token: {{reset_token}}</p><a href=\"{{reset_link}}\">Reset</a>",
	}
	payload := types.PasswordResetForUser{
		To:         "user@example.com",
		Subject:    "Password reset",
		ResetToken: "abc123",
		ResetLink:  "https://example.com/reset/abc123",
	}

	out, err := Render(tmpl, payload)
	require.NoError(t, err)
	assert.Contains(t, out, "abc123")
	assert.Contains(t, out, "https://example.com/reset/abc123")
}

func TestRender_MissingFieldFailsNamingTemplate(t *testing.T) {
	tmpl := &types.Template{
		Name: types.TemplateApplyPasswordResetForUser,
		Data: "Token: {{reset_token}}",
	}
	// ApplyPasswordResetForUser has no reset_token field.
	payload := types.ApplyPasswordResetForUser{
		To:      "user@example.com",
		Subject: "Done",
	}

	_, err := Render(tmpl, payload)
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeInternalRender, appErr.Code)
	assert.Contains(t, appErr.Message, string(types.TemplateApplyPasswordResetForUser))
	assert.Contains(t, appErr.Message, "reset_token")
}

func TestRender_DeterministicOutput(t *testing.T) {
	tmpl := &types.Template{
		Name: types.TemplateOrderCreateForUser,
		Data: "Order {{order_slug}} created. Visit {{cluster_url}}.",
	}
	payload := types.OrderCreateForUser{
		To:         "user@example.com",
		Subject:    "Order created",
		OrderSlug:  "ord-42",
		ClusterURL: "https://shop.example.com",
	}

	first, err := Render(tmpl, payload)
	require.NoError(t, err)
	second, err := Render(tmpl, payload)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "Order ord-42 created. Visit https://shop.example.com.", first)
}

func TestExtractPlaceholders(t *testing.T) {
	data := "{{#if store_name}}Store {{store_name}}{{/if}} status {{status}} {{! note}} {{status}}"
	assert.Equal(t, []string{"status", "store_name"}, ExtractPlaceholders(data))
}

func TestValidatePlaceholders_AcceptsKnownFields(t *testing.T) {
	err := ValidatePlaceholders(types.TemplatePasswordResetForUser,
		"Token {{reset_token}}, link {{reset_link}}, sent to {{to}}")
	require.NoError(t, err)
}

func TestValidatePlaceholders_RejectsUnknownField(t *testing.T) {
	err := ValidatePlaceholders(types.TemplatePasswordResetForUser, "Hello {{username}}")
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeValidationPlaceholder, appErr.Code)
	assert.Equal(t, 400, appErr.HTTPStatus())
	assert.Contains(t, appErr.Message, "username")
}

func TestPayloadPrototype_CoversEveryVariant(t *testing.T) {
	for _, name := range types.TemplateNames() {
		proto, err := payloadPrototype(name)
		require.NoError(t, err, "variant %s", name)
		assert.Equal(t, name, proto.TemplateName())
	}
}
