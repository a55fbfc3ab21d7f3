package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://courier:pw@localhost:5432/courier")
	t.Setenv("MAIL_FROM_EMAIL", "noreply@example.com")
	t.Setenv("SENDGRID_API_KEY", "SG.test")
	t.Setenv("IS_TEST_MODE", "true")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Environment)
	assert.Equal(t, "courier", cfg.Service)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "sendgrid", cfg.Mail.Provider)
	assert.Equal(t, int64(4), cfg.Mail.MaxInFlight)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.False(t, cfg.Emarsys.Configured())
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_SendGridKeyRequiredForSendGridProvider(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SENDGRID_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SENDGRID_API_KEY")
}

func TestLoad_SESProviderNeedsNoSendGridKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SENDGRID_API_KEY", "")
	t.Setenv("MAIL_PROVIDER", "ses")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ses", cfg.Mail.Provider)
}

func TestLoad_EmarsysRequiredOutsideTestMode(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("IS_TEST_MODE", "false")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMARSYS")
}

func TestLoad_EmarsysConfigured(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("IS_TEST_MODE", "false")
	t.Setenv("EMARSYS_USERNAME_TOKEN", "someuser")
	t.Setenv("EMARSYS_API_SECRET_KEY", "somesecret")
	t.Setenv("EMARSYS_REGISTRATION_CONTACT_LIST_ID", "42")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Emarsys.Configured())
	assert.Equal(t, int64(42), cfg.Emarsys.RegistrationContactListID)
	assert.Equal(t, "somesecret", cfg.Emarsys.APISecretKey.Unmask())
}
