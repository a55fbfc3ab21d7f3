// Package config defines the courier service configuration. Configuration is
// loaded once at process start and is immutable thereafter; values come from
// the OS environment, with a .env file as fallback for local development.
// Missing required values fail startup immediately.
package config

import (
	"time"

	"courier/internal/types"
)

// SecretString aliases types.SecretString so secrets in configuration are
// redacted when logged or serialized.
type SecretString = types.SecretString

// Config is the top-level configuration. Sub-components receive only the
// subsets they require.
type Config struct {
	Environment string `envconfig:"APP_ENV" default:"local" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"courier"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	// IsTestMode swaps the Emarsys client for an in-process stub.
	IsTestMode bool `envconfig:"IS_TEST_MODE" default:"false"`

	Server   ServerConfig
	Database DatabaseConfig
	Mail     MailConfig
	SendGrid SendGridConfig
	SES      SESConfig
	Emarsys  EmarsysConfig

	// Build metadata injected via ldflags, not environment.
	Build BuildInfo
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host           string        `envconfig:"HTTP_HOST" default:"0.0.0.0"`
	Port           string        `envconfig:"HTTP_PORT" default:"8000"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds connection and pool tuning parameters.
type DatabaseConfig struct {
	URL               SecretString  `envconfig:"DATABASE_URL" validate:"required"`
	MaxConns          int32         `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns          int32         `envconfig:"DB_MIN_CONNS" default:"2"`
	AcquireTimeout    time.Duration `envconfig:"DB_ACQUIRE_TIMEOUT" default:"2s"`
	HealthCheckPeriod time.Duration `envconfig:"DB_HEALTH_CHECK_PERIOD" default:"1m"`
}

// MailConfig holds provider-independent dispatch settings.
type MailConfig struct {
	// Provider selects the outbound transport: sendgrid or ses.
	Provider  string `envconfig:"MAIL_PROVIDER" default:"sendgrid" validate:"oneof=sendgrid ses"`
	FromEmail string `envconfig:"MAIL_FROM_EMAIL" validate:"required,email"`
	// MaxInFlight bounds concurrent dispatches.
	MaxInFlight int64         `envconfig:"MAIL_MAX_IN_FLIGHT" default:"4"`
	SendTimeout time.Duration `envconfig:"MAIL_SEND_TIMEOUT" default:"10s"`
}

// SendGridConfig holds SendGrid credentials. Required when MAIL_PROVIDER is
// sendgrid.
type SendGridConfig struct {
	APIKey SecretString `envconfig:"SENDGRID_API_KEY"`
	// BaseURL overrides the API endpoint, for integration testing.
	BaseURL string `envconfig:"SENDGRID_BASE_URL"`
}

// SESConfig holds AWS SES settings. Credentials come from the default AWS
// chain. Required when MAIL_PROVIDER is ses.
type SESConfig struct {
	Region        string `envconfig:"AWS_REGION" default:"us-east-1"`
	ConfigSetName string `envconfig:"SES_CONFIG_SET"`
}

// EmarsysConfig holds the CRM contact API settings. When UsernameToken is
// empty (and in test mode) the stub contact provider is used.
type EmarsysConfig struct {
	BaseURL                   string       `envconfig:"EMARSYS_API_ADDR" default:"https://api.emarsys.net/api/v2"`
	UsernameToken             string       `envconfig:"EMARSYS_USERNAME_TOKEN"`
	APISecretKey              SecretString `envconfig:"EMARSYS_API_SECRET_KEY"`
	RegistrationContactListID int64        `envconfig:"EMARSYS_REGISTRATION_CONTACT_LIST_ID"`
}

// BuildInfo holds build-time metadata injected via ldflags.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Configured reports whether real Emarsys credentials are present.
func (c EmarsysConfig) Configured() bool {
	return c.UsernameToken != "" && c.APISecretKey.Unmask() != ""
}
