package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Build metadata injected via ldflags.
var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildTime    = "unknown"
)

// Load reads, parses, and validates the configuration:
//  1. Enforce UTC to prevent timezone drift in timestamps.
//  2. Load a .env file if present (absence is not an error).
//  3. Populate the struct from envconfig tags.
//  4. Validate with go-playground/validator, including cross-field rules the
//     tags cannot express.
func Load() (*Config, error) {
	time.Local = time.UTC

	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	cfg.Build = BuildInfo{
		Version:   buildVersion,
		Commit:    buildCommit,
		BuildTime: buildTime,
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	// Provider credentials are conditionally required; envconfig tags cannot
	// express that, so check here.
	if cfg.Mail.Provider == "sendgrid" && cfg.SendGrid.APIKey.Unmask() == "" {
		return nil, fmt.Errorf("SENDGRID_API_KEY is required when MAIL_PROVIDER=sendgrid")
	}
	if !cfg.IsTestMode && !cfg.Emarsys.Configured() {
		return nil, fmt.Errorf("EMARSYS_USERNAME_TOKEN and EMARSYS_API_SECRET_KEY are required outside test mode")
	}

	return &cfg, nil
}
