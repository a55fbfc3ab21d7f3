package external

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"courier/internal/types"
)

// SESAPI is the subset of the SES v2 client used by SESClient, extracted so
// tests can provide a mock.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESClientConfig holds the configuration for creating an SESClient.
type SESClientConfig struct {
	FromEmail string
	// ConfigSetName is the SES configuration set for delivery tracking.
	// Optional.
	ConfigSetName string
	Logger        *slog.Logger
}

// SESClient implements EmailProvider over AWS SES v2. Authentication comes
// from IAM credentials and the SDK carries its own retry logic, so there is
// no BaseClient wrapper here.
type SESClient struct {
	api           SESAPI
	from          string
	configSetName string
	logger        *slog.Logger
}

// NewSESClient creates an SESClient from an AWS config.
func NewSESClient(awsCfg aws.Config, cfg SESClientConfig) *SESClient {
	return NewSESClientWithAPI(sesv2.NewFromConfig(awsCfg), cfg)
}

// NewSESClientWithAPI creates an SESClient with a caller-provided SESAPI,
// typically a mock in tests.
func NewSESClientWithAPI(api SESAPI, cfg SESClientConfig) *SESClient {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SESClient{
		api:           api,
		from:          cfg.FromEmail,
		configSetName: cfg.ConfigSetName,
		logger:        logger,
	}
}

// Send transmits one message via SES SendEmail with simple content. The body
// lands in Html or Text depending on contentType; subjects are always UTF-8.
func (s *SESClient) Send(ctx context.Context, mail types.SimpleMail, contentType string) error {
	body := &sestypes.Body{}
	content := &sestypes.Content{
		Data:    aws.String(mail.Text),
		Charset: aws.String("UTF-8"),
	}
	if contentType == ContentTypeHTML {
		body.Html = content
	} else {
		body.Text = content
	}

	emailInput := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination: &sestypes.Destination{
			ToAddresses: []string{mail.To},
		},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{
					Data:    aws.String(mail.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: body,
			},
		},
	}
	if s.configSetName != "" {
		emailInput.ConfigurationSetName = aws.String(s.configSetName)
	}

	result, err := s.api.SendEmail(ctx, emailInput)
	if err != nil {
		return mapSESError(err)
	}

	if result.MessageId != nil {
		s.logger.DebugContext(ctx, "ses accepted message",
			slog.String("to", mail.To),
			slog.String("message_id", *result.MessageId))
	}
	return nil
}

// mapSESError translates AWS SES errors into typed application errors.
func mapSESError(err error) error {
	var tooManyReqs *sestypes.TooManyRequestsException
	if errors.As(err, &tooManyReqs) {
		return types.NewAppError(
			types.ErrCodeUpstreamRateLimited,
			fmt.Sprintf("SES rate limit exceeded: %v", err),
			err,
		)
	}

	var sendingPaused *sestypes.SendingPausedException
	if errors.As(err, &sendingPaused) {
		return types.NewAppError(
			types.ErrCodeUpstreamUnavailable,
			fmt.Sprintf("SES account sending paused: %v", err),
			err,
		)
	}

	return types.NewAppError(
		types.ErrCodeUpstreamEmailProvider,
		fmt.Sprintf("SES error: %v", err),
		err,
	)
}

// Compile-time assertion that SESClient satisfies EmailProvider.
var _ EmailProvider = (*SESClient)(nil)
