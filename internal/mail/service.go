package mail

import (
	"context"
	"log/slog"

	"golang.org/x/sync/semaphore"

	"courier/internal/external"
	"courier/internal/types"
)

// TemplateResolver fetches the stored template body for a dispatch kind.
// Satisfied by db.TemplateRepository.
type TemplateResolver interface {
	Resolve(ctx context.Context, name types.TemplateName) (*types.Template, error)
}

// Service runs the dispatch pipeline. A weighted semaphore bounds the number
// of in-flight dispatches so a burst of notifications cannot exhaust provider
// connections; callers queue on Acquire and honor context cancellation.
type Service struct {
	templates TemplateResolver
	provider  external.EmailProvider
	sem       *semaphore.Weighted
	logger    *slog.Logger
}

// NewService creates a dispatch service. maxInFlight bounds concurrent
// dispatches; values below one fall back to one.
func NewService(templates TemplateResolver, provider external.EmailProvider, maxInFlight int64, logger *slog.Logger) *Service {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		templates: templates,
		provider:  provider,
		sem:       semaphore.NewWeighted(maxInFlight),
		logger:    logger,
	}
}

// SendTemplated dispatches one templated notification: resolve, render, send.
// The first failing stage aborts the pipeline; its error names the stage and
// the template so operators can tell a missing template from a provider
// outage.
func (s *Service) SendTemplated(ctx context.Context, payload types.Email) error {
	name := payload.TemplateName()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return types.WrapStage("queue", string(name), err)
	}
	defer s.sem.Release(1)

	tmpl, err := s.templates.Resolve(ctx, name)
	if err != nil {
		return types.WrapStage("resolve", string(name), err)
	}

	body, err := Render(tmpl, payload)
	if err != nil {
		return types.WrapStage("render", string(name), err)
	}

	msg := payload.ToSimpleMail()
	msg.Text = body

	if err := s.provider.Send(ctx, msg, external.ContentTypeHTML); err != nil {
		return types.WrapStage("send", string(name), err)
	}

	s.logger.InfoContext(ctx, "notification dispatched",
		slog.String("template", string(name)),
		slog.String("to", msg.To))
	return nil
}

// SendSimple dispatches a pre-composed plain text message, skipping the
// resolve and render stages.
func (s *Service) SendSimple(ctx context.Context, msg types.SimpleMail) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return types.WrapStage("queue", "simple mail", err)
	}
	defer s.sem.Release(1)

	if err := s.provider.Send(ctx, msg, external.ContentTypeText); err != nil {
		return types.WrapStage("send", "simple mail", err)
	}

	s.logger.InfoContext(ctx, "simple mail dispatched", slog.String("to", msg.To))
	return nil
}
