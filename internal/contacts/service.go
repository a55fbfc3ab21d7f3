// Package contacts synchronizes courier's users into the CRM contact
// database. Registration creates the contact and then adds it to the
// configured registration contact list; the second step is best effort, since
// a contact that exists but is missing from the list is recoverable while a
// failed registration is not.
package contacts

import (
	"context"
	"log/slog"

	"courier/internal/external"
	"courier/internal/types"
)

// Service drives contact registration and removal against a ContactProvider.
type Service struct {
	provider external.ContactProvider
	// registrationListID is the contact list new registrations are added to.
	registrationListID int64
	logger             *slog.Logger
}

// NewService creates a contact sync service.
func NewService(provider external.ContactProvider, registrationListID int64, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		provider:           provider,
		registrationListID: registrationListID,
		logger:             logger,
	}
}

// CreateContact registers the user as a CRM contact and adds it to the
// registration list. Failure to add to the list is logged but does not fail
// the call; the contact ID is already assigned at that point and the caller
// must learn it.
func (s *Service) CreateContact(ctx context.Context, payload types.CreateContact) (*types.CreatedContact, error) {
	s.logger.InfoContext(ctx, "registering user as crm contact",
		slog.Int64("user_id", payload.UserID))

	emarsysID, err := s.provider.CreateContact(ctx, payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "crm contact creation failed",
			slog.Int64("user_id", payload.UserID),
			slog.Any("error", err))
		return nil, err
	}

	inserted, err := s.provider.AddToContactList(ctx, s.registrationListID, payload.Email)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to add contact to registration list",
			slog.Int64("user_id", payload.UserID),
			slog.Int64("list_id", s.registrationListID),
			slog.Any("error", err))
	} else {
		s.logger.InfoContext(ctx, "contact added to registration list",
			slog.Int64("user_id", payload.UserID),
			slog.Int("inserted", int(inserted)))
	}

	return &types.CreatedContact{UserID: payload.UserID, EmarsysID: emarsysID}, nil
}

// DeleteContact removes the user's CRM contact.
func (s *Service) DeleteContact(ctx context.Context, payload types.DeleteContact) error {
	s.logger.InfoContext(ctx, "removing crm contact",
		slog.Int64("user_id", payload.UserID))
	return s.provider.DeleteContact(ctx, payload)
}
