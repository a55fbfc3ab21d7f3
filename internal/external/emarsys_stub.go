package external

import (
	"context"
	"log/slog"
	"sync/atomic"

	"courier/internal/types"
)

// StubEmarsysClient is a ContactProvider that never leaves the process. It
// backs local development and test-mode deployments where no Emarsys
// credentials exist; every call succeeds and is logged.
type StubEmarsysClient struct {
	logger *slog.Logger
	nextID atomic.Int64
}

// NewStubEmarsysClient creates a stub provider. Contact IDs are handed out
// sequentially starting at 1.
func NewStubEmarsysClient(logger *slog.Logger) *StubEmarsysClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &StubEmarsysClient{logger: logger}
}

func (s *StubEmarsysClient) CreateContact(ctx context.Context, payload types.CreateContact) (int64, error) {
	id := s.nextID.Add(1)
	s.logger.InfoContext(ctx, "stub emarsys create contact",
		slog.Int64("user_id", payload.UserID),
		slog.Int64("emarsys_id", id))
	return id, nil
}

func (s *StubEmarsysClient) AddToContactList(ctx context.Context, listID int64, email string) (int32, error) {
	s.logger.InfoContext(ctx, "stub emarsys add to contact list",
		slog.Int64("list_id", listID))
	return 1, nil
}

func (s *StubEmarsysClient) DeleteContact(ctx context.Context, payload types.DeleteContact) error {
	s.logger.InfoContext(ctx, "stub emarsys delete contact",
		slog.Int64("user_id", payload.UserID))
	return nil
}

var _ ContactProvider = (*StubEmarsysClient)(nil)
