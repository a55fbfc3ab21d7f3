package external

import (
	"context"

	"courier/internal/types"
)

// Body content types for outbound email. Templated notifications render HTML;
// the plain-mail endpoint sends text.
const (
	ContentTypeText = "text/plain"
	ContentTypeHTML = "text/html"
)

// EmailProvider is the transactional email transport. Implementations carry
// pre-rendered content; courier never uses provider-side templates.
type EmailProvider interface {
	Send(ctx context.Context, mail types.SimpleMail, contentType string) error
}

// ContactProvider is the CRM contact API. CreateContact returns the
// provider-side contact ID; AddToContactList returns the number of contacts
// the provider reports as inserted.
type ContactProvider interface {
	CreateContact(ctx context.Context, payload types.CreateContact) (int64, error)
	AddToContactList(ctx context.Context, listID int64, email string) (int32, error)
	DeleteContact(ctx context.Context, payload types.DeleteContact) error
}
