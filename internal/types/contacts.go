package types

// CreateContact is the request to register a user in the CRM contact
// database. Only the email is mandatory; the optional profile fields map
// onto CRM system fields when present.
type CreateContact struct {
	UserID    int64   `json:"user_id" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	// Country is an ISO 3166-1 alpha-3 code, translated to the CRM's
	// single-choice country value. Unknown codes are dropped silently.
	Country *string `json:"country,omitempty"`
}

// CreatedContact is returned after a successful contact registration.
type CreatedContact struct {
	UserID    int64 `json:"user_id"`
	EmarsysID int64 `json:"emarsys_id"`
}

// DeleteContact is the request to remove a user from the CRM contact
// database.
type DeleteContact struct {
	UserID int64  `json:"user_id" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
}
