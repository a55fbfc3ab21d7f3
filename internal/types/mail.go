package types

// SimpleMail is the plain outbound message record: one recipient, a subject,
// and a finished body. The simple-mail endpoint accepts it directly; templated
// dispatch produces one by rendering a payload into the Text field.
type SimpleMail struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Text    string `json:"text"`
}

// Email is implemented by every templated notification payload. A payload
// names the template variant it renders with and can be reduced to a
// SimpleMail carrying its routing fields; the body is filled in by the
// renderer from the payload's serialized form.
type Email interface {
	TemplateName() TemplateName
	ToSimpleMail() SimpleMail
}

// OrderUpdateStateForUser notifies a customer that an order changed state.
type OrderUpdateStateForUser struct {
	To         string `json:"to" validate:"required,email"`
	Subject    string `json:"subject" validate:"required"`
	OrderSlug  string `json:"order_slug" validate:"required"`
	OrderState string `json:"order_state" validate:"required"`
	ClusterURL string `json:"cluster_url"`
}

func (m OrderUpdateStateForUser) TemplateName() TemplateName { return TemplateOrderUpdateStateForUser }
func (m OrderUpdateStateForUser) ToSimpleMail() SimpleMail {
	return SimpleMail{To: m.To, Subject: m.Subject}
}

// OrderUpdateStateForStore notifies a store that one of its orders changed state.
type OrderUpdateStateForStore struct {
	To         string `json:"to" validate:"required,email"`
	Subject    string `json:"subject" validate:"required"`
	OrderSlug  string `json:"order_slug" validate:"required"`
	OrderState string `json:"order_state" validate:"required"`
	StoreID    int64  `json:"store_id" validate:"required"`
	ClusterURL string `json:"cluster_url"`
}

func (m OrderUpdateStateForStore) TemplateName() TemplateName {
	return TemplateOrderUpdateStateForStore
}
func (m OrderUpdateStateForStore) ToSimpleMail() SimpleMail {
	return SimpleMail{To: m.To, Subject: m.Subject}
}

// OrderCreateForUser confirms order creation to the customer.
type OrderCreateForUser struct {
	To         string `json:"to" validate:"required,email"`
	Subject    string `json:"subject" validate:"required"`
	OrderSlug  string `json:"order_slug" validate:"required"`
	ClusterURL string `json:"cluster_url"`
}

func (m OrderCreateForUser) TemplateName() TemplateName { return TemplateOrderCreateForUser }
func (m OrderCreateForUser) ToSimpleMail() SimpleMail {
	return SimpleMail{To: m.To, Subject: m.Subject}
}

// OrderCreateForStore notifies a store about a new order.
type OrderCreateForStore struct {
	To         string `json:"to" validate:"required,email"`
	Subject    string `json:"subject" validate:"required"`
	OrderSlug  string `json:"order_slug" validate:"required"`
	StoreID    int64  `json:"store_id" validate:"required"`
	ClusterURL string `json:"cluster_url"`
}

func (m OrderCreateForStore) TemplateName() TemplateName { return TemplateOrderCreateForStore }
func (m OrderCreateForStore) ToSimpleMail() SimpleMail {
	return SimpleMail{To: m.To, Subject: m.Subject}
}

// EmailVerificationForUser carries the address-verification token and link.
type EmailVerificationForUser struct {
	To         string `json:"to" validate:"required,email"`
	Subject    string `json:"subject" validate:"required"`
	Token      string `json:"token" validate:"required"`
	VerifyLink string `json:"verify_link"`
}

func (m EmailVerificationForUser) TemplateName() TemplateName {
	return TemplateEmailVerificationForUser
}
func (m EmailVerificationForUser) ToSimpleMail() SimpleMail {
	return SimpleMail{To: m.To, Subject: m.Subject}
}

// ApplyEmailVerificationForUser confirms a completed address verification.
type ApplyEmailVerificationForUser struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
}

func (m ApplyEmailVerificationForUser) TemplateName() TemplateName {
	return TemplateApplyEmailVerificationForUser
}
func (m ApplyEmailVerificationForUser) ToSimpleMail() SimpleMail {
	return SimpleMail{To: m.To, Subject: m.Subject}
}

// PasswordResetForUser carries the password-reset token and link.
type PasswordResetForUser struct {
	To         string `json:"to" validate:"required,email"`
	Subject    string `json:"subject" validate:"required"`
	ResetToken string `json:"reset_token" validate:"required"`
	ResetLink  string `json:"reset_link"`
}

func (m PasswordResetForUser) TemplateName() TemplateName { return TemplatePasswordResetForUser }
func (m PasswordResetForUser) ToSimpleMail() SimpleMail {
	return SimpleMail{To: m.To, Subject: m.Subject}
}

// ApplyPasswordResetForUser confirms a completed password reset.
type ApplyPasswordResetForUser struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
}

func (m ApplyPasswordResetForUser) TemplateName() TemplateName {
	return TemplateApplyPasswordResetForUser
}
func (m ApplyPasswordResetForUser) ToSimpleMail() SimpleMail {
	return SimpleMail{To: m.To, Subject: m.Subject}
}

// StoreModerationStatusForUser notifies a store owner of a moderation decision.
type StoreModerationStatusForUser struct {
	To        string `json:"to" validate:"required,email"`
	Subject   string `json:"subject" validate:"required"`
	StoreID   int64  `json:"store_id" validate:"required"`
	StoreName string `json:"store_name"`
	Status    string `json:"status" validate:"required"`
}

func (m StoreModerationStatusForUser) TemplateName() TemplateName {
	return TemplateStoreModerationStatusForUser
}
func (m StoreModerationStatusForUser) ToSimpleMail() SimpleMail {
	return SimpleMail{To: m.To, Subject: m.Subject}
}

// BaseProductModerationStatusForUser notifies a product owner of a moderation
// decision.
type BaseProductModerationStatusForUser struct {
	To            string `json:"to" validate:"required,email"`
	Subject       string `json:"subject" validate:"required"`
	BaseProductID int64  `json:"base_product_id" validate:"required"`
	ProductName   string `json:"product_name"`
	Status        string `json:"status" validate:"required"`
}

func (m BaseProductModerationStatusForUser) TemplateName() TemplateName {
	return TemplateBaseProductModerationStatusForUser
}
func (m BaseProductModerationStatusForUser) ToSimpleMail() SimpleMail {
	return SimpleMail{To: m.To, Subject: m.Subject}
}

// StoreModerationStatusForModerator asks a moderator to review a store status
// change.
type StoreModerationStatusForModerator struct {
	To        string `json:"to" validate:"required,email"`
	Subject   string `json:"subject" validate:"required"`
	StoreID   int64  `json:"store_id" validate:"required"`
	StoreName string `json:"store_name"`
	Status    string `json:"status" validate:"required"`
}

func (m StoreModerationStatusForModerator) TemplateName() TemplateName {
	return TemplateStoreModerationStatusForModerator
}
func (m StoreModerationStatusForModerator) ToSimpleMail() SimpleMail {
	return SimpleMail{To: m.To, Subject: m.Subject}
}

// BaseProductModerationStatusForModerator asks a moderator to review a product
// status change.
type BaseProductModerationStatusForModerator struct {
	To            string `json:"to" validate:"required,email"`
	Subject       string `json:"subject" validate:"required"`
	BaseProductID int64  `json:"base_product_id" validate:"required"`
	ProductName   string `json:"product_name"`
	Status        string `json:"status" validate:"required"`
}

func (m BaseProductModerationStatusForModerator) TemplateName() TemplateName {
	return TemplateBaseProductModerationStatusForModerator
}
func (m BaseProductModerationStatusForModerator) ToSimpleMail() SimpleMail {
	return SimpleMail{To: m.To, Subject: m.Subject}
}
