package types

import (
	"fmt"
	"time"
)

// TemplateName identifies which stored template applies to a notification
// kind. The set is closed: every dispatch endpoint maps to exactly one value.
type TemplateName string

const (
	TemplateOrderUpdateStateForUser                 TemplateName = "order_update_state_for_user"
	TemplateOrderUpdateStateForStore                TemplateName = "order_update_state_for_store"
	TemplateOrderCreateForUser                      TemplateName = "order_create_for_user"
	TemplateOrderCreateForStore                     TemplateName = "order_create_for_store"
	TemplateEmailVerificationForUser                TemplateName = "email_verification_for_user"
	TemplateApplyEmailVerificationForUser           TemplateName = "apply_email_verification_for_user"
	TemplatePasswordResetForUser                    TemplateName = "password_reset_for_user"
	TemplateApplyPasswordResetForUser               TemplateName = "apply_password_reset_for_user"
	TemplateStoreModerationStatusForUser            TemplateName = "store_moderation_status_for_user"
	TemplateBaseProductModerationStatusForUser      TemplateName = "base_product_moderation_status_for_user"
	TemplateStoreModerationStatusForModerator       TemplateName = "store_moderation_status_for_moderator"
	TemplateBaseProductModerationStatusForModerator TemplateName = "base_product_moderation_status_for_moderator"
)

// allTemplateNames lists every valid variant for parsing and iteration.
var allTemplateNames = []TemplateName{
	TemplateOrderUpdateStateForUser,
	TemplateOrderUpdateStateForStore,
	TemplateOrderCreateForUser,
	TemplateOrderCreateForStore,
	TemplateEmailVerificationForUser,
	TemplateApplyEmailVerificationForUser,
	TemplatePasswordResetForUser,
	TemplateApplyPasswordResetForUser,
	TemplateStoreModerationStatusForUser,
	TemplateBaseProductModerationStatusForUser,
	TemplateStoreModerationStatusForModerator,
	TemplateBaseProductModerationStatusForModerator,
}

// ParseTemplateName validates a wire-form template name (e.g. from a URL
// segment) against the closed variant set.
func ParseTemplateName(s string) (TemplateName, error) {
	for _, n := range allTemplateNames {
		if string(n) == s {
			return n, nil
		}
	}
	return "", NewAppError(ErrCodeValidationUnknownVariant,
		fmt.Sprintf("unknown template variant %q", s), nil)
}

// TemplateNames returns the full closed set of template variants.
func TemplateNames() []TemplateName {
	out := make([]TemplateName, len(allTemplateNames))
	copy(out, allTemplateNames)
	return out
}

// Template is a stored message template. The name is unique: every dispatch
// kind resolves to exactly one row, or lookup fails.
type Template struct {
	ID   int64        `json:"id"`
	Name TemplateName `json:"name"`
	Data string       `json:"data"`
}

// NewTemplate is the insert payload for a template row.
type NewTemplate struct {
	Name TemplateName `json:"name" validate:"required"`
	Data string       `json:"data" validate:"required"`
}

// Role is the closed set of caller roles consulted by the access control
// engine.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleSuperuser Role = "superuser"
)

// ParseRole validates a wire-form role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleModerator, RoleSuperuser:
		return Role(s), nil
	}
	return "", NewAppError(ErrCodeValidationInvalidBody,
		fmt.Sprintf("unknown role %q", s), nil)
}

// UserRole is one role grant for one user. A user may hold multiple rows;
// absence of rows implies no elevated privilege.
type UserRole struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserRole is the insert payload for a role grant.
type NewUserRole struct {
	UserID int64 `json:"user_id" validate:"required"`
	Role   Role  `json:"role" validate:"required,oneof=user moderator superuser"`
}

// RemoveUserRole identifies a role grant for deletion.
type RemoveUserRole struct {
	UserID int64 `json:"user_id" validate:"required"`
	Role   Role  `json:"role" validate:"required,oneof=user moderator superuser"`
}
