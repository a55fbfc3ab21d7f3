// Package mail implements the notification dispatch pipeline: resolve the
// stored template for a notification kind, render it with the payload's
// fields, and hand the finished message to the configured email provider.
// Each stage failure is annotated with the stage and the template involved so
// a dispatch error always names where it broke.
package mail

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/aymerick/raymond"

	"courier/internal/types"
)

// placeholderPattern matches simple Handlebars expressions. Block helpers,
// partials, and comments are skipped; only plain field references are
// validated against the payload.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([#/^!>]?)\s*([a-zA-Z0-9_.]+)\s*\}\}`)

// payloadFields flattens a notification payload into the key set its template
// renders with, via its JSON form.
func payloadFields(payload types.Email) (map[string]any, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalRender,
			fmt.Sprintf("failed to serialize payload for template %s", payload.TemplateName()), err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalRender,
			fmt.Sprintf("failed to deserialize payload for template %s", payload.TemplateName()), err)
	}
	return fields, nil
}

// ExtractPlaceholders returns the distinct plain field references in a
// template body, sorted. Helper markers ({{#if}}, {{/if}}, {{!comment}}) are
// excluded.
func ExtractPlaceholders(data string) []string {
	seen := map[string]struct{}{}
	for _, m := range placeholderPattern.FindAllStringSubmatch(data, -1) {
		if m[1] != "" || m[2] == "else" || m[2] == "this" {
			continue
		}
		// A dotted path is validated by its root segment.
		root := strings.SplitN(m[2], ".", 2)[0]
		seen[root] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ValidatePlaceholders checks that every placeholder in the template body is
// a field the named notification kind provides. Used when templates are
// created or updated, so a typo fails at write time instead of on the first
// dispatch.
func ValidatePlaceholders(name types.TemplateName, data string) error {
	proto, err := payloadPrototype(name)
	if err != nil {
		return err
	}
	fields, err := payloadFields(proto)
	if err != nil {
		return err
	}

	var unknown []string
	for _, ph := range ExtractPlaceholders(data) {
		if _, ok := fields[ph]; !ok {
			unknown = append(unknown, ph)
		}
	}
	if len(unknown) > 0 {
		return types.NewAppErrorWithDetails(
			types.ErrCodeValidationPlaceholder,
			fmt.Sprintf("template %s references unknown placeholders: %s", name, strings.Join(unknown, ", ")),
			nil,
			map[string]any{"template": string(name), "placeholders": unknown},
		)
	}
	return nil
}

// Render fills the stored template body with the payload's fields. The
// payload is checked against the body first, so a stale template that names a
// field this payload does not carry fails as a render error naming the
// template rather than silently producing an empty substitution.
func Render(tmpl *types.Template, payload types.Email) (string, error) {
	fields, err := payloadFields(payload)
	if err != nil {
		return "", err
	}

	var missing []string
	for _, ph := range ExtractPlaceholders(tmpl.Data) {
		if _, ok := fields[ph]; !ok {
			missing = append(missing, ph)
		}
	}
	if len(missing) > 0 {
		return "", types.NewAppErrorWithDetails(
			types.ErrCodeInternalRender,
			fmt.Sprintf("template %s references fields the payload does not provide: %s",
				tmpl.Name, strings.Join(missing, ", ")),
			nil,
			map[string]any{"template": string(tmpl.Name), "placeholders": missing},
		)
	}

	out, err := raymond.Render(tmpl.Data, fields)
	if err != nil {
		return "", types.NewAppError(
			types.ErrCodeInternalRender,
			fmt.Sprintf("failed to render template %s", tmpl.Name),
			err,
		)
	}
	return out, nil
}

// payloadPrototype returns a zero payload of the named kind, used to learn
// the field set a template of that kind may reference.
func payloadPrototype(name types.TemplateName) (types.Email, error) {
	switch name {
	case types.TemplateOrderUpdateStateForUser:
		return types.OrderUpdateStateForUser{}, nil
	case types.TemplateOrderUpdateStateForStore:
		return types.OrderUpdateStateForStore{}, nil
	case types.TemplateOrderCreateForUser:
		return types.OrderCreateForUser{}, nil
	case types.TemplateOrderCreateForStore:
		return types.OrderCreateForStore{}, nil
	case types.TemplateEmailVerificationForUser:
		return types.EmailVerificationForUser{}, nil
	case types.TemplateApplyEmailVerificationForUser:
		return types.ApplyEmailVerificationForUser{}, nil
	case types.TemplatePasswordResetForUser:
		return types.PasswordResetForUser{}, nil
	case types.TemplateApplyPasswordResetForUser:
		return types.ApplyPasswordResetForUser{}, nil
	case types.TemplateStoreModerationStatusForUser:
		return types.StoreModerationStatusForUser{}, nil
	case types.TemplateBaseProductModerationStatusForUser:
		return types.BaseProductModerationStatusForUser{}, nil
	case types.TemplateStoreModerationStatusForModerator:
		return types.StoreModerationStatusForModerator{}, nil
	case types.TemplateBaseProductModerationStatusForModerator:
		return types.BaseProductModerationStatusForModerator{}, nil
	default:
		return nil, types.NewAppError(types.ErrCodeValidationUnknownVariant,
			fmt.Sprintf("unknown template variant %q", name), nil)
	}
}
