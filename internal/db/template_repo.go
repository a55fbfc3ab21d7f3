package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"courier/internal/acl"
	"courier/internal/types"
)

// TemplateRepository provides access-controlled CRUD over the templates table.
// Reads fetch first and authorize on the fetched row; writes authorize before
// touching storage. Missing rows surface as not_found_template so dispatch can
// answer 404 without guessing.
type TemplateRepository struct {
	db DBTX
}

// NewTemplateRepository creates a template repository backed by the given
// connection source.
func NewTemplateRepository(db DBTX) *TemplateRepository {
	return &TemplateRepository{db: db}
}

var _ acl.ScopeChecker = (*TemplateRepository)(nil)

// IsInScope implements acl.ScopeChecker. Templates have no owner, so an
// owned-scope grant never matches one.
func (r *TemplateRepository) IsInScope(userID int64, scope acl.Scope, obj any) bool {
	return false
}

const templateColumns = "id, name, data"

func scanTemplate(row pgx.Row) (*types.Template, error) {
	var t types.Template
	if err := row.Scan(&t.ID, &t.Name, &t.Data); err != nil {
		return nil, err
	}
	return &t, nil
}

// getByName fetches a template row without authorization. Dispatch uses it
// directly: sending a notification is not a caller-facing template read.
func (r *TemplateRepository) getByName(ctx context.Context, name types.TemplateName) (*types.Template, error) {
	row := r.db.QueryRow(ctx,
		"SELECT "+templateColumns+" FROM templates WHERE name = $1",
		string(name))
	t, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewAppError(types.ErrCodeNotFoundTemplate,
				fmt.Sprintf("template %s not found", name), err)
		}
		return nil, dbError(fmt.Sprintf("failed to load template %s", name), err)
	}
	return t, nil
}

// Resolve returns the stored template body for a dispatch kind. No ACL check:
// the dispatch endpoints are service-to-service and authorize at the route
// level, not per template.
func (r *TemplateRepository) Resolve(ctx context.Context, name types.TemplateName) (*types.Template, error) {
	return r.getByName(ctx, name)
}

// GetByName fetches a template on behalf of a caller. The row is loaded first
// and the grant checked against it, so an unauthorized caller probing an
// existing name gets 403 while a missing name gets 404.
func (r *TemplateRepository) GetByName(ctx context.Context, p types.Principal, name types.TemplateName) (*types.Template, error) {
	t, err := r.getByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := acl.Check(p, acl.ResourceTemplates, acl.ActionRead, r, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts a new template. Authorization happens before the insert; a
// duplicate name maps to conflict_template_exists.
func (r *TemplateRepository) Create(ctx context.Context, p types.Principal, payload types.NewTemplate) (*types.Template, error) {
	if err := acl.Check(p, acl.ResourceTemplates, acl.ActionCreate, r, payload); err != nil {
		return nil, err
	}
	row := r.db.QueryRow(ctx,
		"INSERT INTO templates (name, data) VALUES ($1, $2) RETURNING "+templateColumns,
		string(payload.Name), payload.Data)
	t, err := scanTemplate(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, types.NewAppError(types.ErrCodeConflictTemplate,
				fmt.Sprintf("template %s already exists", payload.Name), err)
		}
		return nil, dbError(fmt.Sprintf("failed to create template %s", payload.Name), err)
	}
	return t, nil
}

// Update replaces the body of an existing template. The current row is
// fetched, the grant checked against it, and only then does the write run.
func (r *TemplateRepository) Update(ctx context.Context, p types.Principal, name types.TemplateName, data string) (*types.Template, error) {
	current, err := r.getByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := acl.Check(p, acl.ResourceTemplates, acl.ActionUpdate, r, current); err != nil {
		return nil, err
	}
	row := r.db.QueryRow(ctx,
		"UPDATE templates SET data = $2 WHERE name = $1 RETURNING "+templateColumns,
		string(name), data)
	t, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Row vanished between fetch and write.
			return nil, types.NewAppError(types.ErrCodeNotFoundTemplate,
				fmt.Sprintf("template %s not found", name), err)
		}
		return nil, dbError(fmt.Sprintf("failed to update template %s", name), err)
	}
	return t, nil
}

// Delete removes a template, returning the deleted row. Fetch, authorize,
// then write, same as Update.
func (r *TemplateRepository) Delete(ctx context.Context, p types.Principal, name types.TemplateName) (*types.Template, error) {
	current, err := r.getByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := acl.Check(p, acl.ResourceTemplates, acl.ActionDelete, r, current); err != nil {
		return nil, err
	}
	row := r.db.QueryRow(ctx,
		"DELETE FROM templates WHERE name = $1 RETURNING "+templateColumns,
		string(name))
	t, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewAppError(types.ErrCodeNotFoundTemplate,
				fmt.Sprintf("template %s not found", name), err)
		}
		return nil, dbError(fmt.Sprintf("failed to delete template %s", name), err)
	}
	return t, nil
}
