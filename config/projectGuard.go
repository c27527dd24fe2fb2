package config

import (
	"context"
	"strings"

	"bitbucket.org/sitestack/sitebooks_backend/appctx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProjectGuardPlugin enforces supervisor isolation by automatically scoping
// queries/updates/deletes to the request's resolved project ids when the
// model has a project_id column.
//
// NOTE:
// - This does NOT apply to Raw SQL queries. Those must include project_id manually.
// - Admin/internal bypass is explicit via context flags.
// - The scope itself is resolved fresh per request by the workflow layer
//   (models.ResolveScope); this plugin only applies whatever the context carries.
type ProjectGuardPlugin struct{}

func NewProjectGuardPlugin() *ProjectGuardPlugin { return &ProjectGuardPlugin{} }

func (p *ProjectGuardPlugin) Name() string { return "project_guard" }

func (p *ProjectGuardPlugin) Initialize(db *gorm.DB) error {
	if err := db.Callback().Query().Before("gorm:query").Register("project_guard:query", projectGuardCallback); err != nil {
		return err
	}
	if err := db.Callback().Row().Before("gorm:row").Register("project_guard:row", projectGuardCallback); err != nil {
		return err
	}
	if err := db.Callback().Update().Before("gorm:update").Register("project_guard:update", projectGuardCallback); err != nil {
		return err
	}
	if err := db.Callback().Delete().Before("gorm:delete").Register("project_guard:delete", projectGuardCallback); err != nil {
		return err
	}
	return nil
}

func projectGuardCallback(db *gorm.DB) {
	if db == nil || db.Statement == nil {
		return
	}
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	if shouldBypassProjectScope(ctx) {
		return
	}
	scope, ok := projectScopeFromContext(ctx)
	if !ok {
		return
	}

	// Only apply if the current model/table includes a project_id column.
	if db.Statement.Schema == nil {
		return
	}
	hasProjectID := false
	for _, f := range db.Statement.Schema.Fields {
		if strings.EqualFold(f.DBName, "project_id") {
			hasProjectID = true
			break
		}
	}
	if !hasProjectID {
		return
	}

	// An empty scope means the supervisor owns no projects: match nothing
	// rather than everything.
	ids := scope
	if len(ids) == 0 {
		ids = []int{-1}
	}
	values := make([]any, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}

	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.IN{
				Column: clause.Column{Table: db.Statement.Table, Name: "project_id"},
				Values: values,
			},
		},
	})
}

func projectScopeFromContext(ctx context.Context) ([]int, bool) {
	return appctx.GetIntSlice(ctx, appctx.ContextKeyProjectScope)
}

func shouldBypassProjectScope(ctx context.Context) bool {
	if v, ok := appctx.GetBool(ctx, appctx.ContextKeySkipProjectScope); ok && v {
		return true
	}
	if v, ok := appctx.GetBool(ctx, appctx.ContextKeyIsAdmin); ok && v {
		return true
	}
	return false
}
