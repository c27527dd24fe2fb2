package models

import (
	"context"

	"bitbucket.org/sitestack/sitebooks_backend/appctx"
	"bitbucket.org/sitestack/sitebooks_backend/config"
	"bitbucket.org/sitestack/sitebooks_backend/utils"
)

// Principal is the authenticated actor performing an operation.
// Immutable per request.
type Principal struct {
	ID   int
	Role Role
	Name string
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// PrincipalFromContext rebuilds the principal the auth middleware stored.
func PrincipalFromContext(ctx context.Context) (Principal, error) {
	id, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return Principal{}, utils.NewForbidden("no authenticated principal")
	}
	role, ok := utils.GetUserRoleFromContext(ctx)
	if !ok || !Role(role).Valid() {
		return Principal{}, utils.NewForbidden("no authenticated principal")
	}
	return Principal{ID: id, Role: Role(role), Name: utils.GetUserNameFromContext(ctx)}, nil
}

// Scope is the set of projects a principal may act upon.
// All=true is the universal set ("no filter"), admins only.
type Scope struct {
	All        bool
	ProjectIds []int
}

func (s Scope) Contains(projectId int) bool {
	if s.All {
		return true
	}
	for _, id := range s.ProjectIds {
		if id == projectId {
			return true
		}
	}
	return false
}

// ResolveScope computes the principal's scope from current project
// assignments. Assignments can change between requests, so this is queried
// fresh every call and never cached.
func ResolveScope(ctx context.Context, p Principal) (Scope, error) {
	if p.IsAdmin() {
		return Scope{All: true}, nil
	}
	db := config.GetDB()
	var ids []int
	err := db.WithContext(utils.WithoutProjectScope(ctx)).
		Model(&Project{}).
		Where("supervisor_id = ?", p.ID).
		Pluck("id", &ids).Error
	if err != nil {
		return Scope{}, err
	}
	return Scope{ProjectIds: ids}, nil
}

// Action classifies domain operations for the authorization decision table.
type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"

	// Admin-only actions.
	ActionApproveMaterial   Action = "approveMaterial"
	ActionRejectMaterial    Action = "rejectMaterial"
	ActionSetMaterialStatus Action = "setMaterialStatus"
	ActionCreateProject     Action = "createProject"
	ActionDeleteProject     Action = "deleteProject"
	ActionManageUsers       Action = "manageUsers"
	ActionDeleteTransaction Action = "deleteTransaction"
)

func (a Action) adminOnly() bool {
	switch a {
	case ActionApproveMaterial, ActionRejectMaterial, ActionSetMaterialStatus,
		ActionCreateProject, ActionDeleteProject, ActionManageUsers, ActionDeleteTransaction:
		return true
	}
	return false
}

// Authorize applies the decision table:
//   - admin: always allowed
//   - supervisor, admin-only action: denied
//   - supervisor, read/write: allowed iff the resource's project is in scope
//   - resource with no resolvable project: admin only
//
// Pure function of its arguments, so calling it twice with identical
// arguments and unchanged assignments yields the same result.
func Authorize(p Principal, scope Scope, action Action, resourceProjectId *int) error {
	if p.IsAdmin() {
		return nil
	}
	if action.adminOnly() {
		return utils.NewForbidden("action %s requires admin role", action)
	}
	if resourceProjectId == nil {
		return utils.NewForbidden("resource is not assigned to a project")
	}
	if !scope.Contains(*resourceProjectId) {
		return utils.NewForbidden("project %d is outside the principal's scope", *resourceProjectId)
	}
	return nil
}

// AuthorizeReassignment covers moving a resource between projects: the acting
// supervisor must be authorized on both the source (if any) and the
// destination. Owning only one side is not enough to pull resources across.
func AuthorizeReassignment(p Principal, scope Scope, sourceProjectId *int, destProjectId *int) error {
	if p.IsAdmin() {
		return nil
	}
	if destProjectId != nil && !scope.Contains(*destProjectId) {
		return utils.NewForbidden("destination project %d is outside the principal's scope", *destProjectId)
	}
	if sourceProjectId != nil && !scope.Contains(*sourceProjectId) {
		return utils.NewForbidden("source project %d is outside the principal's scope", *sourceProjectId)
	}
	return nil
}

// ScopedContext resolves the principal's scope and stamps it onto the context
// so the gorm project guard filters every subsequent query uniformly.
func ScopedContext(ctx context.Context, p Principal) (context.Context, Scope, error) {
	scope, err := ResolveScope(ctx, p)
	if err != nil {
		return ctx, Scope{}, err
	}
	if p.IsAdmin() {
		ctx = appctx.Set(ctx, appctx.ContextKeyIsAdmin, true)
	} else {
		ctx = utils.WithProjectScope(ctx, scope.ProjectIds)
	}
	return ctx, scope, nil
}
