package models_test

import (
	"testing"

	"bitbucket.org/sitestack/sitebooks_backend/models"
	"bitbucket.org/sitestack/sitebooks_backend/utils"
)

func intPtr(v int) *int { return &v }

func TestAuthorize_AdminAlwaysAllowed(t *testing.T) {
	admin := models.Principal{ID: 1, Role: models.RoleAdmin}
	scope := models.Scope{All: true}
	actions := []models.Action{
		models.ActionRead,
		models.ActionWrite,
		models.ActionApproveMaterial,
		models.ActionRejectMaterial,
		models.ActionSetMaterialStatus,
		models.ActionCreateProject,
		models.ActionDeleteProject,
		models.ActionManageUsers,
		models.ActionDeleteTransaction,
	}
	for _, action := range actions {
		if err := models.Authorize(admin, scope, action, intPtr(42)); err != nil {
			t.Fatalf("action=%s: %v", action, err)
		}
		if err := models.Authorize(admin, scope, action, nil); err != nil {
			t.Fatalf("action=%s nil project: %v", action, err)
		}
	}
}

func TestAuthorize_SupervisorScopedReadWrite(t *testing.T) {
	sup := models.Principal{ID: 2, Role: models.RoleSupervisor}
	scope := models.Scope{ProjectIds: []int{10, 11}}

	if err := models.Authorize(sup, scope, models.ActionRead, intPtr(10)); err != nil {
		t.Fatalf("in-scope read: %v", err)
	}
	if err := models.Authorize(sup, scope, models.ActionWrite, intPtr(11)); err != nil {
		t.Fatalf("in-scope write: %v", err)
	}

	// Out of scope is Forbidden, not NotFound: the resource exists, the
	// principal just may not see it.
	err := models.Authorize(sup, scope, models.ActionRead, intPtr(12))
	if err == nil {
		t.Fatal("expected out-of-scope read to fail")
	}
	if utils.KindOf(err) != utils.ErrorKindForbidden {
		t.Fatalf("expected Forbidden, got %s", utils.KindOf(err))
	}
}

func TestAuthorize_SupervisorDeniedAdminOnlyActions(t *testing.T) {
	sup := models.Principal{ID: 2, Role: models.RoleSupervisor}
	scope := models.Scope{ProjectIds: []int{10}}
	actions := []models.Action{
		models.ActionApproveMaterial,
		models.ActionRejectMaterial,
		models.ActionSetMaterialStatus,
		models.ActionCreateProject,
		models.ActionDeleteProject,
		models.ActionManageUsers,
		models.ActionDeleteTransaction,
	}
	for _, action := range actions {
		// Denied even on the supervisor's own project.
		err := models.Authorize(sup, scope, action, intPtr(10))
		if err == nil {
			t.Fatalf("action=%s: expected denial", action)
		}
		if utils.KindOf(err) != utils.ErrorKindForbidden {
			t.Fatalf("action=%s: expected Forbidden, got %s", action, utils.KindOf(err))
		}
	}
}

func TestAuthorize_NilProjectIsAdminOnly(t *testing.T) {
	sup := models.Principal{ID: 2, Role: models.RoleSupervisor}
	scope := models.Scope{ProjectIds: []int{10}}
	if err := models.Authorize(sup, scope, models.ActionWrite, nil); err == nil {
		t.Fatal("expected supervisor write on unassigned resource to fail")
	}
}

func TestAuthorize_EmptyScopeDeniesEverything(t *testing.T) {
	sup := models.Principal{ID: 2, Role: models.RoleSupervisor}
	scope := models.Scope{}
	for _, projectId := range []int{1, 10, 999} {
		if err := models.Authorize(sup, scope, models.ActionRead, intPtr(projectId)); err == nil {
			t.Fatalf("project=%d: expected denial with empty scope", projectId)
		}
	}
}

func TestAuthorize_Idempotent(t *testing.T) {
	sup := models.Principal{ID: 2, Role: models.RoleSupervisor}
	scope := models.Scope{ProjectIds: []int{10}}
	first := models.Authorize(sup, scope, models.ActionRead, intPtr(12))
	second := models.Authorize(sup, scope, models.ActionRead, intPtr(12))
	if (first == nil) != (second == nil) {
		t.Fatalf("decision changed between identical calls: %v vs %v", first, second)
	}
}

func TestAuthorizeReassignment_RequiresBothSides(t *testing.T) {
	sup := models.Principal{ID: 2, Role: models.RoleSupervisor}
	scope := models.Scope{ProjectIds: []int{10}}

	// Source owned, destination not.
	if err := models.AuthorizeReassignment(sup, scope, intPtr(10), intPtr(20)); err == nil {
		t.Fatal("expected denial when destination is out of scope")
	}
	// Destination owned, source not: owning one side must not be enough.
	if err := models.AuthorizeReassignment(sup, scope, intPtr(20), intPtr(10)); err == nil {
		t.Fatal("expected denial when source is out of scope")
	}
	// Both owned.
	scope = models.Scope{ProjectIds: []int{10, 11}}
	if err := models.AuthorizeReassignment(sup, scope, intPtr(10), intPtr(11)); err != nil {
		t.Fatalf("both sides in scope: %v", err)
	}
	// Unassigning (nil destination) is admin-only for supervisors elsewhere;
	// here the nil side simply has no project to check.
	admin := models.Principal{ID: 1, Role: models.RoleAdmin}
	if err := models.AuthorizeReassignment(admin, models.Scope{All: true}, intPtr(10), nil); err != nil {
		t.Fatalf("admin unassign: %v", err)
	}
}

func TestScopeContains(t *testing.T) {
	all := models.Scope{All: true}
	if !all.Contains(123) {
		t.Fatal("universal scope must contain every project")
	}
	partial := models.Scope{ProjectIds: []int{1, 2}}
	if !partial.Contains(2) || partial.Contains(3) {
		t.Fatal("scope membership mismatch")
	}
}
