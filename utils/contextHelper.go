package utils

import (
	"context"

	"bitbucket.org/sitestack/sitebooks_backend/appctx"
)

func GetUserIdFromContext(ctx context.Context) (int, bool) {
	return appctx.GetInt(ctx, appctx.ContextKeyUserId)
}

func GetUserRoleFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, appctx.ContextKeyUserRole)
}

func GetUserNameFromContext(ctx context.Context) string {
	if v, ok := appctx.GetString(ctx, appctx.ContextKeyUserName); ok {
		return v
	}
	return "System"
}

func GetCorrelationIdFromContext(ctx context.Context) string {
	if v, ok := appctx.GetString(ctx, appctx.ContextKeyCorrelationId); ok {
		return v
	}
	return ""
}

// WithProjectScope stamps the supervisor's resolved project ids onto the
// context so the gorm project guard can apply them to every query.
func WithProjectScope(ctx context.Context, projectIds []int) context.Context {
	return appctx.Set(ctx, appctx.ContextKeyProjectScope, projectIds)
}

// WithoutProjectScope disables project scoping for internal operations
// (aggregate side effects running after authorization already passed).
func WithoutProjectScope(ctx context.Context) context.Context {
	return appctx.Set(ctx, appctx.ContextKeySkipProjectScope, true)
}
