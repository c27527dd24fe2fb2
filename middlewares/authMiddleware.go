package middlewares

import (
	"context"
	"net/http"
	"strings"

	"bitbucket.org/sitestack/sitebooks_backend/appctx"
	"bitbucket.org/sitestack/sitebooks_backend/models"
	"bitbucket.org/sitestack/sitebooks_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthMiddleware verifies the bearer token and stores the principal's
// identity on the request context. Unauthenticated requests pass through;
// handlers that need a principal reject them via models.PrincipalFromContext.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		correlationID := c.Request.Header.Get("X-Correlation-Id")
		if correlationID == "" {
			correlationID = uuid.NewString()
		}
		ctx = appctx.Set(ctx, appctx.ContextKeyCorrelationId, correlationID)

		auth := c.Request.Header.Get("Authorization")
		if auth == "" {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
			return
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(auth, bearer) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		claims, err := utils.JwtValidate(auth[len(bearer):])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx = appctx.Set(ctx, appctx.ContextKeyUserId, claims.ID)
		ctx = appctx.Set(ctx, appctx.ContextKeyUserRole, claims.Role)
		ctx = appctx.Set(ctx, appctx.ContextKeyUserName, claims.Name)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequirePrincipal rebuilds the principal stored by AuthMiddleware, failing
// the request when there is none.
func RequirePrincipal(c *gin.Context) (models.Principal, bool) {
	p, err := models.PrincipalFromContext(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		c.Abort()
		return models.Principal{}, false
	}
	return p, true
}

// CtxValue exposes the request context for workflow calls.
func CtxValue(c *gin.Context) context.Context {
	return c.Request.Context()
}
