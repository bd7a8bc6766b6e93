package middlewares

import (
	"net/http"
	"strings"

	"bitbucket.org/mmdatafocus/finsight_backend/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and copies its claims into
// the request context. Requests without a token pass through; handlers
// behind RequireAuth reject them.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")

		if auth == "" {
			c.Next()
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		validate, err := utils.JwtValidate(token)
		if err != nil || !validate.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		claim, ok := validate.Claims.(*utils.JwtCustomClaim)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		ctx = utils.SetTokenInContext(ctx, token)
		ctx = utils.SetOrgIdInContext(ctx, claim.OrgId)
		ctx = utils.SetUserIdInContext(ctx, claim.UserId)
		ctx = utils.SetUserNameInContext(ctx, claim.Name)
		ctx = utils.SetRoleInContext(ctx, claim.Role)
		ctx = utils.SetOutletIdsInContext(ctx, claim.OutletIds)
		if claim.Role == "admin" {
			ctx = utils.SetIsAdminInContext(ctx, true)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAuth guards routes that need an authenticated org scope.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgId, ok := utils.GetOrgIdFromContext(c.Request.Context())
		if !ok || orgId == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}
