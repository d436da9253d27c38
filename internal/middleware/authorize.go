package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"protikar/internal/models"
)

// RequireRole restricts a route to the given roles. It must run after
// AuthMiddleware, which puts the token's role claim on the context.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		value, exists := c.Get(ContextRole)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "UNAUTHORIZED", "message": "Authentication required"}})
			c.Abort()
			return
		}

		role, ok := value.(models.UserRole)
		if !ok || !allowed[role] {
			c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"code": "FORBIDDEN", "message": "Access denied"}})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CanManageUser is the single ownership rule for user records: a user may
// act on their own record, regulator staff may act on anyone's.
func CanManageUser(requesterID string, role models.UserRole, targetID string) bool {
	return requesterID == targetID || role.IsStaff()
}

// CanViewInternalMessages is the single visibility rule for internal
// grievance messages: policyholders never see them, everyone else does.
func CanViewInternalMessages(role models.UserRole) bool {
	return role != models.RolePolicyholder
}
