package middleware

import (
	"log"
	"net/http"

	"khabee/models"

	"github.com/gin-gonic/gin"
)

// CheckKitchenOwnerMiddleware aborts requests from sessions without the
// kitchen-owner role. Ownership of the specific kitchen or order is checked
// in the handlers.
func CheckKitchenOwnerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("Role")
		if !exists {
			log.Println("failed to read role from context")
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "failed to resolve session role",
			})
			c.Abort()
			return
		}
		if role != models.RoleKitchenOwner {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "kitchen owner role required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
