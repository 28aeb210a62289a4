package middleware

import (
	"log"
	"strings"

	"khabee/jwt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware parses the bearer token when present and stashes the session
// identity in the context. Invalid or missing tokens do not abort the
// request; handlers and the login gate decide what requires a session.
func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")

		if token == "" {
			c.Header("Authorization", "")
			c.Next()
			return
		}

		userID, role, err := jwt.VerifyToken(&token, db)
		if err != nil {
			log.Printf("failed to verify token: %v\n", err)
			c.Header("Authorization", "")
			c.Next()
			return
		}

		c.Header("Authorization", authHeader)
		c.Set("Token", token)
		c.Set("UserID", userID)
		c.Set("Role", role)
		c.Next()
	}
}
