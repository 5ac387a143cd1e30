package http

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/Eric21111/expense-tracker-sub001/internal/config"
	"github.com/Eric21111/expense-tracker-sub001/internal/database"
	"github.com/Eric21111/expense-tracker-sub001/internal/models"
)

// AuthMiddleware resolves the caller from the x-user-email header, or from a
// Bearer token issued at login, and stores the user in the request context.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.TrimSpace(c.GetHeader("x-user-email"))
		if email == "" {
			if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				email = emailFromToken(strings.TrimPrefix(auth, "Bearer "), cfg.JWTSecret)
			}
		}
		if email == "" {
			c.AbortWithStatusJSON(401, gin.H{"success": false, "message": "authentication required"})
			return
		}

		var user models.User
		if err := database.DB.Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
			c.AbortWithStatusJSON(401, gin.H{"success": false, "message": "unknown user"})
			return
		}

		c.Set("user", &user)
		c.Set("userID", user.ID)
		c.Next()
	}
}

func emailFromToken(token, secret string) string {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return ""
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	email, _ := claims["sub"].(string)
	return email
}

func currentUser(c *gin.Context) *models.User {
	return c.MustGet("user").(*models.User)
}
