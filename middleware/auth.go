package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"food-donation-server/config"
	"food-donation-server/database"
	"food-donation-server/models"
	"food-donation-server/types"
)

// Claims represents the JWT claims (using shared types)
type Claims = types.Claims

// AuthMiddleware validates JWT tokens and sets user context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Authorization header required",
				"message": "Please provide a valid token",
			})
			c.Abort()
			return
		}

		// Check if the header starts with "Bearer "
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid token format",
				"message": "Token must be in format: Bearer <token>",
			})
			c.Abort()
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(config.AppConfig.JWT.Secret), nil
		})

		if err != nil {
			log.Printf("🔍 AuthMiddleware: Token parsing error: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid token",
				"message": "Token is invalid or expired",
			})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid token claims",
				"message": "Token claims are invalid",
			})
			c.Abort()
			return
		}

		// Get user from database
		var user models.User
		if err := database.DB.First(&user, claims.UserID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "User not found",
				"message": "User associated with token not found",
			})
			c.Abort()
			return
		}

		if !user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "User inactive",
				"message": "User account is deactivated",
			})
			c.Abort()
			return
		}

		// Every account gets a profile on registration; a missing one means
		// a half-created account and is treated as unauthorized.
		var profile models.UserProfile
		if err := database.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
			log.Printf("⚠️ AuthMiddleware: User %d has no profile: %v", user.ID, err)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Profile not found",
				"message": "User profile is missing, contact support",
			})
			c.Abort()
			return
		}

		// Set user in context
		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Set("profile", profile)

		c.Next()
	}
}

// OptionalAuthMiddleware is like AuthMiddleware but doesn't require authentication
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.Next()
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(config.AppConfig.JWT.Secret), nil
		})

		if err != nil {
			c.Next()
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok || !token.Valid {
			c.Next()
			return
		}

		var user models.User
		if err := database.DB.First(&user, claims.UserID).Error; err != nil {
			c.Next()
			return
		}

		if user.IsActive {
			var profile models.UserProfile
			if err := database.DB.Where("user_id = ?", user.ID).First(&profile).Error; err == nil {
				c.Set("user", user)
				c.Set("user_id", user.ID)
				c.Set("profile", profile)
			}
		}

		c.Next()
	}
}

// RoleRequired restricts a route to the given roles. It must run after
// AuthMiddleware. Beyond role membership it enforces the dashboard access
// rule: admins and donors always pass, NGOs only once an admin has approved
// them and they were not rejected.
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileValue, exists := c.Get("profile")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Authentication required",
				"message": "Please log in to access this resource",
			})
			c.Abort()
			return
		}

		profile := profileValue.(models.UserProfile)

		allowed := false
		for _, role := range roles {
			if profile.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "Access denied",
				"message": "Your account role cannot access this resource",
			})
			c.Abort()
			return
		}

		if !profile.CanAccessDashboard() {
			if profile.IsRejected {
				c.JSON(http.StatusForbidden, gin.H{
					"error":   "Account rejected",
					"message": "Your NGO registration was rejected. Contact the administrator.",
				})
			} else {
				c.JSON(http.StatusForbidden, gin.H{
					"error":   "Approval pending",
					"message": "Your NGO registration is awaiting admin approval",
				})
			}
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser returns the authenticated user set by AuthMiddleware.
func CurrentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}

// CurrentProfile returns the authenticated user's profile set by AuthMiddleware.
func CurrentProfile(c *gin.Context) (models.UserProfile, bool) {
	value, exists := c.Get("profile")
	if !exists {
		return models.UserProfile{}, false
	}
	profile, ok := value.(models.UserProfile)
	return profile, ok
}
