package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"food-donation-server/config"
	"food-donation-server/database"
	"food-donation-server/middleware"
	"food-donation-server/models"
	"food-donation-server/utils"
)

// RegisterRequest represents the registration request
type RegisterRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	Role            string `json:"role" binding:"required"`

	// Shared contact fields
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`

	// NGO-only fields
	OrganizationName   string `json:"organization_name"`
	ContactPerson      string `json:"contact_person"`
	RegistrationNumber string `json:"registration_number"`

	// Admin-only: must match ADMIN_INVITE_CODE
	InviteCode string `json:"invite_code"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// RegisterAuthRoutes registers authentication routes
func RegisterAuthRoutes(router *gin.RouterGroup) {
	router.POST("/register", register)
	router.POST("/login", login)
	router.POST("/logout", logout)
}

// RegisterMeRoutes registers the current-user route behind auth middleware
func RegisterMeRoutes(router *gin.RouterGroup) {
	router.GET("/me", me)
}

// register handles account creation for all three roles. NGOs start
// unapproved and wait for admin review; Admin accounts require the invite
// code from the environment.
func register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Password mismatch",
			"message": "Password and confirmation do not match",
		})
		return
	}

	role := models.UserRole(req.Role)
	switch role {
	case models.RoleDonor, models.RoleNGO, models.RoleAdmin:
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid role",
			"message": "Role must be one of: Donor, NGO, Admin",
		})
		return
	}

	if role == models.RoleAdmin {
		if config.AppConfig.Admin.InviteCode == "" || req.InviteCode != config.AppConfig.Admin.InviteCode {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "Invalid invite code",
				"message": "Admin registration requires a valid invite code",
			})
			return
		}
	}

	if role == models.RoleNGO && req.OrganizationName == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Missing organization name",
			"message": "NGO registration requires an organization name",
		})
		return
	}

	// Check if user already exists
	var existingUser models.User
	if err := database.DB.Where("username = ? OR email = ?", req.Username, req.Email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "User already exists",
			"message": "A user with this username or email already exists",
		})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Password hashing failed",
			"message": "Failed to process password",
		})
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		IsActive:     true,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "User creation failed",
			"message": "Failed to create user account",
		})
		return
	}

	profile := models.UserProfile{
		UserID:     user.ID,
		Role:       role,
		IsApproved: role != models.RoleNGO, // NGOs wait for admin approval
	}

	if err := database.DB.Create(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Profile creation failed",
			"message": "Failed to create user profile",
		})
		return
	}

	// Create the role-specific record so dashboards have something to show
	switch role {
	case models.RoleDonor:
		donor := models.Donor{
			UserID:  &user.ID,
			Name:    req.Username,
			Email:   req.Email,
			Phone:   req.Phone,
			Address: req.Address,
			City:    req.City,
		}
		if err := database.DB.Create(&donor).Error; err != nil {
			log.Printf("⚠️ Failed to create donor record for user %d: %v", user.ID, err)
		}
	case models.RoleNGO:
		ngo := models.NGO{
			UserID:             &user.ID,
			Name:               req.OrganizationName,
			ContactPerson:      req.ContactPerson,
			Email:              req.Email,
			Phone:              req.Phone,
			Address:            req.Address,
			City:               req.City,
			RegistrationNumber: req.RegistrationNumber,
		}
		if err := database.DB.Create(&ngo).Error; err != nil {
			log.Printf("⚠️ Failed to create NGO record for user %d: %v", user.ID, err)
		}
	}

	token, err := utils.GenerateToken(user.ID, string(role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Token generation failed",
			"message": "Failed to generate authentication token",
		})
		return
	}

	message := "Account created successfully"
	if role == models.RoleNGO {
		message = "NGO account created. You can log in after an administrator approves your registration."
	}

	log.Printf("✅ Registered %s account for %s (user %d)", role, user.Username, user.ID)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": message,
		"token":   token,
		"user":    user,
		"profile": profile,
	})
}

// login authenticates a user. The selected role must match the account's
// actual role; unapproved NGOs get a token but are flagged so the client
// can show the pending-approval screen.
func login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	var user models.User
	if err := database.DB.Where("username = ? OR email = ?", req.Username, req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Invalid credentials",
			"message": "Username or password is incorrect",
		})
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Invalid credentials",
			"message": "Username or password is incorrect",
		})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "User inactive",
			"message": "User account is deactivated",
		})
		return
	}

	var profile models.UserProfile
	if err := database.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Profile not found",
			"message": "User profile is missing, contact support",
		})
		return
	}

	if string(profile.Role) != req.Role {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Role mismatch",
			"message": "This account is not registered as " + req.Role,
		})
		return
	}

	if profile.IsNGO() && profile.IsRejected {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Account rejected",
			"message": "Your NGO registration was rejected. Contact the administrator.",
		})
		return
	}

	token, err := utils.GenerateToken(user.ID, string(profile.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Token generation failed",
			"message": "Failed to generate authentication token",
		})
		return
	}

	response := gin.H{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user":    user,
		"profile": profile,
	}
	if profile.IsNGO() && !profile.IsApproved {
		response["approval_pending"] = true
		response["message"] = "Login successful. Your NGO registration is awaiting admin approval."
	}

	log.Printf("✅ User %s logged in as %s", user.Username, profile.Role)

	c.JSON(http.StatusOK, response)
}

// me returns the authenticated user with profile
func me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Authentication required",
			"message": "Please log in to access this resource",
		})
		return
	}
	profile, _ := middleware.CurrentProfile(c)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user":    user,
			"profile": profile,
		},
	})
}

// logout is stateless on the server; tokens simply expire. The session
// cookie (location filter) is cleared so a shared browser starts fresh.
func logout(c *gin.Context) {
	clearSessionLocation(c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}
