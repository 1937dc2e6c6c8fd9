package Controllers

import (
	"log"
	"time"

	"GroundCheck/Models"
	"GroundCheck/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthController handles login, logout and session lookup
type AuthController struct {
	DB     *gorm.DB
	Secret string
}

// NewAuthController creates a new AuthController
func NewAuthController(db *gorm.DB, secret string) *AuthController {
	return &AuthController{DB: db, Secret: secret}
}

type loginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and sets the session cookie
func (a *AuthController) Login(ctx *fiber.Ctx) error {
	var input loginInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": "Invalid request body",
		})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": "Username and password are required",
		})
	}

	var user Models.User
	if err := a.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false, "error": "Username not found",
		})
	}
	if !user.IsActive {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false, "error": "Account is inactive",
		})
	}
	if !Models.VerifyPassword(input.Password, user.Password, a.Secret) {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false, "error": "Invalid password",
		})
	}

	now := time.Now()
	if err := a.DB.Model(&user).Update("last_login", now).Error; err != nil {
		log.Println("Failed to update last login:", err)
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		log.Println("Failed to generate token:", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "error": "Failed to create session",
		})
	}
	ctx.Cookie(middleware.SessionCookie(token))

	return ctx.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// Me returns the authenticated session user
func (a *AuthController) Me(ctx *fiber.Ctx) error {
	user := middleware.CurrentUser(ctx)
	return ctx.JSON(fiber.Map{
		"success":       true,
		"authenticated": true,
		"user":          user,
	})
}

// Logout clears the session cookie
func (a *AuthController) Logout(ctx *fiber.Ctx) error {
	ctx.Cookie(middleware.ClearSessionCookie())
	return ctx.JSON(fiber.Map{"success": true})
}
