package Controllers

import (
	"strings"

	"GroundCheck/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserController handles admin user management
type UserController struct {
	DB     *gorm.DB
	Secret string
}

// NewUserController creates a new UserController
func NewUserController(db *gorm.DB, secret string) *UserController {
	return &UserController{DB: db, Secret: secret}
}

// GetUsers lists all users, newest first
func (u *UserController) GetUsers(ctx *fiber.Ctx) error {
	var users []Models.User
	if err := u.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "error": "Failed to retrieve users",
		})
	}
	return ctx.JSON(fiber.Map{"success": true, "data": users})
}

type createUserInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Nama     string `json:"nama" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin user"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// CreateUser creates a new user account
func (u *UserController) CreateUser(ctx *fiber.Ctx) error {
	var input createUserInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": "Invalid request body",
		})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": validationMessage(err),
		})
	}

	var existing Models.User
	if err := u.DB.Where("username = ?", input.Username).First(&existing).Error; err == nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": "Username already taken",
		})
	}

	user := Models.User{
		Username: input.Username,
		Password: Models.HashPassword(input.Password, u.Secret),
		Name:     input.Nama,
		Role:     input.Role,
		Email:    input.Email,
		Phone:    input.Phone,
		IsActive: true,
	}
	if err := u.DB.Create(&user).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") ||
			strings.Contains(err.Error(), "Duplicate entry") {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false, "error": "Username already taken",
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "error": "Failed to create user",
		})
	}

	return ctx.JSON(fiber.Map{"success": true, "data": user})
}

type updateUserInput struct {
	ID       uint    `json:"id" validate:"required"`
	Nama     *string `json:"nama"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"isActive"`
	Password *string `json:"password"`
}

// UpdateUser updates user fields; the password is re-digested only when provided
func (u *UserController) UpdateUser(ctx *fiber.Ctx) error {
	var input updateUserInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": "Invalid request body",
		})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": "User ID is required",
		})
	}

	var user Models.User
	if err := u.DB.First(&user, input.ID).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false, "error": "User not found",
		})
	}

	updates := map[string]interface{}{}
	if input.Nama != nil {
		updates["name"] = *input.Nama
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.Password != nil && *input.Password != "" {
		updates["password"] = Models.HashPassword(*input.Password, u.Secret)
	}

	if err := u.DB.Model(&user).Updates(updates).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "error": "Failed to update user",
		})
	}

	return ctx.JSON(fiber.Map{"success": true, "data": user})
}

// DeleteUser removes a user by the id query parameter
func (u *UserController) DeleteUser(ctx *fiber.Ctx) error {
	id := ctx.Query("id")
	if id == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": "User ID is required",
		})
	}

	var user Models.User
	if err := u.DB.First(&user, "id = ?", id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false, "error": "User not found",
		})
	}

	if err := u.DB.Delete(&user).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "error": "Failed to delete user",
		})
	}

	return ctx.JSON(fiber.Map{"success": true})
}
