package Controllers

import (
	"log"

	"GroundCheck/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SeedController bootstraps the default accounts and reference hierarchy
type SeedController struct {
	DB     *gorm.DB
	Secret string
}

// NewSeedController creates a new SeedController
func NewSeedController(db *gorm.DB, secret string) *SeedController {
	return &SeedController{DB: db, Secret: secret}
}

// Seed creates the default admin, a sample user and the reference hierarchy.
// Safe to call repeatedly: once the admin exists it is a no-op.
func (s *SeedController) Seed(ctx *fiber.Ctx) error {
	var existing Models.User
	if err := s.DB.Where("username = ?", "admin").First(&existing).Error; err == nil {
		return ctx.JSON(fiber.Map{
			"success": true,
			"message": "Database already seeded",
		})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		admin := Models.User{
			Username: "admin",
			Password: Models.HashPassword("admin123", s.Secret),
			Name:     "Administrator",
			Role:     Models.RoleAdmin,
			Email:    "admin@sgs.com",
			IsActive: true,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}

		sample := Models.User{
			Username: "krani1",
			Password: Models.HashPassword("user123", s.Secret),
			Name:     "Krani Divisi 1",
			Role:     Models.RoleUser,
			Email:    "krani1@sgs.com",
			IsActive: true,
		}
		if err := tx.Create(&sample).Error; err != nil {
			return err
		}

		divisions := []Models.Division{
			{Kode: "1", Nama: "Divisi 1", Deskripsi: "Divisi Pertama", IsActive: true},
			{Kode: "2", Nama: "Divisi 2", Deskripsi: "Divisi Kedua", IsActive: true},
			{Kode: "3", Nama: "Divisi 3", Deskripsi: "Divisi Ketiga", IsActive: true},
		}
		if err := tx.Create(&divisions).Error; err != nil {
			return err
		}

		units := []Models.SupervisionUnit{
			{Kode: "A", Nama: "Kemandoran A", DivisionID: divisions[0].ID, IsActive: true},
			{Kode: "B", Nama: "Kemandoran B", DivisionID: divisions[1].ID, IsActive: true},
			{Kode: "C", Nama: "Kemandoran C", DivisionID: divisions[2].ID, IsActive: true},
		}
		return tx.Create(&units).Error
	})
	if err != nil {
		log.Println("Seed failed:", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "error": "Failed to seed database",
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Database seeded",
	})
}
