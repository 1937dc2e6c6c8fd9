package Controllers

import (
	"GroundCheck/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DivisionController handles the organizational hierarchy endpoints
type DivisionController struct {
	DB *gorm.DB
}

// NewDivisionController creates a new DivisionController
func NewDivisionController(db *gorm.DB) *DivisionController {
	return &DivisionController{DB: db}
}

// GetDivisions lists active divisions ordered by kode, with live child counts
func (d *DivisionController) GetDivisions(ctx *fiber.Ctx) error {
	var divisions []Models.Division
	if err := d.DB.Where("is_active = ?", true).Order("kode ASC").Find(&divisions).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "error": "Failed to retrieve divisions",
		})
	}

	for i := range divisions {
		d.DB.Model(&Models.SupervisionUnit{}).
			Where("division_id = ?", divisions[i].ID).
			Count(&divisions[i].UnitCount)
		d.DB.Model(&Models.Task{}).
			Where("division_id = ?", divisions[i].ID).
			Count(&divisions[i].TaskCount)
	}

	return ctx.JSON(fiber.Map{"success": true, "data": divisions})
}

type createDivisionInput struct {
	Kode      string `json:"kode" validate:"required"`
	Nama      string `json:"nama" validate:"required"`
	Deskripsi string `json:"deskripsi"`
}

// CreateDivision creates a division (admin only, enforced at the route)
func (d *DivisionController) CreateDivision(ctx *fiber.Ctx) error {
	var input createDivisionInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": "Invalid request body",
		})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": "Kode and nama are required",
		})
	}

	division := Models.Division{
		Kode:      input.Kode,
		Nama:      input.Nama,
		Deskripsi: input.Deskripsi,
		IsActive:  true,
	}
	if err := d.DB.Create(&division).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "error": "Failed to create division",
		})
	}

	return ctx.JSON(fiber.Map{"success": true, "data": division})
}

// GetSupervisionUnits lists active units ordered by kode, optionally filtered
// to one division, with live task counts
func (d *DivisionController) GetSupervisionUnits(ctx *fiber.Ctx) error {
	query := d.DB.Where("is_active = ?", true)
	if divisionID := ctx.Query("divisionId"); divisionID != "" {
		query = query.Where("division_id = ?", divisionID)
	}

	var units []Models.SupervisionUnit
	if err := query.Preload("Division").Order("kode ASC").Find(&units).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "error": "Failed to retrieve supervision units",
		})
	}

	for i := range units {
		d.DB.Model(&Models.Task{}).
			Where("unit_id = ?", units[i].ID).
			Count(&units[i].TaskCount)
	}

	return ctx.JSON(fiber.Map{"success": true, "data": units})
}

type createUnitInput struct {
	Kode       string `json:"kode" validate:"required"`
	Nama       string `json:"nama" validate:"required"`
	DivisionID uint   `json:"divisionId" validate:"required"`
	Deskripsi  string `json:"deskripsi"`
}

// CreateSupervisionUnit creates a unit under an existing division (admin only)
func (d *DivisionController) CreateSupervisionUnit(ctx *fiber.Ctx) error {
	var input createUnitInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": "Invalid request body",
		})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": "Kode, nama and divisionId are required",
		})
	}

	var division Models.Division
	if err := d.DB.First(&division, input.DivisionID).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false, "error": "Division not found",
		})
	}

	unit := Models.SupervisionUnit{
		Kode:       input.Kode,
		Nama:       input.Nama,
		Deskripsi:  input.Deskripsi,
		DivisionID: input.DivisionID,
		IsActive:   true,
	}
	if err := d.DB.Create(&unit).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "error": "Failed to create supervision unit",
		})
	}

	return ctx.JSON(fiber.Map{"success": true, "data": unit})
}
