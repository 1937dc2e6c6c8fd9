package Controllers

import (
	"encoding/json"
	"log"
	"time"

	"GroundCheck/Models"
	"GroundCheck/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ReportController handles signing and report payload assembly
type ReportController struct {
	DB *gorm.DB
}

// NewReportController creates a new ReportController
func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

type signInput struct {
	TaskID         uint   `json:"taskId" validate:"required"`
	SignatureImage string `json:"signatureImage" validate:"required"`
}

// ReportPoint is one collection point in the report payload.
type ReportPoint struct {
	PointNumber int        `json:"pointNumber"`
	Photos      []string   `json:"photos"`
	Notes       string     `json:"notes"`
	Latitude    *float64   `json:"lat"`
	Longitude   *float64   `json:"lon"`
	CapturedAt  time.Time  `json:"capturedAt"`
}

// ReportPayload is the denormalized report, recomputed on every request and
// never persisted. Handed to the client for document rendering.
type ReportPayload struct {
	Number        string                  `json:"nomorTask"`
	InspectorName string                  `json:"inspectorName"`
	Division      *Models.Division        `json:"division"`
	Unit          *Models.SupervisionUnit `json:"unit"`
	Notes         string                  `json:"notes"`
	SubmittedAt   *time.Time              `json:"submittedAt"`
	Points        []ReportPoint           `json:"attachments"`
	Signature     string                  `json:"signature"`
	GeneratedAt   time.Time               `json:"generatedAt"`
	GeneratedBy   string                  `json:"generatedBy"`
}

// Sign persists the task signature once and returns the report payload.
// A second call for the same task skips the insert but still builds the report.
func (r *ReportController) Sign(ctx *fiber.Ctx) error {
	user := middleware.CurrentUser(ctx)

	var input signInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": "Invalid request body",
		})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": "Task ID and signature are required",
		})
	}

	var task Models.Task
	err := r.DB.Preload("User").Preload("Division").Preload("Unit").
		Preload("Attachments").Preload("Signature").
		First(&task, input.TaskID).Error
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false, "error": "Task not found",
		})
	}

	if user.Role != Models.RoleAdmin && task.UserID != user.ID {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false, "error": "Forbidden",
		})
	}

	if task.Signature == nil {
		signature := Models.Signature{
			TaskID: task.ID,
			UserID: user.ID,
			Image:  input.SignatureImage,
		}
		if err := r.DB.Create(&signature).Error; err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false, "error": "Failed to save signature",
			})
		}
		task.Signature = &signature
	}

	payload := buildReport(task, task.Signature.Image, user.Name)

	return ctx.JSON(fiber.Map{"success": true, "data": payload})
}

func buildReport(task Models.Task, signature, generatedBy string) ReportPayload {
	points := make([]ReportPoint, 0, len(task.Attachments))
	for _, att := range task.Attachments {
		var photos []string
		if err := json.Unmarshal(att.Photos, &photos); err != nil {
			log.Println("Malformed photo collection on attachment:", att.ID, err)
		}
		points = append(points, ReportPoint{
			PointNumber: att.PointNumber,
			Photos:      photos,
			Notes:       att.Notes,
			Latitude:    att.Latitude,
			Longitude:   att.Longitude,
			CapturedAt:  att.CapturedAt,
		})
	}

	return ReportPayload{
		Number:        task.Number,
		InspectorName: task.InspectorName,
		Division:      task.Division,
		Unit:          task.Unit,
		Notes:         task.Notes,
		SubmittedAt:   task.SubmittedAt,
		Points:        points,
		Signature:     signature,
		GeneratedAt:   time.Now(),
		GeneratedBy:   generatedBy,
	}
}
