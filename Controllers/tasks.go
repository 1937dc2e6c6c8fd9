package Controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"GroundCheck/Models"
	"GroundCheck/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TaskController handles inspection task endpoints
type TaskController struct {
	DB *gorm.DB
}

// NewTaskController creates a new TaskController
func NewTaskController(db *gorm.DB) *TaskController {
	return &TaskController{DB: db}
}

func taskPreloads(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Division").Preload("Unit").
		Preload("Attachments").Preload("Signature")
}

// GetTasks lists tasks, newest first. Non-admin callers are always scoped to
// their own tasks, whatever the query asks for.
func (t *TaskController) GetTasks(ctx *fiber.Ctx) error {
	user := middleware.CurrentUser(ctx)

	query := t.DB
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	// Only admins may filter by user; everyone else gets their own tasks
	// regardless of what the query asks for.
	if user.Role == Models.RoleAdmin {
		if userID := ctx.Query("userId"); userID != "" {
			query = query.Where("user_id = ?", userID)
		}
	} else {
		query = query.Where("user_id = ?", user.ID)
	}

	var tasks []Models.Task
	if err := taskPreloads(query).Order("created_at DESC").Find(&tasks).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "error": "Failed to retrieve tasks",
		})
	}

	return ctx.JSON(fiber.Map{"success": true, "data": tasks})
}

// GetTask retrieves one task, ownership-checked for non-admins
func (t *TaskController) GetTask(ctx *fiber.Ctx) error {
	user := middleware.CurrentUser(ctx)

	var task Models.Task
	if err := taskPreloads(t.DB).First(&task, "id = ?", ctx.Params("id")).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false, "error": "Task not found",
		})
	}

	if user.Role != Models.RoleAdmin && task.UserID != user.ID {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false, "error": "Forbidden",
		})
	}

	return ctx.JSON(fiber.Map{"success": true, "data": task})
}

type attachmentInput struct {
	PointNumber int        `json:"pointNumber" validate:"required,gt=0"`
	Photos      []string   `json:"photos" validate:"required,min=1"`
	Notes       string     `json:"notes"`
	Latitude    *float64   `json:"lat"`
	Longitude   *float64   `json:"lon"`
	CapturedAt  *time.Time `json:"capturedAt"`
}

type createTaskInput struct {
	InspectorName string            `json:"inspectorName" validate:"required"`
	DivisionID    uint              `json:"divisionId" validate:"required"`
	UnitID        uint              `json:"unitId" validate:"required"`
	Notes         string            `json:"notes"`
	Attachments   []attachmentInput `json:"attachments" validate:"required,min=1,dive"`
}

// CreateTask validates and persists a submitted draft. The task number is
// minted inside the same transaction as the insert so concurrent submissions
// on one calendar day cannot collide.
func (t *TaskController) CreateTask(ctx *fiber.Ctx) error {
	user := middleware.CurrentUser(ctx)

	var input createTaskInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": "Invalid request body",
		})
	}
	if input.InspectorName == "" || input.DivisionID == 0 || input.UnitID == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": "Inspector name, division and unit are required",
		})
	}
	if len(input.Attachments) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": "At least one point photo required",
		})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": validationMessage(err),
		})
	}

	var task Models.Task
	err := t.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		number, err := Models.NextTaskNumber(tx, now)
		if err != nil {
			return err
		}

		task = Models.Task{
			Number:        number,
			InspectorName: input.InspectorName,
			UserID:        user.ID,
			DivisionID:    input.DivisionID,
			UnitID:        input.UnitID,
			Notes:         input.Notes,
			Status:        Models.TaskStatusSubmitted,
			SubmittedAt:   &now,
		}
		if err := tx.Create(&task).Error; err != nil {
			return err
		}

		for _, att := range input.Attachments {
			photos, err := json.Marshal(att.Photos)
			if err != nil {
				return err
			}
			capturedAt := now
			if att.CapturedAt != nil {
				capturedAt = *att.CapturedAt
			}
			attachment := Models.PointAttachment{
				TaskID:      task.ID,
				PointNumber: att.PointNumber,
				Photos:      datatypes.JSON(photos),
				Notes:       att.Notes,
				Latitude:    att.Latitude,
				Longitude:   att.Longitude,
				CapturedAt:  capturedAt,
			}
			if err := tx.Create(&attachment).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Println("Failed to create task:", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "error": "Failed to create task",
		})
	}

	if err := taskPreloads(t.DB).First(&task, task.ID).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "error": "Failed to load created task",
		})
	}

	return ctx.JSON(fiber.Map{"success": true, "data": task})
}

// DeleteTask removes a task with its attachments and signature (admin only)
func (t *TaskController) DeleteTask(ctx *fiber.Ctx) error {
	var task Models.Task
	if err := t.DB.First(&task, "id = ?", ctx.Params("id")).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false, "error": "Task not found",
		})
	}

	err := t.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", task.ID).Delete(&Models.PointAttachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", task.ID).Delete(&Models.Signature{}).Error; err != nil {
			return err
		}
		return tx.Delete(&task).Error
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "error": "Failed to delete task",
		})
	}

	return ctx.JSON(fiber.Map{"success": true})
}

// ExportTasks writes the task list to an xlsx workbook (admin only)
func (t *TaskController) ExportTasks(ctx *fiber.Ctx) error {
	var tasks []Models.Task
	if err := taskPreloads(t.DB).Order("created_at DESC").Find(&tasks).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "error": "Failed to retrieve tasks",
		})
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Tasks"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Task Number", "Inspector", "Division", "Unit", "Status", "Points", "Submitted At", "Created By"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, task := range tasks {
		division := ""
		if task.Division != nil {
			division = task.Division.Nama
		}
		unit := ""
		if task.Unit != nil {
			unit = task.Unit.Nama
		}
		createdBy := ""
		if task.User != nil {
			createdBy = task.User.Name
		}
		submittedAt := ""
		if task.SubmittedAt != nil {
			submittedAt = task.SubmittedAt.Format("2006-01-02 15:04:05")
		}

		values := []interface{}{
			task.Number, task.InspectorName, division, unit,
			task.Status, len(task.Attachments), submittedAt, createdBy,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "error": "Failed to build export",
		})
	}

	filename := fmt.Sprintf("tasks-%s.xlsx", time.Now().Format("20060102"))
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return ctx.Send(buffer.Bytes())
}
