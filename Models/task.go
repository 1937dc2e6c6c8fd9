package Models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	TaskStatusDraft     = "draft"
	TaskStatusSubmitted = "submitted"
	TaskStatusApproved  = "approved"
)

// TaskNumberPrefix prefixes every generated task number.
const TaskNumberPrefix = "SGS"

// Task is one ground inspection record.
type Task struct {
	gorm.Model
	Number        string     `json:"nomorTask" gorm:"uniqueIndex;not null"`
	InspectorName string     `json:"inspectorName" gorm:"not null"`
	UserID        uint       `json:"userId" gorm:"index;not null"`
	DivisionID    uint       `json:"divisionId" gorm:"index;not null"`
	UnitID        uint       `json:"unitId" gorm:"index;not null"`
	Notes         string     `json:"notes"`
	Status        string     `json:"status" gorm:"default:draft"`
	SubmittedAt   *time.Time `json:"submittedAt"`

	User        *User             `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Division    *Division         `json:"division,omitempty" gorm:"foreignKey:DivisionID"`
	Unit        *SupervisionUnit  `json:"unit,omitempty" gorm:"foreignKey:UnitID"`
	Attachments []PointAttachment `json:"attachments,omitempty" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Signature   *Signature        `json:"signature,omitempty" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

// PointAttachment holds the photo collection captured at one collection point.
// Photos is a JSON array of base64-encoded JPEG payloads.
type PointAttachment struct {
	gorm.Model
	TaskID      uint           `json:"taskId" gorm:"index;not null"`
	PointNumber int            `json:"pointNumber" gorm:"not null"`
	Photos      datatypes.JSON `json:"photos"`
	Notes       string         `json:"notes"`
	Latitude    *float64       `json:"lat"`
	Longitude   *float64       `json:"lon"`
	CapturedAt  time.Time      `json:"capturedAt"`
}

// Signature is the freehand signature for a task. At most one per task,
// enforced by an existence check before insert.
type Signature struct {
	gorm.Model
	TaskID uint   `json:"taskId" gorm:"index;not null"`
	UserID uint   `json:"userId" gorm:"not null"`
	Image  string `json:"signatureData" gorm:"type:text;not null"`
}

// TaskCounter is the per-day task sequence. One row per calendar day,
// incremented under a row lock so concurrent submissions cannot collide.
type TaskCounter struct {
	gorm.Model
	Day string `json:"day" gorm:"uniqueIndex;not null"`
	Seq int    `json:"seq" gorm:"not null"`
}

// NextTaskNumber increments the counter for now's calendar day and returns the
// formatted task number (SGS-YYYYMMDD-NNNN). The upsert takes the row lock in
// one statement, so two submissions racing on a fresh day serialize instead of
// colliding on the unique index. Must run inside the transaction that creates
// the task so the sequence stays gapless on rollback.
func NextTaskNumber(tx *gorm.DB, now time.Time) (string, error) {
	day := now.Format("20060102")

	counter := TaskCounter{Day: day, Seq: 1}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"seq": gorm.Expr("seq + 1")}),
	}).Create(&counter).Error
	if err != nil {
		return "", err
	}

	// The conflict path does not report the incremented value back.
	if err := tx.Where("day = ?", day).First(&counter).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%04d", TaskNumberPrefix, day, counter.Seq), nil
}
