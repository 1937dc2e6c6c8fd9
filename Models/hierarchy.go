package Models

import (
	"gorm.io/gorm"
)

// Division is a top-level grouping of plantation area.
type Division struct {
	gorm.Model
	Kode      string `json:"kode" gorm:"uniqueIndex;not null"`
	Nama      string `json:"nama" gorm:"not null"`
	Deskripsi string `json:"deskripsi"`
	IsActive  bool   `json:"isActive" gorm:"default:true"`

	Units []SupervisionUnit `json:"units,omitempty" gorm:"foreignKey:DivisionID"`

	// Live counts, filled on list reads
	UnitCount int64 `json:"unitCount" gorm:"-"`
	TaskCount int64 `json:"taskCount" gorm:"-"`
}

// SupervisionUnit is a field-crew grouping within a division (kemandoran).
type SupervisionUnit struct {
	gorm.Model
	Kode       string `json:"kode" gorm:"not null"`
	Nama       string `json:"nama" gorm:"not null"`
	Deskripsi  string `json:"deskripsi"`
	IsActive   bool   `json:"isActive" gorm:"default:true"`
	DivisionID uint   `json:"divisionId" gorm:"index;not null"`

	Division *Division `json:"division,omitempty" gorm:"foreignKey:DivisionID"`

	TaskCount int64 `json:"taskCount" gorm:"-"`
}

func (SupervisionUnit) TableName() string {
	return "supervision_units"
}
