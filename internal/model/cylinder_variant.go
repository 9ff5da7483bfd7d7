package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CylinderVariant is a cylinder size/type sold by the agency
// (e.g. 14.2kg domestic, 19kg commercial, 5kg FTL).
type CylinderVariant struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string          `gorm:"uniqueIndex;not null"`
	CapacityKg decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	Active     bool            `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CylinderVariant) TableName() string { return "cylinder_variants" }
