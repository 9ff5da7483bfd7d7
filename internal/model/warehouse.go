package model

import (
	"time"

	"github.com/google/uuid"
)

// Warehouse is a physical godown holding filled and empty cylinder stock.
type Warehouse struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string    `gorm:"uniqueIndex;not null"`
	Location *string
	Active   bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Warehouse) TableName() string { return "warehouses" }
