package model

import (
	"time"

	"github.com/google/uuid"
)

// WarehouseStock tracks filled and empty cylinder counts per
// (warehouse, variant). Quantities never go negative: every decrement goes
// through a guarded conditional UPDATE.
type WarehouseStock struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	WarehouseID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_warehouse_variant;not null"`
	VariantID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_warehouse_variant;not null"`
	FilledQty   int       `gorm:"not null;default:0"`
	EmptyQty    int       `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Warehouse *Warehouse       `gorm:"foreignKey:WarehouseID"`
	Variant   *CylinderVariant `gorm:"foreignKey:VariantID"`
}

func (WarehouseStock) TableName() string { return "warehouse_stocks" }
