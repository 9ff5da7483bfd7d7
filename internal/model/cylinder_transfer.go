package model

import (
	"time"

	"github.com/google/uuid"
)

// CylinderTransfer records filled cylinders delivered to a customer through a
// transfer challan instead of a regular sale. Transfers are never written to
// the customer ledger; the query surface synthesizes TRANSFER movement rows
// from this table for unified display.
type CylinderTransfer struct {
	ID              int64     `gorm:"primaryKey;autoIncrement"`
	ReferenceNumber string    `gorm:"uniqueIndex;not null"`
	CustomerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	VariantID       uuid.UUID `gorm:"type:uuid;not null"`
	WarehouseID     uuid.UUID `gorm:"type:uuid;not null"`
	Quantity        int       `gorm:"not null"`
	TransferDate    time.Time `gorm:"type:date;not null;index"`
	Note            *string

	CreatedAt time.Time
	UpdatedAt time.Time

	Customer *Customer        `gorm:"foreignKey:CustomerID"`
	Variant  *CylinderVariant `gorm:"foreignKey:VariantID"`
}

func (CylinderTransfer) TableName() string { return "cylinder_transfers" }
