package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is the originating record of a cylinder sale. The customer ledger
// references it by id (ref_type SALE); editing a ledger entry writes
// recomputed totals back here.
type Sale struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	ReferenceNumber string          `gorm:"uniqueIndex;not null"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	WarehouseID     uuid.UUID       `gorm:"type:uuid;not null"`
	SaleDate        time.Time       `gorm:"type:date;not null;index"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AmountReceived  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Note            *string

	CreatedBy *string
	UpdatedBy *string
	CreatedAt time.Time
	UpdatedAt time.Time

	Items     []SaleItem `gorm:"foreignKey:SaleID"`
	Customer  *Customer  `gorm:"foreignKey:CustomerID"`
	Warehouse *Warehouse `gorm:"foreignKey:WarehouseID"`
}

func (Sale) TableName() string { return "sales" }

// SaleItem is one variant line on a sale. FinalPrice = UnitPrice×Quantity −
// Discount, floored at zero.
type SaleItem struct {
	ID         int64           `gorm:"primaryKey;autoIncrement"`
	SaleID     int64           `gorm:"not null;index"`
	VariantID  uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity   int             `gorm:"not null"`
	EmptyIn    int             `gorm:"not null;default:0"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Discount   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	FinalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Variant *CylinderVariant `gorm:"foreignKey:VariantID"`
}

func (SaleItem) TableName() string { return "sale_items" }
