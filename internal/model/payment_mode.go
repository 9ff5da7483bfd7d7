package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMode is a payment channel (cash, UPI, cheque, NEFT...).
// RequiresBankAccount forces the caller to name a bank account so the
// matching deposit lands in the bank ledger.
type PaymentMode struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name                string    `gorm:"uniqueIndex;not null"`
	RequiresBankAccount bool      `gorm:"not null;default:false"`
	Active              bool      `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PaymentMode) TableName() string { return "payment_modes" }
