package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankAccount is an agency bank account. Balance is maintained by the bank
// ledger service as deposits/withdrawals are appended.
type BankAccount struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string          `gorm:"not null"`
	BankName      string          `gorm:"not null"`
	AccountNumber string          `gorm:"uniqueIndex;not null"`
	Balance       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Active        bool            `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (BankAccount) TableName() string { return "bank_accounts" }
