package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	BankEntryDeposit    = "DEPOSIT"
	BankEntryWithdrawal = "WITHDRAWAL"
)

// BankLedgerEntry is one immutable movement on a bank account.
// BalanceAfter snapshots the account balance once this entry is applied.
type BankLedgerEntry struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	BankAccountID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	EntryType       string          `gorm:"type:varchar(20);not null"` // DEPOSIT | WITHDRAWAL
	Amount          decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	BalanceAfter    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	RefID           *int64
	ReferenceNumber string `gorm:"not null"`
	Description     string

	CreatedAt time.Time

	BankAccount *BankAccount `gorm:"foreignKey:BankAccountID"`
}

func (BankLedgerEntry) TableName() string { return "bank_ledger_entries" }
