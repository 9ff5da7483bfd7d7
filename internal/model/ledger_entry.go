package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerRefType names the business event behind a ledger entry.
type LedgerRefType string

const (
	RefTypeSale        LedgerRefType = "SALE"
	RefTypeEmptyReturn LedgerRefType = "EMPTY_RETURN"
	RefTypePayment     LedgerRefType = "PAYMENT"
	// RefTypeTransfer is display-only: transfer rows are synthesized from
	// cylinder_transfers for merged movement listings and never stored here.
	RefTypeTransfer LedgerRefType = "TRANSFER"
)

// EmptyReturnRefSentinel satisfies the non-null ref_id constraint on
// EMPTY_RETURN rows that have no originating record.
const EmptyReturnRefSentinel int64 = 0

// LedgerEntry is the atomic unit of the customer cylinder ledger.
//
// The bigserial id defines the total order of the ledger: transaction dates
// may collide or arrive out of order, assignment order never does. Two
// running values are cached on each row:
//
//   - Balance: filled cylinders held by the customer for this variant AFTER
//     this entry, replayable as balance[i-1] + filled_out - empty_in, never
//     negative.
//   - DueAmount: the customer's cumulative unpaid amount across ALL variants
//     AFTER this entry, replayable as max(0, due[i-1] + total - received).
//
// Rows are written once by the ledger write service and mutated only by the
// chain recalculation service; they are never deleted.
type LedgerEntry struct {
	ID          int64      `gorm:"primaryKey;autoIncrement"`
	CustomerID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_ledger_customer;index:idx_ledger_customer_variant"`
	VariantID   *uuid.UUID `gorm:"type:uuid;index:idx_ledger_customer_variant"` // nil for PAYMENT
	WarehouseID *uuid.UUID `gorm:"type:uuid"`                                   // nil for PAYMENT

	TransactionDate time.Time     `gorm:"type:date;not null;index"`
	RefType         LedgerRefType `gorm:"type:varchar(20);not null;index"`
	// RefID points at the originating sale (SALE) or is the 0 sentinel for
	// EMPTY_RETURN; nil for PAYMENT.
	RefID *int64

	FilledOut int `gorm:"not null;default:0"`
	EmptyIn   int `gorm:"not null;default:0"`
	// IgnoreEmptyForBalance marks entries whose empty_in is recorded for
	// audit only and excluded from the running balance. Persisted so chain
	// replays reproduce the stored balances deterministically.
	IgnoreEmptyForBalance bool `gorm:"not null;default:false"`
	Balance               int  `gorm:"not null;default:0"`

	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AmountReceived decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DueAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	PaymentModeID *uuid.UUID `gorm:"type:uuid"`
	BankAccountID *uuid.UUID `gorm:"type:uuid"`

	// TransactionReference is the human-readable reference of the originating
	// record, denormalized for listing without joins.
	TransactionReference *string
	Note                 *string
	// UpdateReason is set only when the entry is later edited.
	UpdateReason *string

	CreatedBy *string
	UpdatedBy *string
	CreatedAt time.Time
	UpdatedAt time.Time

	Customer    *Customer        `gorm:"foreignKey:CustomerID"`
	Variant     *CylinderVariant `gorm:"foreignKey:VariantID"`
	Warehouse   *Warehouse       `gorm:"foreignKey:WarehouseID"`
	PaymentMode *PaymentMode     `gorm:"foreignKey:PaymentModeID"`
	BankAccount *BankAccount     `gorm:"foreignKey:BankAccountID"`
}

func (LedgerEntry) TableName() string { return "customer_ledger_entries" }
