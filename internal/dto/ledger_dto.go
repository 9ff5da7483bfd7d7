package dto

import (
	"github.com/shopspring/decimal"
)

// CreateLedgerEntryRequest creates one ledger movement (SALE or EMPTY_RETURN;
// payments go through RecordPaymentRequest). Amount fields are pointers so
// pure inventory moves can omit them entirely.
type CreateLedgerEntryRequest struct {
	CustomerID      string  `json:"customer_id" validate:"required,uuid"`
	WarehouseID     *string `json:"warehouse_id" validate:"omitempty,uuid"`
	VariantID       string  `json:"variant_id" validate:"required,uuid"`
	TransactionDate string  `json:"transaction_date" validate:"required,datetime=2006-01-02"`
	RefType         string  `json:"ref_type" validate:"required,oneof=SALE EMPTY_RETURN"`
	RefID           *int64  `json:"ref_id"`

	FilledOut int `json:"filled_out" validate:"min=0"`
	EmptyIn   int `json:"empty_in" validate:"min=0"`

	TotalAmount    *decimal.Decimal `json:"total_amount"`
	AmountReceived *decimal.Decimal `json:"amount_received"`
	PaymentModeID  *string          `json:"payment_mode_id" validate:"omitempty,uuid"`
	BankAccountID  *string          `json:"bank_account_id" validate:"omitempty,uuid"`

	// IgnoreEmptyForBalance records empty_in on the entry without letting it
	// reduce the running balance (standalone returns whose balance effect
	// already happened on the originating sale).
	IgnoreEmptyForBalance bool    `json:"ignore_empty_for_balance"`
	Note                  *string `json:"note"`

	// Actor is set by the handler from the JWT claims, never from the body.
	Actor string `json:"-"`
}

// RecordPaymentRequest records money received against a customer's due.
type RecordPaymentRequest struct {
	CustomerID      string          `json:"customer_id" validate:"required,uuid"`
	Amount          decimal.Decimal `json:"amount" validate:"required"`
	TransactionDate string          `json:"transaction_date" validate:"required,datetime=2006-01-02"`
	PaymentModeID   *string         `json:"payment_mode_id" validate:"omitempty,uuid"`
	BankAccountID   *string         `json:"bank_account_id" validate:"omitempty,uuid"`
	Note            *string         `json:"note"`
	// CustomerEmail, when present, gets an async PDF receipt.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`

	Actor string `json:"-"`
}

// UpdateLedgerEntryRequest edits a historical entry. Unset fields keep the
// entry's current values.
type UpdateLedgerEntryRequest struct {
	FilledOut      *int             `json:"filled_out"`
	EmptyIn        *int             `json:"empty_in"`
	TotalAmount    *decimal.Decimal `json:"total_amount"`
	AmountReceived *decimal.Decimal `json:"amount_received"`
	UpdateReason   *string          `json:"update_reason"`
	PaymentModeID  *string          `json:"payment_mode_id" validate:"omitempty,uuid"`
	BankAccountID  *string          `json:"bank_account_id" validate:"omitempty,uuid"`

	Actor string `json:"-"`
}

// LedgerEntryResponse is the view model of a persisted entry.
type LedgerEntryResponse struct {
	ID              int64   `json:"id"`
	CustomerID      string  `json:"customer_id"`
	CustomerName    string  `json:"customer_name,omitempty"`
	VariantID       *string `json:"variant_id,omitempty"`
	VariantName     string  `json:"variant_name,omitempty"`
	WarehouseID     *string `json:"warehouse_id,omitempty"`
	TransactionDate string  `json:"transaction_date"`
	RefType         string  `json:"ref_type"`
	RefID           *int64  `json:"ref_id,omitempty"`

	FilledOut int `json:"filled_out"`
	EmptyIn   int `json:"empty_in"`
	Balance   int `json:"balance"`

	TotalAmount    decimal.Decimal `json:"total_amount"`
	AmountReceived decimal.Decimal `json:"amount_received"`
	DueAmount      decimal.Decimal `json:"due_amount"`

	PaymentModeID        *string `json:"payment_mode_id,omitempty"`
	BankAccountID        *string `json:"bank_account_id,omitempty"`
	TransactionReference *string `json:"transaction_reference,omitempty"`
	Note                 *string `json:"note,omitempty"`
	UpdateReason         *string `json:"update_reason,omitempty"`

	// Warning surfaces non-fatal secondary failures (e.g. the bank-ledger
	// deposit could not be recorded) without failing the primary write.
	Warning string `json:"warning,omitempty"`

	CreatedAt string `json:"created_at"`
}
