package dto

import "github.com/shopspring/decimal"

// SaleItemRequest is one variant line on a new sale.
type SaleItemRequest struct {
	VariantID string          `json:"variant_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	EmptyIn   int             `json:"empty_in" validate:"min=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"min=0"`
	Discount  decimal.Decimal `json:"discount" validate:"min=0"`
}

// CreateSaleRequest registers a sale: stock decrement, sale record, and one
// ledger entry per line, all in one transaction (retried on serialization
// conflicts).
type CreateSaleRequest struct {
	CustomerID     string            `json:"customer_id" validate:"required,uuid"`
	WarehouseID    string            `json:"warehouse_id" validate:"required,uuid"`
	SaleDate       string            `json:"sale_date" validate:"required,datetime=2006-01-02"`
	Items          []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	AmountReceived decimal.Decimal   `json:"amount_received" validate:"min=0"`
	PaymentModeID  *string           `json:"payment_mode_id" validate:"omitempty,uuid"`
	BankAccountID  *string           `json:"bank_account_id" validate:"omitempty,uuid"`
	Note           *string           `json:"note"`

	Actor string `json:"-"`
}

// SaleItemResponse mirrors one persisted sale line.
type SaleItemResponse struct {
	VariantID  string          `json:"variant_id"`
	Variant    string          `json:"variant,omitempty"`
	Quantity   int             `json:"quantity"`
	EmptyIn    int             `json:"empty_in"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Discount   decimal.Decimal `json:"discount"`
	FinalPrice decimal.Decimal `json:"final_price"`
}

// SaleResponse is the view model of a persisted sale plus the ledger entries
// it produced.
type SaleResponse struct {
	ID              int64                 `json:"id"`
	ReferenceNumber string                `json:"reference_number"`
	CustomerID      string                `json:"customer_id"`
	WarehouseID     string                `json:"warehouse_id"`
	SaleDate        string                `json:"sale_date"`
	TotalAmount     decimal.Decimal       `json:"total_amount"`
	AmountReceived  decimal.Decimal       `json:"amount_received"`
	Items           []SaleItemResponse    `json:"items"`
	LedgerEntries   []LedgerEntryResponse `json:"ledger_entries"`
	CreatedAt       string                `json:"created_at"`
}
