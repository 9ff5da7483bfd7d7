package dto

import "github.com/shopspring/decimal"

// CreateVariantRequest registers a cylinder size/type.
type CreateVariantRequest struct {
	Name       string          `json:"name" validate:"required"`
	CapacityKg decimal.Decimal `json:"capacity_kg" validate:"required,gt=0"`
}

// CreateWarehouseRequest registers a godown.
type CreateWarehouseRequest struct {
	Name     string  `json:"name" validate:"required"`
	Location *string `json:"location"`
}

// CreatePaymentModeRequest registers a payment channel.
type CreatePaymentModeRequest struct {
	Name                string `json:"name" validate:"required"`
	RequiresBankAccount bool   `json:"requires_bank_account"`
}

// CreateBankAccountRequest registers an agency bank account.
type CreateBankAccountRequest struct {
	Name          string `json:"name" validate:"required"`
	BankName      string `json:"bank_name" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required"`
}

// StockAdjustmentRequest moves filled/empty stock in or out of a warehouse
// outside the sale flow (refill truck arrivals, plant returns).
type StockAdjustmentRequest struct {
	WarehouseID string `json:"warehouse_id" validate:"required,uuid"`
	VariantID   string `json:"variant_id" validate:"required,uuid"`
	// FilledDelta and EmptyDelta are signed; negative values take stock out.
	FilledDelta int `json:"filled_delta"`
	EmptyDelta  int `json:"empty_delta"`
}

// CreateTransferRequest records filled cylinders delivered through a transfer
// challan. Transfers never touch the customer ledger.
type CreateTransferRequest struct {
	CustomerID   string  `json:"customer_id" validate:"required,uuid"`
	VariantID    string  `json:"variant_id" validate:"required,uuid"`
	WarehouseID  string  `json:"warehouse_id" validate:"required,uuid"`
	Quantity     int     `json:"quantity" validate:"required,gt=0"`
	TransferDate string  `json:"transfer_date" validate:"required,datetime=2006-01-02"`
	Note         *string `json:"note"`
}
