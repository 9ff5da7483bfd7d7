package dto

import "github.com/shopspring/decimal"

// MovementFilter filters the generic movements listing.
// Transfers are merged into the result as display-only TRANSFER rows when
// IncludeTransfers is set.
type MovementFilter struct {
	CustomerID       string `form:"customer_id"`
	VariantID        string `form:"variant_id"`
	RefType          string `form:"ref_type"`
	From             string `form:"from"` // inclusive, 2006-01-02
	To               string `form:"to"`   // inclusive
	IncludeTransfers bool   `form:"include_transfers"`
	Page             int    `form:"page"`
	Limit            int    `form:"limit"`
}

// PaymentFilter filters the payments listing.
type PaymentFilter struct {
	CustomerID string `form:"customer_id"`
	From       string `form:"from"`
	To         string `form:"to"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

// EmptyReturnFilter filters the empty-returns listing.
type EmptyReturnFilter struct {
	CustomerID  string `form:"customer_id"`
	VariantID   string `form:"variant_id"`
	WarehouseID string `form:"warehouse_id"`
	From        string `form:"from"`
	To          string `form:"to"`
	Page        int    `form:"page"`
	Limit       int    `form:"limit"`
}

// LedgerListResponse is the paginated envelope for all ledger listings.
type LedgerListResponse struct {
	Data  []LedgerEntryResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// VariantBalanceResponse is the latest cylinder balance for one
// (customer, variant).
type VariantBalanceResponse struct {
	CustomerID  string `json:"customer_id"`
	VariantID   string `json:"variant_id"`
	VariantName string `json:"variant_name,omitempty"`
	Balance     int    `json:"balance"`
}

// CustomerDueResponse is the latest cumulative due for one customer.
type CustomerDueResponse struct {
	CustomerID string          `json:"customer_id"`
	DueAmount  decimal.Decimal `json:"due_amount"`
}

// BatchLookupRequest asks for balances/dues of a set of customers at once.
type BatchLookupRequest struct {
	CustomerIDs []string `json:"customer_ids" validate:"required,min=1,dive,uuid"`
}

// BatchLookupResponse maps customer id to its latest due and per-variant
// balances.
type BatchLookupResponse struct {
	Dues     map[string]decimal.Decimal        `json:"dues"`
	Balances map[string][]VariantBalanceResponse `json:"balances"`
}

// PendingReturnResponse is the customer's outstanding cylinder count — the
// sum of latest positive per-variant balances.
type PendingReturnResponse struct {
	CustomerID string                   `json:"customer_id"`
	Total      int                      `json:"total"`
	ByVariant  []VariantBalanceResponse `json:"by_variant"`
}

// RepairResponse reports the outcome of a full balance re-derivation.
type RepairResponse struct {
	EntriesScanned int `json:"entries_scanned"`
	EntriesFixed   int `json:"entries_fixed"`
	ChainsVisited  int `json:"chains_visited"`
}
