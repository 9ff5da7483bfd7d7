package service

// view.go — mapping from persisted models to response DTOs, plus small
// parsing helpers shared by the ledger services.

import (
	"context"
	"time"

	"github.com/Kingbhau/gas-inventory-sub000/internal/apierror"
	"github.com/Kingbhau/gas-inventory-sub000/internal/dto"
	"github.com/Kingbhau/gas-inventory-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func parseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, apierror.InvalidArgument("%s is not a valid id: %q", field, value)
	}
	return id, nil
}

func parseOptionalID(field string, value *string) (*uuid.UUID, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	id, err := parseID(field, *value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseDate(field, value string) (time.Time, error) {
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apierror.InvalidArgument("%s must be a %s date: %q", field, dateLayout, value)
	}
	return d, nil
}

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func entryToResponse(e *model.LedgerEntry) dto.LedgerEntryResponse {
	resp := dto.LedgerEntryResponse{
		ID:                   e.ID,
		CustomerID:           e.CustomerID.String(),
		VariantID:            uuidPtrString(e.VariantID),
		WarehouseID:          uuidPtrString(e.WarehouseID),
		TransactionDate:      e.TransactionDate.Format(dateLayout),
		RefType:              string(e.RefType),
		RefID:                e.RefID,
		FilledOut:            e.FilledOut,
		EmptyIn:              e.EmptyIn,
		Balance:              e.Balance,
		TotalAmount:          e.TotalAmount,
		AmountReceived:       e.AmountReceived,
		DueAmount:            e.DueAmount,
		PaymentModeID:        uuidPtrString(e.PaymentModeID),
		BankAccountID:        uuidPtrString(e.BankAccountID),
		TransactionReference: e.TransactionReference,
		Note:                 e.Note,
		UpdateReason:         e.UpdateReason,
		CreatedAt:            e.CreatedAt.Format(time.RFC3339),
	}
	if e.Customer != nil {
		resp.CustomerName = e.Customer.Name
	}
	if e.Variant != nil {
		resp.VariantName = e.Variant.Name
	}
	return resp
}

func entriesToResponses(entries []model.LedgerEntry) []dto.LedgerEntryResponse {
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, entryToResponse(&entries[i]))
	}
	return out
}
