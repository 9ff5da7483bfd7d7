package service

import (
	"context"
	"testing"

	"github.com/Kingbhau/gas-inventory-sub000/internal/apierror"
	"github.com/Kingbhau/gas-inventory-sub000/internal/dto"
	"github.com/Kingbhau/gas-inventory-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferCreate(t *testing.T) {
	f := newLedgerFixture()
	svc := NewTransferService(f.transferRepo, f.customers, f.stock)
	c := f.seedCustomer("Nanded Festival Committee")
	v := f.seedVariant("19kg Commercial")
	w := f.seedWarehouse("Main Godown")
	f.setStock(w.ID, v.ID, 30, 0)

	resp, err := svc.Create(context.Background(), dto.CreateTransferRequest{
		CustomerID:   c.ID.String(),
		VariantID:    v.ID.String(),
		WarehouseID:  w.ID.String(),
		Quantity:     25,
		TransferDate: "2026-08-15",
	})
	require.NoError(t, err)

	assert.Equal(t, string(model.RefTypeTransfer), resp.RefType)
	require.NotNil(t, resp.TransactionReference)
	assert.Equal(t, "TRF-000001", *resp.TransactionReference)
	assert.Equal(t, 25, resp.FilledOut)
	assert.True(t, resp.TotalAmount.IsZero())

	filled, _ := f.stockOf(w.ID, v.ID)
	assert.Equal(t, 5, filled)

	// a transfer never lands on the customer ledger
	entries, err := f.ledgerRepo.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTransferCreate_InsufficientStock(t *testing.T) {
	f := newLedgerFixture()
	svc := NewTransferService(f.transferRepo, f.customers, f.stock)
	c := f.seedCustomer("Small Event")
	v := f.seedVariant("19kg Commercial")
	w := f.seedWarehouse("Main Godown")
	f.setStock(w.ID, v.ID, 2, 0)

	_, err := svc.Create(context.Background(), dto.CreateTransferRequest{
		CustomerID:   c.ID.String(),
		VariantID:    v.ID.String(),
		WarehouseID:  w.ID.String(),
		Quantity:     3,
		TransferDate: "2026-08-15",
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidOperation))
}

func TestTransferCreate_InactiveCustomer(t *testing.T) {
	f := newLedgerFixture()
	svc := NewTransferService(f.transferRepo, f.customers, f.stock)
	c := f.seedCustomer("Defunct Caterer")
	c.Active = false
	v := f.seedVariant("19kg Commercial")
	w := f.seedWarehouse("Main Godown")

	_, err := svc.Create(context.Background(), dto.CreateTransferRequest{
		CustomerID:   c.ID.String(),
		VariantID:    v.ID.String(),
		WarehouseID:  w.ID.String(),
		Quantity:     1,
		TransferDate: "2026-08-15",
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidOperation))
}
