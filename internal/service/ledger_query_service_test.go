package service

import (
	"context"
	"testing"

	"github.com/Kingbhau/gas-inventory-sub000/internal/dto"
	"github.com/Kingbhau/gas-inventory-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVariantBalance_EmptyChainIsZero(t *testing.T) {
	f := newLedgerFixture()
	c := f.seedCustomer("New Customer")
	v := f.seedVariant("14.2kg Domestic")

	resp, err := f.queries.GetVariantBalance(context.Background(), c.ID.String(), v.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Balance)
}

func TestGetCustomerDue_EmptyLedgerIsZero(t *testing.T) {
	f := newLedgerFixture()
	c := f.seedCustomer("New Customer")

	resp, err := f.queries.GetCustomerDue(context.Background(), c.ID.String())
	require.NoError(t, err)
	assert.True(t, resp.DueAmount.IsZero())
}

func TestGetCustomerDue_ReadsLatestEntry(t *testing.T) {
	f := newLedgerFixture()
	c := f.seedCustomer("Lokhande Stores")
	v := f.seedVariant("14.2kg Domestic")
	seedChainEntry(f, c, v, "2026-08-01", model.RefTypeSale, 1, 0, 1, 1000, 0, 1000)
	seedChainEntry(f, c, v, "2026-08-03", model.RefTypeSale, 1, 0, 2, 500, 200, 1300)

	resp, err := f.queries.GetCustomerDue(context.Background(), c.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "1300", resp.DueAmount.String())
}

func TestGetPendingReturns_SumsPositiveBalances(t *testing.T) {
	f := newLedgerFixture()
	c := f.seedCustomer("Sawant Hotel")
	domestic := f.seedVariant("14.2kg Domestic")
	commercial := f.seedVariant("19kg Commercial")
	settled := f.seedVariant("5kg FTL")

	seedChainEntry(f, c, domestic, "2026-08-01", model.RefTypeSale, 3, 0, 3, 0, 0, 0)
	seedChainEntry(f, c, commercial, "2026-08-01", model.RefTypeSale, 2, 0, 2, 0, 0, 0)
	// fully returned variant contributes nothing
	seedChainEntry(f, c, settled, "2026-08-01", model.RefTypeSale, 1, 0, 1, 0, 0, 0)
	seedChainEntry(f, c, settled, "2026-08-02", model.RefTypeEmptyReturn, 0, 1, 0, 0, 0, 0)

	resp, err := f.queries.GetPendingReturns(context.Background(), c.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Total)
	assert.Len(t, resp.ByVariant, 2)
}

func TestBatchLookup_SeedsZeroRows(t *testing.T) {
	f := newLedgerFixture()
	active := f.seedCustomer("Active Customer")
	fresh := f.seedCustomer("Fresh Customer")
	v := f.seedVariant("14.2kg Domestic")
	seedChainEntry(f, active, v, "2026-08-01", model.RefTypeSale, 2, 0, 2, 1000, 0, 1000)

	resp, err := f.queries.BatchLookup(context.Background(), dto.BatchLookupRequest{
		CustomerIDs: []string{active.ID.String(), fresh.ID.String()},
	})
	require.NoError(t, err)

	assert.Equal(t, "1000", resp.Dues[active.ID.String()].String())
	require.Len(t, resp.Balances[active.ID.String()], 1)
	assert.Equal(t, 2, resp.Balances[active.ID.String()][0].Balance)

	// a customer with no ledger history still appears, explicitly at zero
	assert.True(t, resp.Dues[fresh.ID.String()].IsZero())
	assert.Empty(t, resp.Balances[fresh.ID.String()])
}

func TestBatchLookup_InvalidIDRejected(t *testing.T) {
	f := newLedgerFixture()
	_, err := f.queries.BatchLookup(context.Background(), dto.BatchLookupRequest{
		CustomerIDs: []string{"not-a-uuid"},
	})
	require.Error(t, err)
}

func TestListMovements_MergesTransfers(t *testing.T) {
	f := newLedgerFixture()
	c := f.seedCustomer("Shelar Stores")
	v := f.seedVariant("14.2kg Domestic")
	seedChainEntry(f, c, v, "2026-08-01", model.RefTypeSale, 2, 0, 2, 1000, 0, 1000)
	seedChainEntry(f, c, v, "2026-08-03", model.RefTypeEmptyReturn, 0, 1, 1, 0, 0, 1000)

	require.NoError(t, f.transferRepo.CreateTx(nil, &model.CylinderTransfer{
		ReferenceNumber: "TRF-000001",
		CustomerID:      c.ID,
		VariantID:       v.ID,
		WarehouseID:     uuid.New(),
		Quantity:        5,
		TransferDate:    mustDate("2026-08-02"),
	}))

	resp, err := f.queries.ListMovements(context.Background(), dto.MovementFilter{
		CustomerID:       c.ID.String(),
		IncludeTransfers: true,
	})
	require.NoError(t, err)

	require.Len(t, resp.Data, 3)
	assert.EqualValues(t, 3, resp.Total)

	// newest first, transfer slotted between the ledger rows by date
	assert.Equal(t, "2026-08-03", resp.Data[0].TransactionDate)
	assert.Equal(t, string(model.RefTypeTransfer), resp.Data[1].RefType)
	assert.Equal(t, "2026-08-01", resp.Data[2].TransactionDate)

	// transfer rows carry no money or balance
	assert.True(t, resp.Data[1].TotalAmount.IsZero())
	assert.True(t, resp.Data[1].DueAmount.IsZero())
	assert.Equal(t, 5, resp.Data[1].FilledOut)
}

func TestListMovements_RefTypeFilterExcludesTransfers(t *testing.T) {
	f := newLedgerFixture()
	c := f.seedCustomer("Chavan Stores")
	v := f.seedVariant("14.2kg Domestic")
	seedChainEntry(f, c, v, "2026-08-01", model.RefTypeSale, 2, 0, 2, 1000, 0, 1000)

	require.NoError(t, f.transferRepo.CreateTx(nil, &model.CylinderTransfer{
		ReferenceNumber: "TRF-000001",
		CustomerID:      c.ID,
		VariantID:       v.ID,
		WarehouseID:     uuid.New(),
		Quantity:        1,
		TransferDate:    mustDate("2026-08-02"),
	}))

	resp, err := f.queries.ListMovements(context.Background(), dto.MovementFilter{
		CustomerID:       c.ID.String(),
		RefType:          string(model.RefTypeSale),
		IncludeTransfers: true,
	})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, string(model.RefTypeSale), resp.Data[0].RefType)
}

func TestListPayments_FiltersAndPages(t *testing.T) {
	f := newLedgerFixture()
	c := f.seedCustomer("Kamble Stores")
	v := f.seedVariant("14.2kg Domestic")
	seedChainEntry(f, c, v, "2026-08-01", model.RefTypeSale, 1, 0, 1, 1000, 0, 1000)
	f.ledgerRepo.seed(model.LedgerEntry{
		CustomerID:      c.ID,
		TransactionDate: mustDate("2026-08-05"),
		RefType:         model.RefTypePayment,
		AmountReceived:  decimal.NewFromInt(400),
		DueAmount:       decimal.NewFromInt(600),
	})

	resp, err := f.queries.ListPayments(context.Background(), dto.PaymentFilter{
		CustomerID: c.ID.String(),
	})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, string(model.RefTypePayment), resp.Data[0].RefType)
	assert.Equal(t, 50, resp.Limit) // default page size applied
}

func TestGetEntry_NotFound(t *testing.T) {
	f := newLedgerFixture()
	_, err := f.queries.GetEntry(context.Background(), 99)
	require.Error(t, err)
}
