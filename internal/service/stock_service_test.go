package service

import (
	"context"
	"testing"

	"github.com/Kingbhau/gas-inventory-sub000/internal/apierror"
	"github.com/Kingbhau/gas-inventory-sub000/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockService_DecrementInsufficient(t *testing.T) {
	repo := newStubStockRepo()
	svc := NewStockService(repo)
	w, v := uuid.New(), uuid.New()
	repo.cell(w, v).FilledQty = 1

	err := svc.DecrementFilledTx(nil, w, v, 3)
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidOperation))

	// nothing consumed on refusal
	assert.Equal(t, 1, repo.cell(w, v).FilledQty)
}

func TestStockService_ZeroQuantityIsNoop(t *testing.T) {
	repo := newStubStockRepo()
	svc := NewStockService(repo)
	w, v := uuid.New(), uuid.New()

	require.NoError(t, svc.IncrementFilledTx(nil, w, v, 0))
	require.NoError(t, svc.DecrementEmptyTx(nil, w, v, 0))
}

func TestStockService_Adjust(t *testing.T) {
	repo := newStubStockRepo()
	svc := NewStockService(repo)
	w, v := uuid.New(), uuid.New()

	// refill truck arrival
	stock, err := svc.Adjust(context.Background(), dto.StockAdjustmentRequest{
		WarehouseID: w.String(),
		VariantID:   v.String(),
		FilledDelta: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, stock.FilledQty)

	// empties dispatched back to the plant
	repo.cell(w, v).EmptyQty = 8
	stock, err = svc.Adjust(context.Background(), dto.StockAdjustmentRequest{
		WarehouseID: w.String(),
		VariantID:   v.String(),
		EmptyDelta:  -5,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, stock.EmptyQty)
}

func TestStockService_AdjustNeedsDelta(t *testing.T) {
	svc := NewStockService(newStubStockRepo())

	_, err := svc.Adjust(context.Background(), dto.StockAdjustmentRequest{
		WarehouseID: uuid.New().String(),
		VariantID:   uuid.New().String(),
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidArgument))
}
