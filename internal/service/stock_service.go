package service

import (
	"context"

	"github.com/Kingbhau/gas-inventory-sub000/internal/apierror"
	"github.com/Kingbhau/gas-inventory-sub000/internal/dto"
	"github.com/Kingbhau/gas-inventory-sub000/internal/model"
	"github.com/Kingbhau/gas-inventory-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockService is the warehouse inventory collaborator: signed filled/empty
// adjustments per (warehouse, variant). Decrements reject operations that
// would drive a quantity negative. All mutations run inside the caller's
// transaction so a failed ledger write rolls its stock effect back too.
type StockService interface {
	IncrementFilledTx(tx *gorm.DB, warehouseID, variantID uuid.UUID, qty int) error
	// DecrementFilledTx fails with InvalidOperation when the warehouse holds
	// fewer filled cylinders than requested.
	DecrementFilledTx(tx *gorm.DB, warehouseID, variantID uuid.UUID, qty int) error
	IncrementEmptyTx(tx *gorm.DB, warehouseID, variantID uuid.UUID, qty int) error
	DecrementEmptyTx(tx *gorm.DB, warehouseID, variantID uuid.UUID, qty int) error
	GetStock(ctx context.Context, warehouseID, variantID uuid.UUID) (*model.WarehouseStock, error)
	// Adjust applies signed filled/empty deltas outside the sale flow
	// (refill truck arrivals, plant returns).
	Adjust(ctx context.Context, req dto.StockAdjustmentRequest) (*model.WarehouseStock, error)
}

type stockService struct {
	repo repository.StockRepository
}

func NewStockService(repo repository.StockRepository) StockService {
	return &stockService{repo: repo}
}

func (s *stockService) IncrementFilledTx(tx *gorm.DB, warehouseID, variantID uuid.UUID, qty int) error {
	if qty < 0 {
		return apierror.InvalidArgument("stock increment cannot be negative: %d", qty)
	}
	if qty == 0 {
		return nil
	}
	return s.repo.AddFilledTx(tx, warehouseID, variantID, qty)
}

func (s *stockService) DecrementFilledTx(tx *gorm.DB, warehouseID, variantID uuid.UUID, qty int) error {
	if qty < 0 {
		return apierror.InvalidArgument("stock decrement cannot be negative: %d", qty)
	}
	if qty == 0 {
		return nil
	}
	ok, err := s.repo.TakeFilledTx(tx, warehouseID, variantID, qty)
	if err != nil {
		return err
	}
	if !ok {
		return apierror.InvalidOperation(
			"warehouse %s does not have %d filled cylinders of variant %s in stock",
			warehouseID, qty, variantID)
	}
	return nil
}

func (s *stockService) IncrementEmptyTx(tx *gorm.DB, warehouseID, variantID uuid.UUID, qty int) error {
	if qty < 0 {
		return apierror.InvalidArgument("stock increment cannot be negative: %d", qty)
	}
	if qty == 0 {
		return nil
	}
	return s.repo.AddEmptyTx(tx, warehouseID, variantID, qty)
}

func (s *stockService) DecrementEmptyTx(tx *gorm.DB, warehouseID, variantID uuid.UUID, qty int) error {
	if qty < 0 {
		return apierror.InvalidArgument("stock decrement cannot be negative: %d", qty)
	}
	if qty == 0 {
		return nil
	}
	ok, err := s.repo.TakeEmptyTx(tx, warehouseID, variantID, qty)
	if err != nil {
		return err
	}
	if !ok {
		return apierror.InvalidOperation(
			"warehouse %s does not have %d empty cylinders of variant %s in stock",
			warehouseID, qty, variantID)
	}
	return nil
}

func (s *stockService) GetStock(ctx context.Context, warehouseID, variantID uuid.UUID) (*model.WarehouseStock, error) {
	stock, err := s.repo.Find(ctx, warehouseID, variantID)
	if err != nil {
		return nil, apierror.NotFound("no stock record for warehouse %s and variant %s", warehouseID, variantID)
	}
	return stock, nil
}

func (s *stockService) Adjust(ctx context.Context, req dto.StockAdjustmentRequest) (*model.WarehouseStock, error) {
	warehouseID, err := parseID("warehouse_id", req.WarehouseID)
	if err != nil {
		return nil, err
	}
	variantID, err := parseID("variant_id", req.VariantID)
	if err != nil {
		return nil, err
	}
	if req.FilledDelta == 0 && req.EmptyDelta == 0 {
		return nil, apierror.InvalidArgument("stock adjustment needs a non-zero delta")
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if req.FilledDelta > 0 {
			if err := s.IncrementFilledTx(tx, warehouseID, variantID, req.FilledDelta); err != nil {
				return err
			}
		} else if req.FilledDelta < 0 {
			if err := s.DecrementFilledTx(tx, warehouseID, variantID, -req.FilledDelta); err != nil {
				return err
			}
		}
		if req.EmptyDelta > 0 {
			return s.IncrementEmptyTx(tx, warehouseID, variantID, req.EmptyDelta)
		}
		if req.EmptyDelta < 0 {
			return s.DecrementEmptyTx(tx, warehouseID, variantID, -req.EmptyDelta)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetStock(ctx, warehouseID, variantID)
}
