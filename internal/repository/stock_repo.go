package repository

import (
	"context"

	"github.com/Kingbhau/gas-inventory-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockRepository is the data access contract for warehouse cylinder stock.
// Decrements are guarded conditional updates: the WHERE clause refuses to
// drive a quantity negative, and a zero rows-affected result means the
// warehouse did not have enough stock.
type StockRepository interface {
	Find(ctx context.Context, warehouseID, variantID uuid.UUID) (*model.WarehouseStock, error)
	AddFilledTx(tx *gorm.DB, warehouseID, variantID uuid.UUID, qty int) error
	AddEmptyTx(tx *gorm.DB, warehouseID, variantID uuid.UUID, qty int) error
	// TakeFilledTx / TakeEmptyTx report false when stock is insufficient.
	TakeFilledTx(tx *gorm.DB, warehouseID, variantID uuid.UUID, qty int) (bool, error)
	TakeEmptyTx(tx *gorm.DB, warehouseID, variantID uuid.UUID, qty int) (bool, error)
	DB() *gorm.DB
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) DB() *gorm.DB { return r.db }

func (r *stockRepo) Find(ctx context.Context, warehouseID, variantID uuid.UUID) (*model.WarehouseStock, error) {
	var s model.WarehouseStock
	err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND variant_id = ?", warehouseID, variantID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *stockRepo) AddFilledTx(tx *gorm.DB, warehouseID, variantID uuid.UUID, qty int) error {
	return r.upsertAdd(tx, warehouseID, variantID, "filled_qty", qty)
}

func (r *stockRepo) AddEmptyTx(tx *gorm.DB, warehouseID, variantID uuid.UUID, qty int) error {
	return r.upsertAdd(tx, warehouseID, variantID, "empty_qty", qty)
}

// upsertAdd increments one quantity column, creating the stock row on first
// contact with a (warehouse, variant) pair.
func (r *stockRepo) upsertAdd(tx *gorm.DB, warehouseID, variantID uuid.UUID, column string, qty int) error {
	stock := model.WarehouseStock{WarehouseID: warehouseID, VariantID: variantID}
	if column == "filled_qty" {
		stock.FilledQty = qty
	} else {
		stock.EmptyQty = qty
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "warehouse_id"}, {Name: "variant_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			column: gorm.Expr("warehouse_stocks."+column+" + EXCLUDED."+column),
		}),
	}).Create(&stock).Error
}

func (r *stockRepo) TakeFilledTx(tx *gorm.DB, warehouseID, variantID uuid.UUID, qty int) (bool, error) {
	return r.guardedTake(tx, warehouseID, variantID, "filled_qty", qty)
}

func (r *stockRepo) TakeEmptyTx(tx *gorm.DB, warehouseID, variantID uuid.UUID, qty int) (bool, error) {
	return r.guardedTake(tx, warehouseID, variantID, "empty_qty", qty)
}

func (r *stockRepo) guardedTake(tx *gorm.DB, warehouseID, variantID uuid.UUID, column string, qty int) (bool, error) {
	res := tx.Model(&model.WarehouseStock{}).
		Where("warehouse_id = ? AND variant_id = ? AND "+column+" >= ?", warehouseID, variantID, qty).
		Update(column, gorm.Expr(column+" - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
