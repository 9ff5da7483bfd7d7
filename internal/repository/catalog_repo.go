package repository

// catalog_repo.go — lookup repositories for the simple reference entities
// (cylinder variants, warehouses, payment modes). These have no interesting
// invariants; the ledger only needs existence checks and display data.

import (
	"context"

	"github.com/Kingbhau/gas-inventory-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VariantRepository interface {
	Create(ctx context.Context, v *model.CylinderVariant) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CylinderVariant, error)
	List(ctx context.Context) ([]model.CylinderVariant, error)
}

type variantRepo struct{ db *gorm.DB }

func NewVariantRepository(db *gorm.DB) VariantRepository { return &variantRepo{db: db} }

func (r *variantRepo) Create(ctx context.Context, v *model.CylinderVariant) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *variantRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CylinderVariant, error) {
	var v model.CylinderVariant
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *variantRepo) List(ctx context.Context) ([]model.CylinderVariant, error) {
	var variants []model.CylinderVariant
	err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&variants).Error
	return variants, err
}

type WarehouseRepository interface {
	Create(ctx context.Context, w *model.Warehouse) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Warehouse, error)
	List(ctx context.Context) ([]model.Warehouse, error)
}

type warehouseRepo struct{ db *gorm.DB }

func NewWarehouseRepository(db *gorm.DB) WarehouseRepository { return &warehouseRepo{db: db} }

func (r *warehouseRepo) Create(ctx context.Context, w *model.Warehouse) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *warehouseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Warehouse, error) {
	var w model.Warehouse
	if err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *warehouseRepo) List(ctx context.Context) ([]model.Warehouse, error) {
	var warehouses []model.Warehouse
	err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&warehouses).Error
	return warehouses, err
}

type PaymentModeRepository interface {
	Create(ctx context.Context, m *model.PaymentMode) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PaymentMode, error)
	List(ctx context.Context) ([]model.PaymentMode, error)
}

type paymentModeRepo struct{ db *gorm.DB }

func NewPaymentModeRepository(db *gorm.DB) PaymentModeRepository { return &paymentModeRepo{db: db} }

func (r *paymentModeRepo) Create(ctx context.Context, m *model.PaymentMode) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *paymentModeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PaymentMode, error) {
	var m model.PaymentMode
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *paymentModeRepo) List(ctx context.Context) ([]model.PaymentMode, error) {
	var modes []model.PaymentMode
	err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&modes).Error
	return modes, err
}
