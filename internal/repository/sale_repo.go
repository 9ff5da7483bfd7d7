package repository

import (
	"context"
	"errors"

	"github.com/Kingbhau/gas-inventory-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id int64) (*model.Sale, error)
	FindByIDTx(tx *gorm.DB, id int64) (*model.Sale, error)
	// FindItemTx returns the sale line for a variant, or nil when the sale
	// has no line for it.
	FindItemTx(tx *gorm.DB, saleID int64, variantID uuid.UUID) (*model.SaleItem, error)
	UpdateItemTx(tx *gorm.DB, item *model.SaleItem) error
	UpdateTotalsTx(tx *gorm.DB, id int64, total, received decimal.Decimal, updatedBy *string) error
	// NextReferenceNumber draws from a PostgreSQL sequence for atomic sale
	// reference generation.
	NextReferenceNumber(tx *gorm.DB) (int64, error)
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id int64) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items.Variant").Preload("Customer").First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepo) FindByIDTx(tx *gorm.DB, id int64) (*model.Sale, error) {
	var s model.Sale
	if err := tx.Preload("Items").First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepo) FindItemTx(tx *gorm.DB, saleID int64, variantID uuid.UUID) (*model.SaleItem, error) {
	var item model.SaleItem
	err := tx.Where("sale_id = ? AND variant_id = ?", saleID, variantID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *saleRepo) UpdateItemTx(tx *gorm.DB, item *model.SaleItem) error {
	return tx.Save(item).Error
}

func (r *saleRepo) UpdateTotalsTx(tx *gorm.DB, id int64, total, received decimal.Decimal, updatedBy *string) error {
	updates := map[string]interface{}{
		"total_amount":    total,
		"amount_received": received,
	}
	if updatedBy != nil {
		updates["updated_by"] = *updatedBy
	}
	return tx.Model(&model.Sale{}).Where("id = ?", id).Updates(updates).Error
}

func (r *saleRepo) NextReferenceNumber(tx *gorm.DB) (int64, error) {
	var num int64
	err := tx.Raw("SELECT nextval('sales_reference_seq')").Scan(&num).Error
	return num, err
}
