package repository

import (
	"context"

	"github.com/Kingbhau/gas-inventory-sub000/internal/dto"
	"github.com/Kingbhau/gas-inventory-sub000/internal/model"

	"gorm.io/gorm"
)

// TransferRepository reads cylinder transfers for the merged movements view.
// Transfers are created by the warehouse module; this engine only displays
// them.
type TransferRepository interface {
	CreateTx(tx *gorm.DB, t *model.CylinderTransfer) error
	List(ctx context.Context, filter dto.MovementFilter, fetch int) ([]model.CylinderTransfer, int64, error)
	// NextReferenceNumber draws the next transfer challan number from a
	// sequence.
	NextReferenceNumber(tx *gorm.DB) (int64, error)
	DB() *gorm.DB
}

type transferRepo struct{ db *gorm.DB }

func NewTransferRepository(db *gorm.DB) TransferRepository { return &transferRepo{db: db} }

func (r *transferRepo) DB() *gorm.DB { return r.db }

func (r *transferRepo) CreateTx(tx *gorm.DB, t *model.CylinderTransfer) error {
	return tx.Create(t).Error
}

func (r *transferRepo) NextReferenceNumber(tx *gorm.DB) (int64, error) {
	var num int64
	err := tx.Raw("SELECT nextval('transfer_reference_seq')").Scan(&num).Error
	return num, err
}

func (r *transferRepo) List(ctx context.Context, filter dto.MovementFilter, fetch int) ([]model.CylinderTransfer, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.CylinderTransfer{})
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.VariantID != "" {
		q = q.Where("variant_id = ?", filter.VariantID)
	}
	if filter.From != "" {
		q = q.Where("transfer_date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("transfer_date <= ?", filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var transfers []model.CylinderTransfer
	err := q.Preload("Customer").Preload("Variant").
		Order("transfer_date DESC, id DESC").
		Limit(fetch).
		Find(&transfers).Error
	return transfers, total, err
}
