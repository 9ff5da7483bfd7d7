package repository

import (
	"context"
	"errors"

	"github.com/Kingbhau/gas-inventory-sub000/internal/dto"
	"github.com/Kingbhau/gas-inventory-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository is the data access contract for customer ledger entries.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
//
// Methods with a Tx suffix must run inside a caller-owned transaction; the
// ...Locked variants additionally take a FOR UPDATE row lock so concurrent
// balance reads for the same chain serialize.
type LedgerRepository interface {
	DB() *gorm.DB

	CreateTx(tx *gorm.DB, e *model.LedgerEntry) error
	SaveTx(tx *gorm.DB, e *model.LedgerEntry) error
	FindByID(ctx context.Context, id int64) (*model.LedgerEntry, error)
	FindByIDTx(tx *gorm.DB, id int64) (*model.LedgerEntry, error)

	// LatestForVariantLockedTx returns the newest entry for (customer,
	// variant) by id, or nil when the chain is empty.
	LatestForVariantLockedTx(tx *gorm.DB, customerID, variantID uuid.UUID) (*model.LedgerEntry, error)
	// LatestForCustomerLockedTx returns the newest entry for the customer
	// across all variants (including payments), or nil.
	LatestForCustomerLockedTx(tx *gorm.DB, customerID uuid.UUID) (*model.LedgerEntry, error)
	// SaleEntryExistsLockedTx reports whether a SALE entry for (customer,
	// variant, refID) already exists — the duplicate guard.
	SaleEntryExistsLockedTx(tx *gorm.DB, customerID, variantID uuid.UUID, refID int64) (bool, error)

	// VariantChainTx loads the full (customer, variant) chain, id ascending.
	VariantChainTx(tx *gorm.DB, customerID, variantID uuid.UUID) ([]model.LedgerEntry, error)
	// CustomerChainTx loads ALL of the customer's entries, id ascending.
	CustomerChainTx(tx *gorm.DB, customerID uuid.UUID) ([]model.LedgerEntry, error)

	UpdateBalanceTx(tx *gorm.DB, id int64, balance int, updatedBy *string) error
	UpdateDueTx(tx *gorm.DB, id int64, due decimal.Decimal, updatedBy *string) error

	// NextReturnNumber draws the next empty-return reference from a sequence.
	NextReturnNumber(tx *gorm.DB) (int64, error)

	// AllTx loads every ledger entry, id ascending, inside the caller's
	// transaction. Used by the repair rescan.
	AllTx(tx *gorm.DB) ([]model.LedgerEntry, error)

	// Query surface — plain reads, no locks.
	LatestForCustomer(ctx context.Context, customerID uuid.UUID) (*model.LedgerEntry, error)
	LatestForVariant(ctx context.Context, customerID, variantID uuid.UUID) (*model.LedgerEntry, error)
	LatestPerVariant(ctx context.Context, customerID uuid.UUID) ([]model.LedgerEntry, error)
	BatchLatestPerCustomer(ctx context.Context, customerIDs []uuid.UUID) ([]model.LedgerEntry, error)
	BatchLatestPerVariant(ctx context.Context, customerIDs []uuid.UUID) ([]model.LedgerEntry, error)
	ListPayments(ctx context.Context, filter dto.PaymentFilter) ([]model.LedgerEntry, int64, error)
	ListEmptyReturns(ctx context.Context, filter dto.EmptyReturnFilter) ([]model.LedgerEntry, int64, error)
	ListMovements(ctx context.Context, filter dto.MovementFilter, fetch int) ([]model.LedgerEntry, int64, error)
	All(ctx context.Context) ([]model.LedgerEntry, error)
}

type ledgerRepo struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) LedgerRepository { return &ledgerRepo{db: db} }

func (r *ledgerRepo) DB() *gorm.DB { return r.db }

func (r *ledgerRepo) CreateTx(tx *gorm.DB, e *model.LedgerEntry) error {
	return tx.Create(e).Error
}

func (r *ledgerRepo) SaveTx(tx *gorm.DB, e *model.LedgerEntry) error {
	return tx.Save(e).Error
}

func (r *ledgerRepo) FindByID(ctx context.Context, id int64) (*model.LedgerEntry, error) {
	var e model.LedgerEntry
	err := r.db.WithContext(ctx).
		Preload("Customer").Preload("Variant").
		First(&e, id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ledgerRepo) FindByIDTx(tx *gorm.DB, id int64) (*model.LedgerEntry, error) {
	var e model.LedgerEntry
	if err := tx.First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ledgerRepo) LatestForVariantLockedTx(tx *gorm.DB, customerID, variantID uuid.UUID) (*model.LedgerEntry, error) {
	var e model.LedgerEntry
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ? AND variant_id = ?", customerID, variantID).
		Order("id DESC").
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ledgerRepo) LatestForCustomerLockedTx(tx *gorm.DB, customerID uuid.UUID) (*model.LedgerEntry, error) {
	var e model.LedgerEntry
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ?", customerID).
		Order("id DESC").
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ledgerRepo) SaleEntryExistsLockedTx(tx *gorm.DB, customerID, variantID uuid.UUID, refID int64) (bool, error) {
	var ids []int64
	err := tx.Model(&model.LedgerEntry{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ? AND variant_id = ? AND ref_id = ? AND ref_type = ?",
			customerID, variantID, refID, model.RefTypeSale).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

func (r *ledgerRepo) VariantChainTx(tx *gorm.DB, customerID, variantID uuid.UUID) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	err := tx.Where("customer_id = ? AND variant_id = ?", customerID, variantID).
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *ledgerRepo) CustomerChainTx(tx *gorm.DB, customerID uuid.UUID) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	err := tx.Where("customer_id = ?", customerID).
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *ledgerRepo) UpdateBalanceTx(tx *gorm.DB, id int64, balance int, updatedBy *string) error {
	updates := map[string]interface{}{"balance": balance}
	if updatedBy != nil {
		updates["updated_by"] = *updatedBy
	}
	return tx.Model(&model.LedgerEntry{}).Where("id = ?", id).Updates(updates).Error
}

func (r *ledgerRepo) UpdateDueTx(tx *gorm.DB, id int64, due decimal.Decimal, updatedBy *string) error {
	updates := map[string]interface{}{"due_amount": due}
	if updatedBy != nil {
		updates["updated_by"] = *updatedBy
	}
	return tx.Model(&model.LedgerEntry{}).Where("id = ?", id).Updates(updates).Error
}

func (r *ledgerRepo) NextReturnNumber(tx *gorm.DB) (int64, error) {
	var num int64
	err := tx.Raw("SELECT nextval('empty_return_ref_seq')").Scan(&num).Error
	return num, err
}

func (r *ledgerRepo) AllTx(tx *gorm.DB) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	err := tx.Order("id ASC").Find(&entries).Error
	return entries, err
}

// ── Query surface ────────────────────────────────────────────────────────────

func (r *ledgerRepo) LatestForCustomer(ctx context.Context, customerID uuid.UUID) (*model.LedgerEntry, error) {
	var e model.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id DESC").
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ledgerRepo) LatestForVariant(ctx context.Context, customerID, variantID uuid.UUID) (*model.LedgerEntry, error) {
	var e model.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND variant_id = ?", customerID, variantID).
		Order("id DESC").
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ledgerRepo) LatestPerVariant(ctx context.Context, customerID uuid.UUID) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	err := r.db.WithContext(ctx).
		Preload("Variant").
		Where(`id IN (SELECT MAX(id) FROM customer_ledger_entries
		              WHERE customer_id = ? AND variant_id IS NOT NULL
		              GROUP BY variant_id)`, customerID).
		Find(&entries).Error
	return entries, err
}

func (r *ledgerRepo) BatchLatestPerCustomer(ctx context.Context, customerIDs []uuid.UUID) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	err := r.db.WithContext(ctx).
		Where(`id IN (SELECT MAX(id) FROM customer_ledger_entries
		              WHERE customer_id IN ?
		              GROUP BY customer_id)`, customerIDs).
		Find(&entries).Error
	return entries, err
}

func (r *ledgerRepo) BatchLatestPerVariant(ctx context.Context, customerIDs []uuid.UUID) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	err := r.db.WithContext(ctx).
		Preload("Variant").
		Where(`id IN (SELECT MAX(id) FROM customer_ledger_entries
		              WHERE customer_id IN ? AND variant_id IS NOT NULL
		              GROUP BY customer_id, variant_id)`, customerIDs).
		Find(&entries).Error
	return entries, err
}

func (r *ledgerRepo) ListPayments(ctx context.Context, filter dto.PaymentFilter) ([]model.LedgerEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.LedgerEntry{}).
		Where("ref_type = ?", model.RefTypePayment)
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	q = applyDateRange(q, filter.From, filter.To)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.LedgerEntry
	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Customer").Preload("PaymentMode").Preload("BankAccount").
		Order("transaction_date DESC, id DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&entries).Error
	return entries, total, err
}

func (r *ledgerRepo) ListEmptyReturns(ctx context.Context, filter dto.EmptyReturnFilter) ([]model.LedgerEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.LedgerEntry{}).
		Where("ref_type = ?", model.RefTypeEmptyReturn)
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.VariantID != "" {
		q = q.Where("variant_id = ?", filter.VariantID)
	}
	if filter.WarehouseID != "" {
		q = q.Where("warehouse_id = ?", filter.WarehouseID)
	}
	q = applyDateRange(q, filter.From, filter.To)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.LedgerEntry
	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Customer").Preload("Variant").Preload("Warehouse").
		Order("transaction_date DESC, id DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&entries).Error
	return entries, total, err
}

// ListMovements returns up to fetch entries matching the filter, newest
// first. The query service merges transfers in and applies the final page
// window, so fetch covers the page plus everything before it.
func (r *ledgerRepo) ListMovements(ctx context.Context, filter dto.MovementFilter, fetch int) ([]model.LedgerEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.LedgerEntry{})
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.VariantID != "" {
		q = q.Where("variant_id = ?", filter.VariantID)
	}
	if filter.RefType != "" {
		q = q.Where("ref_type = ?", filter.RefType)
	}
	q = applyDateRange(q, filter.From, filter.To)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.LedgerEntry
	err := q.Preload("Customer").Preload("Variant").
		Order("transaction_date DESC, id DESC").
		Limit(fetch).
		Find(&entries).Error
	return entries, total, err
}

func (r *ledgerRepo) All(ctx context.Context) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	err := r.db.WithContext(ctx).Order("id ASC").Find(&entries).Error
	return entries, err
}

func applyDateRange(q *gorm.DB, from, to string) *gorm.DB {
	if from != "" {
		q = q.Where("transaction_date >= ?", from)
	}
	if to != "" {
		q = q.Where("transaction_date <= ?", to)
	}
	return q
}
