package repository

import (
	"context"

	"github.com/Kingbhau/gas-inventory-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BankRepository is the data access contract for bank accounts and their
// append-only ledger. The account row is locked while its balance moves so
// concurrent deposits serialize.
type BankRepository interface {
	CreateAccount(ctx context.Context, a *model.BankAccount) error
	ListAccounts(ctx context.Context) ([]model.BankAccount, error)
	FindAccountByID(ctx context.Context, id uuid.UUID) (*model.BankAccount, error)
	LockAccountTx(tx *gorm.DB, id uuid.UUID) (*model.BankAccount, error)
	UpdateAccountBalanceTx(tx *gorm.DB, id uuid.UUID, balance decimal.Decimal) error
	CreateEntryTx(tx *gorm.DB, e *model.BankLedgerEntry) error
	ListEntries(ctx context.Context, accountID uuid.UUID, page, limit int) ([]model.BankLedgerEntry, int64, error)
	DB() *gorm.DB
}

type bankRepo struct{ db *gorm.DB }

func NewBankRepository(db *gorm.DB) BankRepository { return &bankRepo{db: db} }

func (r *bankRepo) DB() *gorm.DB { return r.db }

func (r *bankRepo) CreateAccount(ctx context.Context, a *model.BankAccount) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *bankRepo) ListAccounts(ctx context.Context) ([]model.BankAccount, error) {
	var accounts []model.BankAccount
	err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&accounts).Error
	return accounts, err
}

func (r *bankRepo) FindAccountByID(ctx context.Context, id uuid.UUID) (*model.BankAccount, error) {
	var a model.BankAccount
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *bankRepo) LockAccountTx(tx *gorm.DB, id uuid.UUID) (*model.BankAccount, error) {
	var a model.BankAccount
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&a, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *bankRepo) UpdateAccountBalanceTx(tx *gorm.DB, id uuid.UUID, balance decimal.Decimal) error {
	return tx.Model(&model.BankAccount{}).Where("id = ?", id).Update("balance", balance).Error
}

func (r *bankRepo) CreateEntryTx(tx *gorm.DB, e *model.BankLedgerEntry) error {
	return tx.Create(e).Error
}

func (r *bankRepo) ListEntries(ctx context.Context, accountID uuid.UUID, page, limit int) ([]model.BankLedgerEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.BankLedgerEntry{}).Where("bank_account_id = ?", accountID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.BankLedgerEntry
	err := q.Order("id DESC").Offset((page - 1) * limit).Limit(limit).Find(&entries).Error
	return entries, total, err
}
