package service

import (
	"context"

	"github.com/Kingbhau/gas-inventory-sub000/internal/apierror"
	"github.com/Kingbhau/gas-inventory-sub000/internal/model"
	"github.com/Kingbhau/gas-inventory-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BankLedgerService appends immutable deposit/withdrawal entries to a bank
// account ledger and keeps the account's running balance. The account row is
// locked for the duration of the balance move.
type BankLedgerService interface {
	RecordDepositTx(tx *gorm.DB, accountID uuid.UUID, amount decimal.Decimal, refID *int64, referenceNumber, description string) (*model.BankLedgerEntry, error)
	RecordWithdrawalTx(tx *gorm.DB, accountID uuid.UUID, amount decimal.Decimal, refID *int64, referenceNumber, description string) (*model.BankLedgerEntry, error)
	ListEntries(ctx context.Context, accountID uuid.UUID, page, limit int) ([]model.BankLedgerEntry, int64, error)
}

type bankLedgerService struct {
	repo repository.BankRepository
}

func NewBankLedgerService(repo repository.BankRepository) BankLedgerService {
	return &bankLedgerService{repo: repo}
}

func (s *bankLedgerService) RecordDepositTx(tx *gorm.DB, accountID uuid.UUID, amount decimal.Decimal, refID *int64, referenceNumber, description string) (*model.BankLedgerEntry, error) {
	return s.record(tx, accountID, model.BankEntryDeposit, amount, refID, referenceNumber, description)
}

func (s *bankLedgerService) RecordWithdrawalTx(tx *gorm.DB, accountID uuid.UUID, amount decimal.Decimal, refID *int64, referenceNumber, description string) (*model.BankLedgerEntry, error) {
	return s.record(tx, accountID, model.BankEntryWithdrawal, amount, refID, referenceNumber, description)
}

func (s *bankLedgerService) record(tx *gorm.DB, accountID uuid.UUID, entryType string, amount decimal.Decimal, refID *int64, referenceNumber, description string) (*model.BankLedgerEntry, error) {
	if !amount.IsPositive() {
		return nil, apierror.InvalidArgument("bank ledger amount must be positive, got %s", amount.StringFixed(2))
	}

	account, err := s.repo.LockAccountTx(tx, accountID)
	if err != nil {
		return nil, apierror.NotFound("bank account %s not found", accountID)
	}

	balance := account.Balance
	if entryType == model.BankEntryDeposit {
		balance = balance.Add(amount)
	} else {
		balance = balance.Sub(amount)
		if balance.IsNegative() {
			return nil, apierror.InvalidOperation(
				"withdrawal of Rs %s would overdraw account %s (balance Rs %s)",
				amount.StringFixed(2), account.AccountNumber, account.Balance.StringFixed(2))
		}
	}

	entry := &model.BankLedgerEntry{
		BankAccountID:   accountID,
		EntryType:       entryType,
		Amount:          amount,
		BalanceAfter:    balance,
		RefID:           refID,
		ReferenceNumber: referenceNumber,
		Description:     description,
	}
	if err := s.repo.CreateEntryTx(tx, entry); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateAccountBalanceTx(tx, accountID, balance); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *bankLedgerService) ListEntries(ctx context.Context, accountID uuid.UUID, page, limit int) ([]model.BankLedgerEntry, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	return s.repo.ListEntries(ctx, accountID, page, limit)
}
