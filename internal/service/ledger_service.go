package service

import (
	"context"
	"fmt"

	"github.com/Kingbhau/gas-inventory-sub000/internal/apierror"
	"github.com/Kingbhau/gas-inventory-sub000/internal/dto"
	"github.com/Kingbhau/gas-inventory-sub000/internal/model"
	"github.com/Kingbhau/gas-inventory-sub000/internal/repository"
	"github.com/Kingbhau/gas-inventory-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerService is the single write path for new ledger entries. Every
// mutation runs in one transaction holding the customer row lock, so
// concurrent writers against the same customer serialize and always observe
// each other's committed balance and due.
type LedgerService interface {
	CreateLedgerEntry(ctx context.Context, req dto.CreateLedgerEntryRequest) (*dto.LedgerEntryResponse, error)
	// CreateLedgerEntryTx is the in-transaction variant used by the sale
	// service so the ledger write joins the sale's unit of work.
	CreateLedgerEntryTx(ctx context.Context, tx *gorm.DB, req dto.CreateLedgerEntryRequest) (*model.LedgerEntry, error)
	RecordPayment(ctx context.Context, req dto.RecordPaymentRequest) (*dto.LedgerEntryResponse, error)
}

type ledgerService struct {
	repo          repository.LedgerRepository
	customerRepo  repository.CustomerRepository
	variantRepo   repository.VariantRepository
	warehouseRepo repository.WarehouseRepository
	modeRepo      repository.PaymentModeRepository
	saleRepo      repository.SaleRepository
	stock         StockService
	bank          BankLedgerService
	dispatcher    *worker.Dispatcher
}

func NewLedgerService(
	repo repository.LedgerRepository,
	customerRepo repository.CustomerRepository,
	variantRepo repository.VariantRepository,
	warehouseRepo repository.WarehouseRepository,
	modeRepo repository.PaymentModeRepository,
	saleRepo repository.SaleRepository,
	stock StockService,
	bank BankLedgerService,
	dispatcher *worker.Dispatcher,
) LedgerService {
	return &ledgerService{
		repo:          repo,
		customerRepo:  customerRepo,
		variantRepo:   variantRepo,
		warehouseRepo: warehouseRepo,
		modeRepo:      modeRepo,
		saleRepo:      saleRepo,
		stock:         stock,
		bank:          bank,
		dispatcher:    dispatcher,
	}
}

// ── CreateLedgerEntry ─────────────────────────────────────────────────────────
// One transaction:
//   1. Lock the customer row (serializes concurrent writers per customer)
//   2. Duplicate-SALE guard on (customer, variant, ref_id)
//   3. Locked latest-entry read → previous balance
//   4. Over-return check, balance calculator
//   5. Locked latest customer entry → previous due, due calculator
//   6. Persist, resolve denormalized reference, stock side effect

func (s *ledgerService) CreateLedgerEntry(ctx context.Context, req dto.CreateLedgerEntryRequest) (*dto.LedgerEntryResponse, error) {
	var entry *model.LedgerEntry
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var txErr error
		entry, txErr = s.CreateLedgerEntryTx(ctx, tx, req)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	resp := entryToResponse(entry)
	return &resp, nil
}

func (s *ledgerService) CreateLedgerEntryTx(ctx context.Context, tx *gorm.DB, req dto.CreateLedgerEntryRequest) (*model.LedgerEntry, error) {
	customerID, err := parseID("customer_id", req.CustomerID)
	if err != nil {
		return nil, err
	}
	variantID, err := parseID("variant_id", req.VariantID)
	if err != nil {
		return nil, err
	}
	warehouseID, err := parseOptionalID("warehouse_id", req.WarehouseID)
	if err != nil {
		return nil, err
	}
	txnDate, err := parseDate("transaction_date", req.TransactionDate)
	if err != nil {
		return nil, err
	}

	if req.FilledOut < 0 || req.EmptyIn < 0 {
		return nil, apierror.InvalidArgument("cylinder quantities cannot be negative: filled_out=%d empty_in=%d", req.FilledOut, req.EmptyIn)
	}

	refType := model.LedgerRefType(req.RefType)
	switch refType {
	case model.RefTypeSale:
		if req.RefID == nil {
			return nil, apierror.InvalidArgument("ref_id is required for SALE ledger entries")
		}
	case model.RefTypeEmptyReturn:
		// ref_id optional; the 0 sentinel satisfies the non-null constraint
	default:
		return nil, apierror.InvalidArgument("unsupported ref_type %q", req.RefType)
	}

	totalAmount, amountReceived := decimal.Zero, decimal.Zero
	hasAmounts := req.TotalAmount != nil || req.AmountReceived != nil
	if req.TotalAmount != nil {
		totalAmount = *req.TotalAmount
	}
	if req.AmountReceived != nil {
		amountReceived = *req.AmountReceived
	}
	if totalAmount.IsNegative() || amountReceived.IsNegative() {
		return nil, apierror.InvalidArgument("amounts cannot be negative: total=%s received=%s",
			totalAmount.StringFixed(2), amountReceived.StringFixed(2))
	}

	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return nil, apierror.NotFound("customer %s not found", customerID)
	}
	if _, err := s.variantRepo.FindByID(ctx, variantID); err != nil {
		return nil, apierror.NotFound("cylinder variant %s not found", variantID)
	}
	if warehouseID != nil {
		if _, err := s.warehouseRepo.FindByID(ctx, *warehouseID); err != nil {
			return nil, apierror.NotFound("warehouse %s not found", *warehouseID)
		}
	}

	paymentModeID, bankAccountID, err := s.resolvePaymentChannel(ctx, req.PaymentModeID, req.BankAccountID)
	if err != nil {
		return nil, err
	}

	if _, err := s.customerRepo.LockByIDTx(tx, customerID); err != nil {
		return nil, apierror.NotFound("customer %s not found", customerID)
	}

	if refType == model.RefTypeSale {
		exists, err := s.repo.SaleEntryExistsLockedTx(tx, customerID, variantID, *req.RefID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apierror.InvalidArgument(
				"duplicate ledger entry prevented: sale %d is already on customer %s's ledger for this variant",
				*req.RefID, customerID)
		}
	}

	previousBalance := 0
	if prev, err := s.repo.LatestForVariantLockedTx(tx, customerID, variantID); err != nil {
		return nil, err
	} else if prev != nil {
		previousBalance = prev.Balance
	}

	if !req.IgnoreEmptyForBalance && req.EmptyIn > previousBalance+req.FilledOut {
		return nil, apierror.InvalidArgument(
			"cannot return more empty cylinders than the customer will hold: returning %d, holding %d",
			req.EmptyIn, previousBalance+req.FilledOut)
	}

	balance, err := ComputeBalance(previousBalance, req.FilledOut, req.EmptyIn, req.IgnoreEmptyForBalance)
	if err != nil {
		return nil, err
	}

	previousDue := decimal.Zero
	if prev, err := s.repo.LatestForCustomerLockedTx(tx, customerID); err != nil {
		return nil, err
	} else if prev != nil {
		previousDue = prev.DueAmount
	}
	if hasAmounts && amountReceived.GreaterThan(previousDue.Add(totalAmount)) {
		return nil, apierror.InvalidArgument(
			"received amount Rs %s exceeds the outstanding due of Rs %s",
			amountReceived.StringFixed(2), previousDue.Add(totalAmount).StringFixed(2))
	}
	dueAmount := ComputeDue(previousDue, totalAmount, amountReceived)

	refID := req.RefID
	if refType == model.RefTypeEmptyReturn && refID == nil {
		sentinel := model.EmptyReturnRefSentinel
		refID = &sentinel
	}

	entry := &model.LedgerEntry{
		CustomerID:            customerID,
		VariantID:             &variantID,
		WarehouseID:           warehouseID,
		TransactionDate:       txnDate,
		RefType:               refType,
		RefID:                 refID,
		FilledOut:             req.FilledOut,
		EmptyIn:               req.EmptyIn,
		IgnoreEmptyForBalance: req.IgnoreEmptyForBalance,
		Balance:               balance,
		TotalAmount:           totalAmount,
		AmountReceived:        amountReceived,
		DueAmount:             dueAmount,
		PaymentModeID:         paymentModeID,
		BankAccountID:         bankAccountID,
		Note:                  req.Note,
	}
	if req.Actor != "" {
		entry.CreatedBy = &req.Actor
	}

	reference, err := s.resolveTransactionReference(tx, refType, refID, warehouseID)
	if err != nil {
		return nil, err
	}
	entry.TransactionReference = reference

	if err := s.repo.CreateTx(tx, entry); err != nil {
		return nil, err
	}

	if refType == model.RefTypeEmptyReturn && req.EmptyIn > 0 && warehouseID != nil {
		if err := s.stock.IncrementEmptyTx(tx, *warehouseID, variantID, req.EmptyIn); err != nil {
			return nil, err
		}
	}

	return entry, nil
}

// resolveTransactionReference denormalizes the originating record's reference
// onto the entry so listings never need a join. Empty returns draw a fresh
// RET number from the sequence.
func (s *ledgerService) resolveTransactionReference(tx *gorm.DB, refType model.LedgerRefType, refID *int64, warehouseID *uuid.UUID) (*string, error) {
	switch refType {
	case model.RefTypeSale:
		sale, err := s.saleRepo.FindByIDTx(tx, *refID)
		if err != nil {
			return nil, apierror.NotFound("sale %d not found", *refID)
		}
		return &sale.ReferenceNumber, nil
	case model.RefTypeEmptyReturn:
		if warehouseID == nil {
			return nil, nil
		}
		num, err := s.repo.NextReturnNumber(tx)
		if err != nil {
			return nil, err
		}
		ref := fmt.Sprintf("RET-%06d", num)
		return &ref, nil
	default:
		return nil, nil
	}
}

func (s *ledgerService) resolvePaymentChannel(ctx context.Context, modeID, accountID *string) (*uuid.UUID, *uuid.UUID, error) {
	paymentModeID, err := parseOptionalID("payment_mode_id", modeID)
	if err != nil {
		return nil, nil, err
	}
	bankAccountID, err := parseOptionalID("bank_account_id", accountID)
	if err != nil {
		return nil, nil, err
	}
	if paymentModeID != nil {
		mode, err := s.modeRepo.FindByID(ctx, *paymentModeID)
		if err != nil {
			return nil, nil, apierror.NotFound("payment mode %s not found", *paymentModeID)
		}
		if mode.RequiresBankAccount && bankAccountID == nil {
			return nil, nil, apierror.InvalidArgument("payment mode %q requires a bank account", mode.Name)
		}
	}
	return paymentModeID, bankAccountID, nil
}

// ── RecordPayment ─────────────────────────────────────────────────────────────

func (s *ledgerService) RecordPayment(ctx context.Context, req dto.RecordPaymentRequest) (*dto.LedgerEntryResponse, error) {
	customerID, err := parseID("customer_id", req.CustomerID)
	if err != nil {
		return nil, err
	}
	txnDate, err := parseDate("transaction_date", req.TransactionDate)
	if err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, apierror.InvalidArgument("payment amount must be positive, got %s", req.Amount.StringFixed(2))
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, apierror.NotFound("customer %s not found", customerID)
	}
	if !customer.Active {
		return nil, apierror.InvalidOperation("customer %s is inactive and cannot make payments", customer.Name)
	}

	paymentModeID, bankAccountID, err := s.resolvePaymentChannel(ctx, req.PaymentModeID, req.BankAccountID)
	if err != nil {
		return nil, err
	}

	var entry *model.LedgerEntry
	var warning string
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.customerRepo.LockByIDTx(tx, customerID); err != nil {
			return apierror.NotFound("customer %s not found", customerID)
		}

		previousDue := decimal.Zero
		if prev, err := s.repo.LatestForCustomerLockedTx(tx, customerID); err != nil {
			return err
		} else if prev != nil {
			previousDue = prev.DueAmount
		}

		if req.Amount.GreaterThan(previousDue) {
			return apierror.InvalidArgument(
				"payment of Rs %s exceeds %s's outstanding due of Rs %s",
				req.Amount.StringFixed(2), customer.Name, previousDue.StringFixed(2))
		}

		entry = &model.LedgerEntry{
			CustomerID:      customerID,
			TransactionDate: txnDate,
			RefType:         model.RefTypePayment,
			AmountReceived:  req.Amount,
			DueAmount:       ComputeDue(previousDue, decimal.Zero, req.Amount),
			PaymentModeID:   paymentModeID,
			BankAccountID:   bankAccountID,
			Note:            req.Note,
		}
		if req.Actor != "" {
			entry.CreatedBy = &req.Actor
		}
		if err := s.repo.CreateTx(tx, entry); err != nil {
			return err
		}

		receipt := fmt.Sprintf("PAY-%06d", entry.ID)
		entry.TransactionReference = &receipt
		if err := s.repo.SaveTx(tx, entry); err != nil {
			return err
		}

		// Mirror the payment into the bank ledger when the mode demands it.
		// A failure here must not sink the payment itself; it is logged and
		// surfaced to the caller as a warning.
		if bankAccountID != nil {
			_, depErr := s.bank.RecordDepositTx(tx, *bankAccountID, req.Amount, &entry.ID, receipt,
				fmt.Sprintf("Payment from %s", customer.Name))
			if depErr != nil {
				log.Error().Err(depErr).
					Int64("ledger_id", entry.ID).
					Str("bank_account_id", bankAccountID.String()).
					Msg("payment recorded but bank deposit failed")
				warning = fmt.Sprintf("payment recorded, but the bank deposit could not be recorded: %s", depErr)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil && req.CustomerEmail != nil && *req.CustomerEmail != "" {
		payload := worker.ReceiptJobPayload{
			LedgerID:      entry.ID,
			CustomerName:  customer.Name,
			CustomerEmail: *req.CustomerEmail,
			Amount:        req.Amount.StringFixed(2),
			Reference:     *entry.TransactionReference,
			Date:          req.TransactionDate,
		}
		if err := s.dispatcher.EnqueueReceipt(ctx, payload); err != nil {
			log.Warn().Err(err).Int64("ledger_id", entry.ID).Msg("failed to enqueue receipt job")
		}
	}

	resp := entryToResponse(entry)
	resp.Warning = warning
	return &resp, nil
}
