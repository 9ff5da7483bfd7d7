package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kingbhau/gas-inventory-sub000/internal/apierror"
	"github.com/Kingbhau/gas-inventory-sub000/internal/dto"
	"github.com/Kingbhau/gas-inventory-sub000/internal/model"
	"github.com/Kingbhau/gas-inventory-sub000/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultEditWindow bounds how far back an entry may be edited, counted in
// entries per customer+variant chain. Caps the blast radius of a forward
// recomputation.
const DefaultEditWindow = 15

// LedgerUpdateService edits a historical ledger entry and ripples the change
// through two independent chains sharing the entry:
//
//   - the balance chain: same (customer, variant), ordered by id, moved by
//     filled_out / empty_in changes;
//   - the due chain: ALL of the customer's entries, ordered by id, moved by
//     total_amount / amount_received changes.
//
// Validation of the whole forward chain happens as a dry run before anything
// is persisted; a single offending successor rejects the entire edit.
type LedgerUpdateService interface {
	UpdateLedgerEntry(ctx context.Context, ledgerID int64, req dto.UpdateLedgerEntryRequest) (*dto.LedgerEntryResponse, error)
}

type ledgerUpdateService struct {
	repo         repository.LedgerRepository
	customerRepo repository.CustomerRepository
	saleRepo     repository.SaleRepository
	modeRepo     repository.PaymentModeRepository
	stock        StockService
	editWindow   int
}

func NewLedgerUpdateService(
	repo repository.LedgerRepository,
	customerRepo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
	modeRepo repository.PaymentModeRepository,
	stock StockService,
	editWindow int,
) LedgerUpdateService {
	if editWindow <= 0 {
		editWindow = DefaultEditWindow
	}
	return &ledgerUpdateService{
		repo:         repo,
		customerRepo: customerRepo,
		saleRepo:     saleRepo,
		modeRepo:     modeRepo,
		stock:        stock,
		editWindow:   editWindow,
	}
}

func (s *ledgerUpdateService) UpdateLedgerEntry(ctx context.Context, ledgerID int64, req dto.UpdateLedgerEntryRequest) (*dto.LedgerEntryResponse, error) {
	paymentModeID, err := parseOptionalID("payment_mode_id", req.PaymentModeID)
	if err != nil {
		return nil, err
	}
	bankAccountID, err := parseOptionalID("bank_account_id", req.BankAccountID)
	if err != nil {
		return nil, err
	}
	if paymentModeID != nil {
		mode, err := s.modeRepo.FindByID(ctx, *paymentModeID)
		if err != nil {
			return nil, apierror.NotFound("payment mode %s not found", *paymentModeID)
		}
		if mode.RequiresBankAccount && bankAccountID == nil {
			return nil, apierror.InvalidArgument("payment mode %q requires a bank account", mode.Name)
		}
	}

	var entry *model.LedgerEntry
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		entry, err = s.repo.FindByIDTx(tx, ledgerID)
		if err != nil {
			return apierror.NotFound("ledger entry %d not found", ledgerID)
		}

		switch entry.RefType {
		case model.RefTypeSale, model.RefTypeEmptyReturn, model.RefTypePayment:
		default:
			return apierror.InvalidOperation("ledger entries of type %s cannot be edited", entry.RefType)
		}

		// Same customer lock the write path takes: an edit and a concurrent
		// sale/payment for one customer never interleave.
		if _, err := s.customerRepo.LockByIDTx(tx, entry.CustomerID); err != nil {
			return apierror.NotFound("customer %s not found", entry.CustomerID)
		}

		if err := checkEditableFields(entry, req); err != nil {
			return err
		}

		newFilled, newEmpty := entry.FilledOut, entry.EmptyIn
		if req.FilledOut != nil {
			newFilled = *req.FilledOut
		}
		if req.EmptyIn != nil {
			newEmpty = *req.EmptyIn
		}
		newTotal, newReceived := entry.TotalAmount, entry.AmountReceived
		if req.TotalAmount != nil {
			newTotal = *req.TotalAmount
		}
		if req.AmountReceived != nil {
			newReceived = *req.AmountReceived
		}

		// A SALE whose quantity changed without an explicit total re-prices
		// from the originating sale line: unit price × qty − discount,
		// floored at zero.
		if entry.RefType == model.RefTypeSale && newFilled != entry.FilledOut &&
			req.TotalAmount == nil && entry.RefID != nil && entry.VariantID != nil {
			item, err := s.saleRepo.FindItemTx(tx, *entry.RefID, *entry.VariantID)
			if err != nil {
				return err
			}
			if item != nil {
				newTotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(newFilled))).Sub(item.Discount)
				if newTotal.IsNegative() {
					newTotal = decimal.Zero
				}
				newTotal = newTotal.Round(2)
			}
		}

		if newFilled < 0 || newEmpty < 0 || newTotal.IsNegative() || newReceived.IsNegative() {
			return apierror.InvalidOperation(
				"quantities and amounts cannot be negative: filled_out=%d empty_in=%d total=%s received=%s",
				newFilled, newEmpty, newTotal.StringFixed(2), newReceived.StringFixed(2))
		}

		var variantChain []model.LedgerEntry
		vPos := -1
		if entry.VariantID != nil {
			variantChain, err = s.repo.VariantChainTx(tx, entry.CustomerID, *entry.VariantID)
			if err != nil {
				return err
			}
			vPos = chainIndex(variantChain, entry.ID)
			if vPos < 0 {
				return fmt.Errorf("ledger entry %d missing from its own chain", entry.ID)
			}
		}
		customerChain, err := s.repo.CustomerChainTx(tx, entry.CustomerID)
		if err != nil {
			return err
		}
		cPos := chainIndex(customerChain, entry.ID)
		if cPos < 0 {
			return fmt.Errorf("ledger entry %d missing from customer chain", entry.ID)
		}

		// Staleness guard: edits are only allowed within the most recent
		// editWindow entries of the per-variant chain.
		if len(variantChain) > s.editWindow {
			back := len(variantChain) - 1 - vPos
			if back >= s.editWindow {
				return apierror.InvalidOperation(
					"entry %d is %d entries back in its chain; only the most recent %d entries can be edited",
					ledgerID, back, s.editWindow)
			}
		}

		// New balance for the edited entry from its per-variant predecessor.
		newBalance := entry.Balance
		if entry.VariantID != nil {
			prevBalance := 0
			if vPos > 0 {
				prevBalance = variantChain[vPos-1].Balance
			}
			delta := newFilled - newEmpty
			if entry.IgnoreEmptyForBalance {
				delta = newFilled
			}
			newBalance = prevBalance + delta
			if newBalance < 0 {
				return apierror.InvalidOperation(
					"entry %d would have negative balance: %d", ledgerID, newBalance)
			}
		}

		// New cumulative due from the all-variant predecessor.
		previousDue := decimal.Zero
		if cPos > 0 {
			previousDue = customerChain[cPos-1].DueAmount
		}
		newDue := previousDue.Add(newTotal).Sub(newReceived)
		if newDue.IsNegative() {
			return apierror.InvalidOperation(
				"cannot set received amount to Rs %s: entry %d due would become Rs %s",
				newReceived.StringFixed(2), ledgerID, newDue.StringFixed(2))
		}

		// Dry-run both forward chains before touching anything. Every
		// offending successor is collected so the caller sees the full
		// picture in one rejection.
		var problems []string
		if entry.VariantID != nil {
			running := newBalance
			for i := vPos + 1; i < len(variantChain); i++ {
				e := &variantChain[i]
				running += balanceDelta(e)
				if running < 0 {
					problems = append(problems, fmt.Sprintf(
						"entry %d (dated %s) would have negative balance: %d",
						e.ID, e.TransactionDate.Format(dateLayout), running))
				}
			}
		}
		runningDue := newDue
		for i := cPos + 1; i < len(customerChain); i++ {
			e := &customerChain[i]
			raw := runningDue.Add(e.TotalAmount).Sub(e.AmountReceived)
			if raw.IsNegative() {
				problems = append(problems, fmt.Sprintf(
					"entry %d (dated %s) would have negative due: Rs %s",
					e.ID, e.TransactionDate.Format(dateLayout), raw.StringFixed(2)))
				runningDue = decimal.Zero
			} else {
				runningDue = raw
			}
		}
		if len(problems) > 0 {
			return apierror.InvalidOperation(
				"cannot update entry %d: %s. Update would result in negative values in subsequent entries.",
				ledgerID, strings.Join(problems, "; "))
		}

		// Validation done — from here on everything persists or the whole
		// transaction rolls back.

		if err := s.adjustInventory(tx, entry, newFilled, newEmpty); err != nil {
			return err
		}

		oldTotal, oldReceived := entry.TotalAmount, entry.AmountReceived
		entry.FilledOut = newFilled
		entry.EmptyIn = newEmpty
		entry.TotalAmount = newTotal
		entry.AmountReceived = newReceived
		entry.Balance = newBalance
		entry.DueAmount = newDue
		if req.UpdateReason != nil {
			entry.UpdateReason = req.UpdateReason
		}
		if paymentModeID != nil {
			entry.PaymentModeID = paymentModeID
		}
		if bankAccountID != nil {
			entry.BankAccountID = bankAccountID
		}
		var updatedBy *string
		if req.Actor != "" {
			updatedBy = &req.Actor
			entry.UpdatedBy = updatedBy
		}
		if err := s.repo.SaveTx(tx, entry); err != nil {
			return err
		}

		if entry.RefType == model.RefTypeSale && entry.RefID != nil {
			if err := s.propagateToSale(tx, entry, oldTotal, oldReceived, updatedBy); err != nil {
				return err
			}
		}

		// Forward propagation: two separate passes over two different
		// orderings of the same table. An entry can be rewritten by both.
		if entry.VariantID != nil {
			running := newBalance
			for i := vPos + 1; i < len(variantChain); i++ {
				e := &variantChain[i]
				running += balanceDelta(e)
				if running != e.Balance {
					if err := s.repo.UpdateBalanceTx(tx, e.ID, running, updatedBy); err != nil {
						return err
					}
				}
			}
		}
		runningDue = newDue
		for i := cPos + 1; i < len(customerChain); i++ {
			e := &customerChain[i]
			runningDue = ComputeDue(runningDue, e.TotalAmount, e.AmountReceived)
			if !runningDue.Equal(e.DueAmount) {
				if err := s.repo.UpdateDueTx(tx, e.ID, runningDue, updatedBy); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	resp := entryToResponse(entry)
	return &resp, nil
}

// checkEditableFields enforces per-type field restrictions: an empty-return's
// filled quantity is fixed, and a payment only ever changes its received
// amount.
func checkEditableFields(entry *model.LedgerEntry, req dto.UpdateLedgerEntryRequest) error {
	if entry.RefType == model.RefTypeEmptyReturn &&
		req.FilledOut != nil && *req.FilledOut != entry.FilledOut {
		return apierror.InvalidOperation("the filled quantity of an empty-return entry cannot be changed")
	}
	if entry.RefType == model.RefTypePayment {
		if (req.FilledOut != nil && *req.FilledOut != entry.FilledOut) ||
			(req.EmptyIn != nil && *req.EmptyIn != entry.EmptyIn) ||
			(req.TotalAmount != nil && !req.TotalAmount.Equal(entry.TotalAmount)) {
			return apierror.InvalidOperation("only the received amount of a payment entry can be changed")
		}
	}
	return nil
}

// adjustInventory applies the edit's stock effect. For a SALE, reducing
// filled_out hands cylinders back to warehouse filled stock and raising it
// takes more out (with a sufficiency check); empty_in deltas move warehouse
// empty stock. An EMPTY_RETURN only moves empty stock.
func (s *ledgerUpdateService) adjustInventory(tx *gorm.DB, entry *model.LedgerEntry, newFilled, newEmpty int) error {
	if entry.WarehouseID == nil || entry.VariantID == nil {
		return nil
	}
	w, v := *entry.WarehouseID, *entry.VariantID
	filledChange := entry.FilledOut - newFilled
	emptyChange := newEmpty - entry.EmptyIn

	switch entry.RefType {
	case model.RefTypeSale:
		if filledChange > 0 {
			if err := s.stock.IncrementFilledTx(tx, w, v, filledChange); err != nil {
				return err
			}
		} else if filledChange < 0 {
			if err := s.stock.DecrementFilledTx(tx, w, v, -filledChange); err != nil {
				return err
			}
		}
		if emptyChange > 0 {
			if err := s.stock.IncrementEmptyTx(tx, w, v, emptyChange); err != nil {
				return err
			}
		} else if emptyChange < 0 {
			if err := s.stock.DecrementEmptyTx(tx, w, v, -emptyChange); err != nil {
				return err
			}
		}
	case model.RefTypeEmptyReturn:
		if emptyChange > 0 {
			if err := s.stock.IncrementEmptyTx(tx, w, v, emptyChange); err != nil {
				return err
			}
		} else if emptyChange < 0 {
			if err := s.stock.DecrementEmptyTx(tx, w, v, -emptyChange); err != nil {
				return err
			}
		}
	}
	return nil
}

// propagateToSale writes the edited amounts and quantities back to the
// originating sale record and its matching line item.
func (s *ledgerUpdateService) propagateToSale(tx *gorm.DB, entry *model.LedgerEntry, oldTotal, oldReceived decimal.Decimal, updatedBy *string) error {
	sale, err := s.saleRepo.FindByIDTx(tx, *entry.RefID)
	if err != nil {
		return apierror.NotFound("sale %d not found", *entry.RefID)
	}

	newSaleTotal := sale.TotalAmount.Sub(oldTotal).Add(entry.TotalAmount)
	newSaleReceived := sale.AmountReceived.Sub(oldReceived).Add(entry.AmountReceived)
	if err := s.saleRepo.UpdateTotalsTx(tx, sale.ID, newSaleTotal, newSaleReceived, updatedBy); err != nil {
		return err
	}

	if entry.VariantID == nil {
		return nil
	}
	item, err := s.saleRepo.FindItemTx(tx, sale.ID, *entry.VariantID)
	if err != nil {
		return err
	}
	if item == nil {
		return nil
	}
	item.Quantity = entry.FilledOut
	item.EmptyIn = entry.EmptyIn
	item.FinalPrice = entry.TotalAmount
	return s.saleRepo.UpdateItemTx(tx, item)
}

func chainIndex(chain []model.LedgerEntry, id int64) int {
	for i := range chain {
		if chain[i].ID == id {
			return i
		}
	}
	return -1
}
