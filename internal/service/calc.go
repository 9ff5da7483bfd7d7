package service

// calc.go — the two pure calculators every ledger mutation funnels through.
// Balance is per (customer, variant) and counts filled cylinders held by the
// customer; due is per customer across all variants and counts unpaid money.

import (
	"github.com/Kingbhau/gas-inventory-sub000/internal/apierror"
	"github.com/Kingbhau/gas-inventory-sub000/internal/model"

	"github.com/shopspring/decimal"
)

// ComputeBalance applies one transaction's cylinder deltas to the previous
// per-variant balance. When ignoreEmpty is set, emptyIn stays recorded on the
// entry but takes no part in the balance effect (or the negative check).
func ComputeBalance(previous, filledOut, emptyIn int, ignoreEmpty bool) (int, error) {
	if ignoreEmpty {
		return previous + filledOut, nil
	}
	next := previous + filledOut - emptyIn
	if next < 0 {
		return 0, apierror.InvalidOperation(
			"cylinder balance would become negative: %d held + %d out - %d returned = %d",
			previous, filledOut, emptyIn, next)
	}
	return next, nil
}

// ComputeDue applies one transaction's money deltas to the previous
// cumulative due, clamped at zero so an overpayment never produces a
// negative due.
func ComputeDue(previousDue, totalAmount, amountReceived decimal.Decimal) decimal.Decimal {
	due := previousDue.Add(totalAmount).Sub(amountReceived)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}

// balanceDelta is the balance effect of an entry under the replay rule.
func balanceDelta(e *model.LedgerEntry) int {
	if e.IgnoreEmptyForBalance {
		return e.FilledOut
	}
	return e.FilledOut - e.EmptyIn
}
