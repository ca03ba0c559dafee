package service

import (
	"otica/internal/apierror"
	"otica/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// evaluateDiscount normalizes a discount request against an order subtotal
// and enforces the per-order ceiling. Exactly one of amount or percentage is
// given; both representations are returned. A discount above the ceiling
// passes only for an elevated actor, and the caller must then record the
// approval.
func evaluateDiscount(subtotal decimal.Decimal, amount, percentage *decimal.Decimal, ceiling decimal.Decimal, actorRole string) (decimal.Decimal, decimal.Decimal, error) {
	if (amount == nil) == (percentage == nil) {
		return decimal.Zero, decimal.Zero, apierror.Validation("provide exactly one of amount or percentage")
	}
	if subtotal.LessThanOrEqual(decimal.Zero) {
		// A zero discount on an empty order is a no-op.
		if (amount != nil && amount.IsZero()) || (percentage != nil && percentage.IsZero()) {
			return decimal.Zero, decimal.Zero, nil
		}
		return decimal.Zero, decimal.Zero, apierror.Validation("cannot discount an empty order")
	}

	var amt, pct decimal.Decimal
	if amount != nil {
		amt = *amount
		pct = amt.Div(subtotal).Mul(hundred).Round(2)
	} else {
		pct = *percentage
		amt = subtotal.Mul(pct).Div(hundred).Round(2)
	}

	if amt.IsNegative() {
		return decimal.Zero, decimal.Zero, apierror.Validation("discount cannot be negative")
	}
	if amt.GreaterThan(subtotal) {
		return decimal.Zero, decimal.Zero, apierror.Validation("discount exceeds order subtotal")
	}
	if pct.GreaterThan(ceiling) && !model.IsElevatedRole(actorRole) {
		return decimal.Zero, decimal.Zero, apierror.RequiresApproval(
			"discount of %s%% exceeds the %s%% ceiling and requires manager approval", pct, ceiling)
	}
	return amt, pct, nil
}
