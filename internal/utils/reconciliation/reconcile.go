package reconciliation

import (
	"github.com/caselab/lab_case_app/internal/core/domain"
	"github.com/caselab/lab_case_app/internal/utils/money"
	"github.com/shopspring/decimal"
)

// tolerance absorbs the rounding drift of two-decimal currency math when
// comparing paid totals against the case total.
var tolerance = decimal.New(1, -2) // 0.01

// CorrectionNotice reports an auto-correction applied while reconciling, so the
// caller can surface it to the user. Slot is 1-based.
type CorrectionNotice struct {
	Slot      int             `json:"slot"`
	Original  decimal.Decimal `json:"original"`
	Corrected decimal.Decimal `json:"corrected"`
	Reason    string          `json:"reason"`
}

// Result is the derived financial state of a case. It is computed fresh on
// every read and is the single source of truth for payment status.
type Result struct {
	TotalPaid       decimal.Decimal      `json:"totalPaid"` // USD
	Remaining       decimal.Decimal      `json:"remaining"` // USD, clamped to [0, total]
	Status          domain.PaymentStatus `json:"status"`
	Overpaid        bool                 `json:"overpaid"`
	RateUnavailable bool                 `json:"rateUnavailable"`
	Corrections     []CorrectionNotice   `json:"corrections,omitempty"`
}

// Reconcile converts and sums the non-empty payment entries into the reference
// currency and derives the outstanding balance and payment status.
//
// It is pure and side-effect free, so it is safe to call on every load or
// keystroke. Each local-currency amount first passes through the
// auto-correction heuristic; corrections affect the computed totals only and
// are reported through Result.Corrections, never written back to the entries.
// A local-currency entry without a usable rate contributes its raw amount
// unconverted and flips RateUnavailable so callers can warn the user.
func Reconcile(totalAmount decimal.Decimal, entries []domain.PaymentEntry, rate *decimal.Decimal) Result {
	res := Result{TotalPaid: decimal.Zero}

	for i, entry := range entries {
		if entry.IsEmpty() || entry.Amount == nil {
			continue
		}

		remaining := totalAmount.Sub(res.TotalPaid)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}

		amount := *entry.Amount
		corr := AutoCorrect(amount, entry.Method, rate, Context{
			TotalAmount: totalAmount,
			Remaining:   remaining,
		})
		if corr.WasCorrected {
			res.Corrections = append(res.Corrections, CorrectionNotice{
				Slot:      i + 1,
				Original:  amount,
				Corrected: corr.CorrectedAmount,
				Reason:    corr.Reason,
			})
			amount = corr.CorrectedAmount
		}

		if entry.Method.Currency() == domain.VES && (rate == nil || !rate.IsPositive()) {
			res.RateUnavailable = true
			res.TotalPaid = res.TotalPaid.Add(amount)
			continue
		}

		converted := amount
		if entry.Method.Currency() == domain.VES {
			var err error
			converted, err = money.ToReference(amount, entry.Method, *rate)
			if err != nil {
				// ToReference hands the raw amount back on a bad rate.
				res.RateUnavailable = true
			}
		}
		res.TotalPaid = res.TotalPaid.Add(converted)
	}

	res.Remaining = totalAmount.Sub(res.TotalPaid)
	if res.Remaining.IsNegative() {
		res.Remaining = decimal.Zero
	}
	res.Overpaid = res.TotalPaid.Sub(totalAmount).GreaterThan(tolerance)

	switch {
	case res.Remaining.LessThanOrEqual(tolerance):
		res.Status = domain.StatusCompletado
	case res.TotalPaid.Abs().LessThanOrEqual(tolerance):
		res.Status = domain.StatusPendiente
	default:
		res.Status = domain.StatusIncompleto
	}

	return res
}
