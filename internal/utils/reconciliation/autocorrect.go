// Package reconciliation computes the financial state of a case from its
// payment entries: converted totals, outstanding balance, payment status, and
// advisory auto-correction of suspicious local-currency amounts.
package reconciliation

import (
	"fmt"

	"github.com/caselab/lab_case_app/internal/core/domain"
	"github.com/caselab/lab_case_app/internal/utils/money"
	"github.com/shopspring/decimal"
)

// correctionThreshold is the multiplicative factor over the case total at which
// a converted local-currency amount is considered a likely misplaced decimal.
var correctionThreshold = decimal.NewFromInt(10)

// correctionDivisors are the single-order-of-magnitude slips the heuristic
// recognizes: cents entered as whole units (100x) or one extra digit (10x).
var correctionDivisors = []decimal.Decimal{
	decimal.NewFromInt(10),
	decimal.NewFromInt(100),
}

// Context carries the financial frame the heuristic judges plausibility against.
type Context struct {
	TotalAmount decimal.Decimal // Case total, USD
	Remaining   decimal.Decimal // Outstanding balance before this entry, USD
}

// Correction is the outcome of the auto-correction heuristic. When WasCorrected
// is true, Reason must be surfaced to the user as a non-blocking notice; stored
// amounts are never replaced by the corrected value.
type Correction struct {
	CorrectedAmount decimal.Decimal `json:"correctedAmount"`
	WasCorrected    bool            `json:"wasCorrected"`
	Reason          string          `json:"reason,omitempty"`
}

// AutoCorrect inspects a payment amount for a plausible single
// order-of-magnitude data-entry error. It is deterministic and only ever
// applies to local-currency amounts: the decimal ambiguity it targets is
// specific to the VES input path, so USD amounts and entries without a usable
// rate pass through unchanged.
func AutoCorrect(amount decimal.Decimal, method domain.PaymentMethod, rate *decimal.Decimal, ctx Context) Correction {
	unchanged := Correction{CorrectedAmount: amount}

	if method.Currency() == domain.USD {
		return unchanged
	}
	if rate == nil || !rate.IsPositive() {
		return unchanged
	}
	if !ctx.TotalAmount.IsPositive() {
		return unchanged
	}

	converted := amount.Div(*rate)
	if converted.LessThan(ctx.TotalAmount.Mul(correctionThreshold)) {
		return unchanged
	}

	for _, div := range correctionDivisors {
		candidate := amount.Div(div)
		candidateConverted := candidate.Div(*rate)
		if !candidateConverted.IsNegative() && candidateConverted.LessThanOrEqual(ctx.TotalAmount) {
			return Correction{
				CorrectedAmount: candidate,
				WasCorrected:    true,
				Reason: fmt.Sprintf(
					"Monto %s Bs parece tener la coma decimal corrida; se interpretó como %s Bs",
					money.Format(amount), money.Format(candidate)),
			}
		}
	}

	return unchanged
}
