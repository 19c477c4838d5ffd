// Package money normalizes amounts between user-facing strings and decimals,
// and converts local-currency (VES) amounts into the reference currency (USD).
package money

import (
	"fmt"
	"strings"

	"github.com/caselab/lab_case_app/internal/apperrors"
	"github.com/caselab/lab_case_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ParseAmount parses a locale-formatted amount string. The supported locale
// groups thousands with "." and marks decimals with "," (e.g. "1.234,50"), but
// plain "1234.50" input is accepted too: the rightmost separator is taken as
// the decimal point when a comma, or when a dot followed by one or two digits.
//
// It fails closed: unparseable input yields zero rather than an error, because
// the function backs live-typing form fields.
func ParseAmount(input string) decimal.Decimal {
	s := strings.TrimSpace(input)
	if s == "" {
		return decimal.Zero
	}

	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')

	decimalSep := -1
	switch {
	case lastComma > lastDot:
		decimalSep = lastComma
	case lastDot > lastComma:
		// A trailing dot group of exactly three digits is thousands grouping
		// ("1.234" is one thousand two hundred thirty-four in es-VE).
		if len(s)-lastDot-1 <= 2 {
			decimalSep = lastDot
		}
	}

	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' && i == 0:
			b.WriteRune(r)
		case i == decimalSep:
			b.WriteByte('.')
		case r == '.' || r == ',':
			// Grouping separator, dropped.
		default:
			return decimal.Zero
		}
	}

	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ToReference converts an amount denominated in the method's currency into the
// reference currency. USD amounts pass through unchanged. VES amounts divide by
// rate; a non-positive rate is an ErrInvalidRate and the caller must fall back
// to rate-unavailable handling instead of trusting the returned amount.
func ToReference(amount decimal.Decimal, method domain.PaymentMethod, rate decimal.Decimal) (decimal.Decimal, error) {
	if method.Currency() == domain.USD {
		return amount, nil
	}
	if !rate.IsPositive() {
		return amount, fmt.Errorf("%w: rate %s for method %s", apperrors.ErrInvalidRate, rate, method)
	}
	return amount.Div(rate), nil
}

// Format renders an amount with exactly two decimal places. The output
// round-trips through ParseAmount within 1e-2.
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
