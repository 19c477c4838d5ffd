package money_test

import (
	"testing"

	"github.com/caselab/lab_case_app/internal/apperrors"
	"github.com/caselab/lab_case_app/internal/core/domain"
	"github.com/caselab/lab_case_app/internal/utils/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain integer", input: "1234", want: "1234"},
		{name: "dot decimal", input: "1234.56", want: "1234.56"},
		{name: "comma decimal", input: "1234,56", want: "1234.56"},
		{name: "grouped with comma decimal", input: "1.234,56", want: "1234.56"},
		{name: "grouped thousands only", input: "1.234", want: "1234"},
		{name: "double grouping", input: "1.234.567,89", want: "1234567.89"},
		{name: "single decimal digit", input: "12,5", want: "12.5"},
		{name: "dot with one decimal digit", input: "12.5", want: "12.5"},
		{name: "surrounding whitespace", input: "  100,00 ", want: "100"},
		{name: "empty string", input: "", want: "0"},
		{name: "garbage", input: "abc", want: "0"},
		{name: "mixed garbage", input: "12a4", want: "0"},
		{name: "lone separator", input: ",", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := money.ParseAmount(tt.input)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"ParseAmount(%q) = %s, want %s", tt.input, got, tt.want)
		})
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	// Round-trip law: ParseAmount(Format(x)) is within 1e-2 of x for
	// non-negative values with at most two fractional digits.
	tolerance := decimal.New(1, -2)
	values := []string{"0", "0.01", "1", "19.99", "100", "1234.5", "987654.32"}

	for _, v := range values {
		x := decimal.RequireFromString(v)
		back := money.ParseAmount(money.Format(x))
		assert.True(t, back.Sub(x).Abs().LessThanOrEqual(tolerance),
			"round-trip of %s drifted: got %s", x, back)
	}
}

func TestToReference(t *testing.T) {
	rate := decimal.NewFromInt(36)

	usd, err := money.ToReference(decimal.NewFromInt(50), domain.Zelle, rate)
	require.NoError(t, err)
	assert.True(t, usd.Equal(decimal.NewFromInt(50)), "USD amounts pass through")

	converted, err := money.ToReference(decimal.NewFromInt(3600), domain.PagoMovil, rate)
	require.NoError(t, err)
	assert.True(t, converted.Equal(decimal.NewFromInt(100)), "3600 VES at 36 is 100 USD")
}

func TestToReference_InvalidRate(t *testing.T) {
	for _, rate := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-36)} {
		amount := decimal.NewFromInt(3600)
		got, err := money.ToReference(amount, domain.PagoMovil, rate)
		require.ErrorIs(t, err, apperrors.ErrInvalidRate)
		// The raw amount comes back so callers can degrade gracefully.
		assert.True(t, got.Equal(amount))
	}

	// Rate is irrelevant for reference-currency methods.
	got, err := money.ToReference(decimal.NewFromInt(10), domain.EfectivoUSD, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(10)))
}
