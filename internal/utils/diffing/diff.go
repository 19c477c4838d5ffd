// Package diffing computes the minimal set of actual field changes between the
// last persisted state of a record and a proposed partial edit.
package diffing

import (
	"sort"
	"time"

	"github.com/caselab/lab_case_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// numericTolerance bounds the drift under which two numeric values are still
// considered equal (float round-trips through JSON, decimal rescaling).
var numericTolerance = decimal.New(1, -9) // 1e-9

// Diff compares each field present in proposed against its counterpart in
// current and returns one Change per field whose value actually differs.
// Fields absent from proposed are never considered; no-op edits produce no
// Change, so Diff(x, x) is empty. Labels supplies the human-readable field
// label carried on each Change.
//
// The result is ordered by field name, which keeps the output deterministic.
// Diff is pure and performs no I/O.
func Diff(current map[string]any, proposed map[string]any, labels map[string]string) []domain.Change {
	fields := make([]string, 0, len(proposed))
	for field := range proposed {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	changes := make([]domain.Change, 0, len(fields))
	for _, field := range fields {
		newValue := proposed[field]
		oldValue := current[field]
		if valuesEqual(oldValue, newValue) {
			continue
		}
		changes = append(changes, domain.Change{
			Field:      field,
			FieldLabel: labels[field],
			OldValue:   oldValue,
			NewValue:   newValue,
		})
	}
	return changes
}

// valuesEqual applies per-type equality: numeric comparison within tolerance,
// exact comparison for strings and booleans, and canonical UTC instants for
// times. Values of mismatched kinds are unequal unless both are numeric.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if da, ok := toDecimal(a); ok {
		db, ok := toDecimal(b)
		if !ok {
			return false
		}
		return da.Sub(db).Abs().LessThanOrEqual(numericTolerance)
	}

	switch va := a.(type) {
	case string:
		vb, ok := b.(string)
		return ok && va == vb
	case bool:
		vb, ok := b.(bool)
		return ok && va == vb
	case time.Time:
		vb, ok := b.(time.Time)
		return ok && va.UTC().Format(time.RFC3339Nano) == vb.UTC().Format(time.RFC3339Nano)
	default:
		return a == b
	}
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero, false
		}
		return *n, true
	case float64:
		return decimal.NewFromFloat(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	default:
		return decimal.Zero, false
	}
}
