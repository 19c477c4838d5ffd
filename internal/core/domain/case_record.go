package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxPaymentSlots is the fixed number of payment slots a case carries.
const MaxPaymentSlots = 4

// CaseRecord represents a clinical-lab billing case: patient identity, the
// total due in USD, a snapshot of the VES/USD exchange rate taken when the case
// was priced, and up to four payment entries.
type CaseRecord struct {
	CaseID            string                        `json:"caseID"` // Primary key (UUID)
	PatientName       string                        `json:"patientName"`
	PatientDocumentID string                        `json:"patientDocumentID"` // Cedula / passport
	PatientPhone      string                        `json:"patientPhone"`
	TestType          string                        `json:"testType"`
	Notes             string                        `json:"notes"`
	TotalAmount       decimal.Decimal               `json:"totalAmount"`  // USD, must be > 0
	ExchangeRate      decimal.Decimal               `json:"exchangeRate"` // VES per USD, snapshot, must be > 0
	Payments          [MaxPaymentSlots]PaymentEntry `json:"payments"`
	AuditFields
}

// Validate enforces the case invariants: positive total, positive rate, and
// every non-empty payment slot carrying a valid method and a positive amount.
func (c CaseRecord) Validate() error {
	if !c.TotalAmount.IsPositive() {
		return fmt.Errorf("total amount must be positive, got %s", c.TotalAmount)
	}
	if !c.ExchangeRate.IsPositive() {
		return fmt.Errorf("exchange rate must be positive, got %s", c.ExchangeRate)
	}
	for i, p := range c.Payments {
		if p.IsEmpty() {
			continue
		}
		if !p.Method.IsValid() {
			return fmt.Errorf("payment slot %d has unknown method %q", i+1, p.Method)
		}
		if p.Amount == nil || !p.Amount.IsPositive() {
			return fmt.Errorf("payment slot %d must have a positive amount", i+1)
		}
	}
	return nil
}

// NonEmptyPayments returns the used payment slots in slot order.
func (c CaseRecord) NonEmptyPayments() []PaymentEntry {
	entries := make([]PaymentEntry, 0, MaxPaymentSlots)
	for _, p := range c.Payments {
		if !p.IsEmpty() {
			entries = append(entries, p)
		}
	}
	return entries
}

// FieldValues flattens the case into the field map consumed by the diff
// detector. Payment slots expand to per-slot method/amount/reference fields so
// the audit trail records payment edits at field granularity.
func (c CaseRecord) FieldValues() map[string]any {
	fields := map[string]any{
		"patient_name":        c.PatientName,
		"patient_document_id": c.PatientDocumentID,
		"patient_phone":       c.PatientPhone,
		"test_type":           c.TestType,
		"notes":               c.Notes,
		"total_amount":        c.TotalAmount,
		"exchange_rate":       c.ExchangeRate,
	}
	for i, p := range c.Payments {
		prefix := fmt.Sprintf("payment_%d_", i+1)
		fields[prefix+"method"] = string(p.Method)
		if p.Amount != nil {
			fields[prefix+"amount"] = *p.Amount
		} else {
			fields[prefix+"amount"] = nil
		}
		if p.Reference != nil {
			fields[prefix+"reference"] = *p.Reference
		} else {
			fields[prefix+"reference"] = nil
		}
	}
	return fields
}

// FieldLabels maps field names to the labels shown in the audit trail UI.
func FieldLabels() map[string]string {
	labels := map[string]string{
		"patient_name":        "Nombre del paciente",
		"patient_document_id": "Documento de identidad",
		"patient_phone":       "Teléfono",
		"test_type":           "Tipo de examen",
		"notes":               "Notas",
		"total_amount":        "Monto total (USD)",
		"exchange_rate":       "Tasa de cambio",
	}
	for i := 1; i <= MaxPaymentSlots; i++ {
		labels[fmt.Sprintf("payment_%d_method", i)] = fmt.Sprintf("Pago %d: método", i)
		labels[fmt.Sprintf("payment_%d_amount", i)] = fmt.Sprintf("Pago %d: monto", i)
		labels[fmt.Sprintf("payment_%d_reference", i)] = fmt.Sprintf("Pago %d: referencia", i)
	}
	return labels
}
