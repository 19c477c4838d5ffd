package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/caselab/lab_case_app/internal/core/domain"
	"github.com/caselab/lab_case_app/internal/models"
)

// ToModelCaseRecord converts a domain case to its DB model, serializing the
// payment slots into the JSONB document stored in lab_cases.payments.
func ToModelCaseRecord(d domain.CaseRecord) (models.CaseRecord, error) {
	payments, err := json.Marshal(d.Payments)
	if err != nil {
		return models.CaseRecord{}, fmt.Errorf("failed to marshal payment slots for case %s: %w", d.CaseID, err)
	}
	return models.CaseRecord{
		CaseID:            d.CaseID,
		PatientName:       d.PatientName,
		PatientDocumentID: d.PatientDocumentID,
		PatientPhone:      d.PatientPhone,
		TestType:          d.TestType,
		Notes:             d.Notes,
		TotalAmount:       d.TotalAmount,
		ExchangeRate:      d.ExchangeRate,
		Payments:          payments,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainCaseRecord converts a DB model back into a domain case.
func ToDomainCaseRecord(m models.CaseRecord) (domain.CaseRecord, error) {
	var payments [domain.MaxPaymentSlots]domain.PaymentEntry
	if len(m.Payments) > 0 {
		if err := json.Unmarshal(m.Payments, &payments); err != nil {
			return domain.CaseRecord{}, fmt.Errorf("failed to unmarshal payment slots for case %s: %w", m.CaseID, err)
		}
	}
	return domain.CaseRecord{
		CaseID:            m.CaseID,
		PatientName:       m.PatientName,
		PatientDocumentID: m.PatientDocumentID,
		PatientPhone:      m.PatientPhone,
		TestType:          m.TestType,
		Notes:             m.Notes,
		TotalAmount:       m.TotalAmount,
		ExchangeRate:      m.ExchangeRate,
		Payments:          payments,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}, nil
}
