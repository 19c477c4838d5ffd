package models

import "github.com/shopspring/decimal"

// CaseRecord is the DB-facing model for the lab_cases table. Payment slots are
// stored as a JSONB document rather than twelve flat columns.
type CaseRecord struct {
	CaseID            string          `json:"caseID"`
	PatientName       string          `json:"patientName"`
	PatientDocumentID string          `json:"patientDocumentID"`
	PatientPhone      string          `json:"patientPhone"`
	TestType          string          `json:"testType"`
	Notes             string          `json:"notes"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`  // USD
	ExchangeRate      decimal.Decimal `json:"exchangeRate"` // VES per USD snapshot
	Payments          []byte          `json:"payments"`     // JSONB payment slots
	AuditFields
}
