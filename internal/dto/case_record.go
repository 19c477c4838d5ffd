package dto

import (
	"time"

	"github.com/caselab/lab_case_app/internal/core/domain"
	"github.com/caselab/lab_case_app/internal/utils/money"
	"github.com/caselab/lab_case_app/internal/utils/reconciliation"
	"github.com/shopspring/decimal"
)

// PaymentEntryRequest carries one payment slot as submitted by the UI. Amount
// arrives as the raw user-typed string ("1.234,50") and goes through the
// locale-aware parser server-side.
type PaymentEntryRequest struct {
	Method    string  `json:"method" binding:"omitempty,paymentmethod"`
	Amount    string  `json:"amount"`
	Reference *string `json:"reference"`
}

// CreateCaseRequest defines the payload for creating a new case.
type CreateCaseRequest struct {
	PatientName       string                `json:"patientName" binding:"required"`
	PatientDocumentID string                `json:"patientDocumentID" binding:"required"`
	PatientPhone      string                `json:"patientPhone"`
	TestType          string                `json:"testType" binding:"required"`
	Notes             string                `json:"notes"`
	TotalAmount       decimal.Decimal       `json:"totalAmount" binding:"required"`
	ExchangeRate      decimal.Decimal       `json:"exchangeRate" binding:"required"`
	Payments          []PaymentEntryRequest `json:"payments" binding:"max=4,dive"`
}

// UpdateCaseRequest defines a partial edit. Only the non-nil fields are
// considered proposed changes; Version is the record version the client read
// and is required for the stale-write guard.
type UpdateCaseRequest struct {
	Version           int64                  `json:"version" binding:"required"`
	PatientName       *string                `json:"patientName"`
	PatientDocumentID *string                `json:"patientDocumentID"`
	PatientPhone      *string                `json:"patientPhone"`
	TestType          *string                `json:"testType"`
	Notes             *string                `json:"notes"`
	TotalAmount       *decimal.Decimal       `json:"totalAmount"`
	ExchangeRate      *decimal.Decimal       `json:"exchangeRate"`
	Payments          *[]PaymentEntryRequest `json:"payments" binding:"omitempty,max=4,dive"`
}

// ToPaymentSlots converts submitted payment entries into the fixed slot array,
// parsing amounts with the locale-aware parser.
func ToPaymentSlots(entries []PaymentEntryRequest) [domain.MaxPaymentSlots]domain.PaymentEntry {
	var slots [domain.MaxPaymentSlots]domain.PaymentEntry
	for i, e := range entries {
		if i >= domain.MaxPaymentSlots || e.Method == "" {
			continue
		}
		amount := money.ParseAmount(e.Amount)
		slots[i] = domain.PaymentEntry{
			Method:    domain.PaymentMethod(e.Method),
			Amount:    &amount,
			Reference: e.Reference,
		}
	}
	return slots
}

// PaymentEntryResponse renders one payment slot.
type PaymentEntryResponse struct {
	Method    string  `json:"method,omitempty"`
	Currency  string  `json:"currency,omitempty"`
	Amount    *string `json:"amount,omitempty"`
	Reference *string `json:"reference,omitempty"`
}

// ChangeResponse renders one detected field change.
type ChangeResponse struct {
	Field      string `json:"field"`
	FieldLabel string `json:"fieldLabel"`
	OldValue   any    `json:"oldValue"`
	NewValue   any    `json:"newValue"`
}

// CaseResponse defines the structure for API responses containing case details.
// Reconciliation is always derived fresh; it is never read from storage.
type CaseResponse struct {
	CaseID            string                 `json:"caseID"`
	PatientName       string                 `json:"patientName"`
	PatientDocumentID string                 `json:"patientDocumentID"`
	PatientPhone      string                 `json:"patientPhone,omitempty"`
	TestType          string                 `json:"testType"`
	Notes             string                 `json:"notes,omitempty"`
	TotalAmount       decimal.Decimal        `json:"totalAmount"`
	ExchangeRate      decimal.Decimal        `json:"exchangeRate"`
	Payments          []PaymentEntryResponse `json:"payments"`
	Reconciliation    reconciliation.Result  `json:"reconciliation"`
	CreatedAt         time.Time              `json:"createdAt"`
	CreatedBy         string                 `json:"createdBy"`
	LastUpdatedAt     time.Time              `json:"lastUpdatedAt"`
	LastUpdatedBy     string                 `json:"lastUpdatedBy"`
	Version           int64                  `json:"version"`
}

// UpdateCaseResponse carries the updated case plus what actually changed and
// any auto-correction notices the UI must surface.
type UpdateCaseResponse struct {
	Case    CaseResponse     `json:"case"`
	Changes []ChangeResponse `json:"changes"`
}

// ListCasesResponse is a paginated page of cases.
type ListCasesResponse struct {
	Cases     []CaseResponse `json:"cases"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// ToCaseResponse converts a domain case plus its derived reconciliation into a
// response DTO.
func ToCaseResponse(c *domain.CaseRecord, rec reconciliation.Result) CaseResponse {
	payments := make([]PaymentEntryResponse, 0, domain.MaxPaymentSlots)
	for _, p := range c.Payments {
		if p.IsEmpty() {
			payments = append(payments, PaymentEntryResponse{})
			continue
		}
		resp := PaymentEntryResponse{
			Method:    string(p.Method),
			Currency:  string(p.Method.Currency()),
			Reference: p.Reference,
		}
		if p.Amount != nil {
			formatted := money.Format(*p.Amount)
			resp.Amount = &formatted
		}
		payments = append(payments, resp)
	}

	return CaseResponse{
		CaseID:            c.CaseID,
		PatientName:       c.PatientName,
		PatientDocumentID: c.PatientDocumentID,
		PatientPhone:      c.PatientPhone,
		TestType:          c.TestType,
		Notes:             c.Notes,
		TotalAmount:       c.TotalAmount,
		ExchangeRate:      c.ExchangeRate,
		Payments:          payments,
		Reconciliation:    rec,
		CreatedAt:         c.CreatedAt,
		CreatedBy:         c.CreatedBy,
		LastUpdatedAt:     c.LastUpdatedAt,
		LastUpdatedBy:     c.LastUpdatedBy,
		Version:           c.Version,
	}
}

// ToChangeResponses converts detected changes for the API layer.
func ToChangeResponses(changes []domain.Change) []ChangeResponse {
	responses := make([]ChangeResponse, len(changes))
	for i, ch := range changes {
		responses[i] = ChangeResponse{
			Field:      ch.Field,
			FieldLabel: ch.FieldLabel,
			OldValue:   ch.OldValue,
			NewValue:   ch.NewValue,
		}
	}
	return responses
}
