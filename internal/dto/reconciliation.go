package dto

import (
	"github.com/shopspring/decimal"
)

// ReconcilePreviewRequest defines the payload for the stateless reconciliation
// preview. The UI calls it on edit without persisting anything.
type ReconcilePreviewRequest struct {
	TotalAmount  decimal.Decimal       `json:"totalAmount" binding:"required"`
	ExchangeRate *decimal.Decimal      `json:"exchangeRate"`
	Payments     []PaymentEntryRequest `json:"payments" binding:"max=4,dive"`
}
