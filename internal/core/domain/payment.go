package domain

import "github.com/shopspring/decimal"

// CurrencyCode identifies one of the two supported currencies.
type CurrencyCode string

const (
	// USD is the reference currency: total amounts and all reconciliation math
	// are ultimately expressed in it.
	USD CurrencyCode = "USD"
	// VES is the local currency, convertible to USD via a per-case exchange rate.
	VES CurrencyCode = "VES"
)

// PaymentMethod is the closed set of accepted payment methods. Each method is
// statically mapped to exactly one currency; the mapping is authoritative and
// never inferred from the amount.
type PaymentMethod string

const (
	EfectivoUSD   PaymentMethod = "efectivo_usd"
	Zelle         PaymentMethod = "zelle"
	PuntoDeVenta  PaymentMethod = "punto_de_venta"
	PagoMovil     PaymentMethod = "pago_movil"
	Transferencia PaymentMethod = "transferencia"
	EfectivoBs    PaymentMethod = "efectivo_bs"
)

var methodCurrencies = map[PaymentMethod]CurrencyCode{
	EfectivoUSD:   USD,
	Zelle:         USD,
	PuntoDeVenta:  VES,
	PagoMovil:     VES,
	Transferencia: VES,
	EfectivoBs:    VES,
}

// Currency returns the currency the method is denominated in.
func (m PaymentMethod) Currency() CurrencyCode {
	return methodCurrencies[m]
}

// IsValid reports whether m is one of the accepted methods.
func (m PaymentMethod) IsValid() bool {
	_, ok := methodCurrencies[m]
	return ok
}

// PaymentMethods lists every accepted method; useful for validation and docs.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{EfectivoUSD, Zelle, PuntoDeVenta, PagoMovil, Transferencia, EfectivoBs}
}

// PaymentStatus is the derived payment state of a case. It is recomputed from
// the payment entries on every read and never trusted from storage.
type PaymentStatus string

const (
	StatusPendiente  PaymentStatus = "Pendiente"
	StatusIncompleto PaymentStatus = "Incompleto"
	StatusCompletado PaymentStatus = "Completado"
)

// PaymentEntry is one of a case's payment slots. A slot is empty when Method is
// unset; empty slots contribute nothing to reconciliation.
type PaymentEntry struct {
	Method    PaymentMethod    `json:"method"`
	Amount    *decimal.Decimal `json:"amount"`    // In the method's currency; nil when unset
	Reference *string          `json:"reference"` // Bank/transfer reference, nil when unset
}

// IsEmpty reports whether the slot is unused.
func (p PaymentEntry) IsEmpty() bool {
	return p.Method == ""
}
