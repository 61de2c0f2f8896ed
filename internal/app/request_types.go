package app

import (
	"github.com/shopspring/decimal"

	"salesflow/internal/core"
)

// PreviewScheduleRequest carries the raw inputs for a schedule projection.
// StartDate is YYYY-MM-DD; empty means today.
type PreviewScheduleRequest struct {
	TotalAmount         decimal.Decimal
	DownPayment         decimal.Decimal
	InterestRatePercent decimal.Decimal
	Installments        int
	RecurrenceUnit      string
	RecurrenceInterval  int
	StartDate           string
}

// SaleLineInput is one cart line of a sale submission. A zero UnitPrice
// means "use the catalog price for the product".
type SaleLineInput struct {
	ProductID int
	Quantity  int
	UnitPrice decimal.Decimal
}

// CommitSaleRequest is a complete sale ready for the boundary. An empty
// ReferenceCode is replaced with a generated one.
type CommitSaleRequest struct {
	CustomerID    int
	Lines         []SaleLineInput
	Plan          core.PaymentPlan
	PaymentMethod string
	ReferenceCode string
	Notes         string
}

// RecordPaymentRequest registers a payment against a committed sale.
type RecordPaymentRequest struct {
	SaleID        int
	Amount        decimal.Decimal
	PaymentMethod string
	ReferenceCode string
}
