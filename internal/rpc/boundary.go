// Package rpc is the application's only external boundary: a set of named
// remote procedure calls hosted by the relational database service. All
// authoritative business logic — sale processing, payment recording,
// installment scheduling, credential checks — runs server-side behind these
// functions; this package only ships fully-validated parameters across and
// relays the result rows back.
package rpc

import (
	"context"

	"salesflow/internal/core"

	"github.com/shopspring/decimal"
)

// Status is the small result record every mutating RPC returns. A false
// Success with a populated Message is a server-reported business-rule
// violation (insufficient stock, invalid password, ...) and is surfaced to
// the user verbatim; transport failures are returned as Go errors instead.
type Status struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SaleItem is one line of a commit-sale request.
type SaleItem struct {
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// CommitSaleRequest finalizes a draft sale. Plan carries exactly one of the
// two concrete payment-plan variants; implementations select the call shape
// with an exhaustive type switch, so there is no bag of conditionally-set
// optional fields.
type CommitSaleRequest struct {
	CustomerID    int
	Items         []SaleItem
	Plan          core.PaymentPlan
	PaymentMethod string
	ReferenceCode string
	Notes         string
}

// CommitSaleResult is the boundary's answer to a commit. The server computes
// its own authoritative installment schedule while processing the sale; it
// is independent of any client-side projection and the two are never
// reconciled.
type CommitSaleResult struct {
	Status
	SaleID int `json:"sale_id"`
}

// RecordPaymentRequest applies a payment against an existing sale.
type RecordPaymentRequest struct {
	SaleID        int
	Amount        decimal.Decimal
	PaymentMethod string
	ReferenceCode string
}

// CredentialResult is the boundary's answer to a credential check. Password
// validation is a server-side concern; a rejection arrives as a business
// failure, never as a transport error.
type CredentialResult struct {
	Status
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

// Boundary is the RPC interface the rest of the application depends on.
// Implementations: the pgx client (production) and the in-memory boundary
// (tests, offline runs).
type Boundary interface {
	// CommitSale finalizes a draft sale in a single terminal call.
	CommitSale(ctx context.Context, req CommitSaleRequest) (*CommitSaleResult, error)

	// RecordPayment applies a payment against an existing sale.
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (*Status, error)

	// FetchCatalog retrieves the customers + products snapshot the wizard
	// works from.
	FetchCatalog(ctx context.Context) (*core.Catalog, error)

	// VerifyCredentials checks a username/password pair server-side.
	VerifyCredentials(ctx context.Context, username, password string) (*CredentialResult, error)
}
