package app

import "salesflow/internal/core"

// CatalogResult is a catalog snapshot plus where it came from.
type CatalogResult struct {
	Catalog   *core.Catalog
	FromCache bool
}

// PreviewResult wraps a computed installment projection.
type PreviewResult struct {
	Projection *core.Projection
}

// CommitResult mirrors the boundary's verdict on a sale submission.
// Message is the boundary's text verbatim; adapters surface it as-is.
type CommitResult struct {
	Success bool
	Message string
	SaleID  int
}

// PaymentResult mirrors the boundary's verdict on a payment.
type PaymentResult struct {
	Success bool
	Message string
}
