// Package app wires the domain core to the RPC boundary and exposes a
// single ApplicationService consumed by every adapter (web, REPL, CLI).
package app

import (
	"context"

	"salesflow/internal/core"
)

// ApplicationService is the full surface the adapters program against.
// Adapters never talk to the RPC boundary or the cache directly.
type ApplicationService interface {
	// Login verifies credentials through the boundary. A failed attempt
	// starts a per-username cooldown; attempts during the cooldown return
	// a *CooldownError without reaching the boundary.
	Login(ctx context.Context, username, password string) (*core.Session, error)

	// SelectPersona returns a copy of the session with the given persona.
	SelectPersona(session core.Session, persona string) (*core.Session, error)

	// FetchCatalog returns the customer and product catalog, serving from
	// the cache when a fresh copy is available.
	FetchCatalog(ctx context.Context) (*CatalogResult, error)

	// RefreshCatalog bypasses the cache, fetches from the boundary and
	// repopulates the cache.
	RefreshCatalog(ctx context.Context) (*CatalogResult, error)

	// PreviewSchedule computes an installment projection. Pure; no I/O.
	PreviewSchedule(req PreviewScheduleRequest) (*PreviewResult, error)

	// CommitSale submits a finished sale to the boundary. The sale is
	// authoritative only once the boundary reports success.
	CommitSale(ctx context.Context, req CommitSaleRequest) (*CommitResult, error)

	// RecordPayment registers a payment against an existing sale.
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (*PaymentResult, error)
}
