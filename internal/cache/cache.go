package cache

import (
	"context"
	"errors"

	"salesflow/internal/core"
)

// CatalogCache holds a short-lived snapshot of the remote catalog so the
// wizard does not hit the boundary on every screen. The cache is advisory:
// failures degrade to a boundary fetch, never to an error the user sees.
type CatalogCache interface {
	Get(ctx context.Context) (*core.Catalog, error)
	Set(ctx context.Context, catalog *core.Catalog) error
	Invalidate(ctx context.Context) error
}

// ErrCacheMiss is returned by Get when no snapshot is cached.
var ErrCacheMiss = errors.New("cache miss")
