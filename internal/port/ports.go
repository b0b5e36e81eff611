// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/ecotrack/recycle-ledger-go/internal/domain"
)

// StateStore is the persistence gateway for ledger state. Only the event
// log and aggregate are persisted; scanning sessions never are.
//
// Load returns (nil, nil) when no prior state exists; the ledger then
// initializes to its zero state. Save/Load failures must never corrupt the
// in-memory ledger — a failed save degrades to "not yet durable".
type StateStore interface {
	Save(ctx context.Context, state *domain.LedgerState) error
	Load(ctx context.Context) (*domain.LedgerState, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// RegionSource resolves region profiles. Profiles are loaded once at
// startup and treated as immutable for the process lifetime.
type RegionSource interface {
	Profile(code string) (domain.RegionProfile, bool)
	Default() domain.RegionProfile
	All() []domain.RegionProfile
}
