package port

import (
	"context"
	"errors"

	"github.com/okhramov/stockbook/internal/domain"
)

var (
	// ErrSnapshotNotFound means no snapshot exists for the symbol.
	// Callers treat it as "start from an empty book", not a failure.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrSnapshotCorrupt means a snapshot exists but cannot be decoded.
	ErrSnapshotCorrupt = errors.New("snapshot corrupt")
)

// SnapshotStore persists whole books. Save must be crash-atomic: a
// failure mid-save leaves any previous snapshot for that symbol
// untouched.
type SnapshotStore interface {
	Save(ctx context.Context, snap *domain.BookSnapshot) error
	Load(ctx context.Context, symbol string) (*domain.BookSnapshot, error)
	List(ctx context.Context) ([]string, error)
}

// TradeArchive is a best-effort durable log of executions, separate
// from the snapshot. The engine never depends on it for correctness.
type TradeArchive interface {
	ArchiveTrade(ctx context.Context, t *domain.Trade) error
	LoadTrades(ctx context.Context, symbol string) ([]*domain.Trade, error)
}
