package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/okhramov/stockbook/internal/domain"
	"github.com/okhramov/stockbook/internal/port"
)

// Engine owns one Book per symbol and serializes every operation on
// them behind a single mutex: a submit runs to completion (matching,
// ledger append, remainder insert) before the next one, and snapshots
// see no half-applied match.
type Engine struct {
	store   port.SnapshotStore
	archive port.TradeArchive
	cache   port.Cache
	log     *zap.Logger

	mu    sync.Mutex
	books map[string]*Book
}

func NewEngine(store port.SnapshotStore, archive port.TradeArchive, cache port.Cache, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		store:   store,
		archive: archive,
		cache:   cache,
		log:     log,
		books:   make(map[string]*Book),
	}
}

type SubmitResult struct {
	OrderID   string
	Trades    []domain.Trade
	Remaining int64
}

// SubmitOrder validates the intent, matches it and publishes the side
// effects. Archive and cache writes are best-effort: a failure there
// is logged and never rolls back the match.
func (e *Engine) SubmitOrder(ctx context.Context, symbol string, side domain.Side, price decimal.Decimal, quantity int64) (*SubmitResult, error) {
	o, err := domain.NewOrder(symbol, side, price, quantity)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	book := e.getOrCreateBook(o.Symbol)
	trades := book.Submit(o)

	e.log.Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("symbol", o.Symbol),
		zap.String("side", string(side)),
		zap.String("price", price.String()),
		zap.Int64("quantity", quantity),
		zap.Int("trades", len(trades)),
		zap.Int64("remaining", o.Quantity))

	res := &SubmitResult{OrderID: o.ID, Remaining: o.Quantity}
	for _, t := range trades {
		res.Trades = append(res.Trades, *t)
		if e.archive != nil {
			if err := e.archive.ArchiveTrade(ctx, t); err != nil {
				e.log.Warn("trade archive write failed", zap.String("trade_id", t.ID), zap.Error(err))
			}
		}
	}
	if e.cache != nil {
		if err := e.cache.SetDepth(ctx, o.Symbol, book.Depth()); err != nil {
			e.log.Warn("depth cache update failed", zap.String("symbol", o.Symbol), zap.Error(err))
		}
	}
	return res, nil
}

// BookDepth returns both sides best-first. The cache is consulted
// first the way the submit path keeps it fresh; a miss falls through
// to the in-memory book.
func (e *Engine) BookDepth(ctx context.Context, symbol string) (*domain.Depth, error) {
	if e.cache != nil {
		if d, err := e.cache.GetDepth(ctx, symbol); err == nil && d != nil {
			return d, nil
		}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.getOrCreateBook(symbol).Depth(), nil
}

func (e *Engine) TradeHistory(ctx context.Context, symbol string) ([]domain.Trade, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.getOrCreateBook(symbol).TradeHistory(), nil
}

// ArchivedTrades reads the durable trade log, which outlives the
// in-memory ledger of any single run.
func (e *Engine) ArchivedTrades(ctx context.Context, symbol string) ([]*domain.Trade, error) {
	if e.archive == nil {
		return nil, errors.New("no trade archive configured")
	}
	return e.archive.LoadTrades(ctx, symbol)
}

// Snapshot persists one book as a whole.
func (e *Engine) Snapshot(ctx context.Context, symbol string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked(ctx, symbol)
}

// SnapshotAll persists every book. Stops at the first failure so the
// error is not silently swallowed; already-saved books stay saved.
func (e *Engine) SnapshotAll(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for symbol := range e.books {
		if err := e.snapshotLocked(ctx, symbol); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) snapshotLocked(ctx context.Context, symbol string) error {
	book, ok := e.books[symbol]
	if !ok {
		return fmt.Errorf("no book for symbol %q", symbol)
	}
	if e.store == nil {
		return errors.New("no snapshot store configured")
	}
	if err := e.store.Save(ctx, book.Snapshot()); err != nil {
		return err
	}
	e.log.Info("book snapshot saved", zap.String("symbol", symbol))
	return nil
}

// Restore replaces the in-memory book for a symbol with the durable
// snapshot. A missing snapshot yields an empty book; a corrupt one is
// logged and likewise degrades to an empty book rather than failing
// the caller.
func (e *Engine) Restore(ctx context.Context, symbol string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.restoreLocked(ctx, symbol)
}

// RestoreAll loads every symbol the store knows about. Called once at
// startup before the engine accepts orders.
func (e *Engine) RestoreAll(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	symbols, err := e.store.List(ctx)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, symbol := range symbols {
		if err := e.restoreLocked(ctx, symbol); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) restoreLocked(ctx context.Context, symbol string) error {
	if e.store == nil {
		return errors.New("no snapshot store configured")
	}
	snap, err := e.store.Load(ctx, symbol)
	switch {
	case errors.Is(err, port.ErrSnapshotNotFound):
		e.books[symbol] = NewBook(symbol)
		e.refreshCacheLocked(ctx, symbol)
		e.log.Info("no snapshot found, starting fresh", zap.String("symbol", symbol))
		return nil
	case errors.Is(err, port.ErrSnapshotCorrupt):
		e.books[symbol] = NewBook(symbol)
		e.refreshCacheLocked(ctx, symbol)
		e.log.Warn("snapshot corrupt, starting fresh", zap.String("symbol", symbol), zap.Error(err))
		return nil
	case err != nil:
		return err
	}
	e.books[symbol] = RestoreBook(snap)
	e.refreshCacheLocked(ctx, symbol)
	e.log.Info("book restored",
		zap.String("symbol", symbol),
		zap.Int("bids", len(snap.Bids)),
		zap.Int("asks", len(snap.Asks)),
		zap.Int("trades", len(snap.Trades)))
	return nil
}

// refreshCacheLocked republishes the current depth after a restore so
// readers never see the pre-restore book through the cache.
func (e *Engine) refreshCacheLocked(ctx context.Context, symbol string) {
	if e.cache == nil {
		return
	}
	if err := e.cache.SetDepth(ctx, symbol, e.books[symbol].Depth()); err != nil {
		e.log.Warn("depth cache update failed", zap.String("symbol", symbol), zap.Error(err))
	}
}

func (e *Engine) getOrCreateBook(symbol string) *Book {
	book, ok := e.books[symbol]
	if !ok {
		book = NewBook(symbol)
		e.books[symbol] = book
	}
	return book
}
