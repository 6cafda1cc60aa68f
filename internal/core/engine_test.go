package core

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/okhramov/stockbook/internal/adapter/in_memory"
	"github.com/okhramov/stockbook/internal/domain"
	"github.com/okhramov/stockbook/internal/port"
)

func newTestEngine() (*Engine, *in_memory.Store) {
	store := in_memory.NewStore()
	return NewEngine(store, nil, in_memory.NewCache(), nil), store
}

func engineSubmit(t *testing.T, e *Engine, symbol string, side domain.Side, price string, qty int64) *SubmitResult {
	t.Helper()
	res, err := e.SubmitOrder(context.Background(), symbol, side, decimal.RequireFromString(price), qty)
	if err != nil {
		t.Fatalf("SubmitOrder(%s %s %s x%d): %v", symbol, side, price, qty, err)
	}
	return res
}

func TestSubmitRejectsInvalidOrders(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	cases := []struct {
		name   string
		symbol string
		side   domain.Side
		price  string
		qty    int64
	}{
		{"zero quantity", "AAPL", domain.Buy, "10", 0},
		{"negative quantity", "AAPL", domain.Buy, "10", -5},
		{"zero price", "AAPL", domain.Sell, "0", 5},
		{"negative price", "AAPL", domain.Sell, "-1", 5},
		{"empty symbol", "", domain.Buy, "10", 5},
		{"bad side", "AAPL", domain.Side("HOLD"), "10", 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.SubmitOrder(ctx, tc.symbol, tc.side, decimal.RequireFromString(tc.price), tc.qty)
			if !errors.Is(err, domain.ErrInvalidOrder) {
				t.Fatalf("err = %v, want ErrInvalidOrder", err)
			}
		})
	}

	// Rejections must not have touched any book.
	d, err := e.BookDepth(ctx, "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Bids) != 0 || len(d.Asks) != 0 {
		t.Error("rejected orders mutated the book")
	}
}

func TestSubmitReportsTradesAndRemainder(t *testing.T) {
	e, _ := newTestEngine()
	engineSubmit(t, e, "AAPL", domain.Sell, "50", 5)
	res := engineSubmit(t, e, "AAPL", domain.Buy, "55", 8)
	if len(res.Trades) != 1 || res.Trades[0].Quantity != 5 {
		t.Fatalf("trades = %+v, want one of quantity 5", res.Trades)
	}
	if res.Remaining != 3 {
		t.Errorf("remaining = %d, want 3", res.Remaining)
	}
	if res.OrderID == "" {
		t.Error("order should be assigned an ID")
	}
}

func TestSymbolsMatchIndependently(t *testing.T) {
	e, _ := newTestEngine()
	engineSubmit(t, e, "AAPL", domain.Sell, "50", 5)
	res := engineSubmit(t, e, "GOOG", domain.Buy, "60", 5)
	if len(res.Trades) != 0 {
		t.Error("orders for different symbols must never match")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	e, store := newTestEngine()
	ctx := context.Background()

	engineSubmit(t, e, "AAPL", domain.Buy, "100", 10)
	engineSubmit(t, e, "AAPL", domain.Sell, "90", 4)
	engineSubmit(t, e, "AAPL", domain.Buy, "95", 2)
	engineSubmit(t, e, "GOOG", domain.Sell, "10", 1)

	if err := e.SnapshotAll(ctx); err != nil {
		t.Fatalf("SnapshotAll: %v", err)
	}

	restored := NewEngine(store, nil, in_memory.NewCache(), nil)
	if err := restored.RestoreAll(ctx); err != nil {
		t.Fatalf("RestoreAll: %v", err)
	}

	for _, symbol := range []string{"AAPL", "GOOG"} {
		origDepth, _ := e.BookDepth(ctx, symbol)
		restDepth, _ := restored.BookDepth(ctx, symbol)
		if len(origDepth.Bids) != len(restDepth.Bids) || len(origDepth.Asks) != len(restDepth.Asks) {
			t.Fatalf("%s: depth shape changed across restore", symbol)
		}
		for i := range origDepth.Bids {
			if !origDepth.Bids[i].Price.Equal(restDepth.Bids[i].Price) ||
				origDepth.Bids[i].Quantity != restDepth.Bids[i].Quantity {
				t.Errorf("%s: bid[%d] differs after restore", symbol, i)
			}
		}
		origHist, _ := e.TradeHistory(ctx, symbol)
		restHist, _ := restored.TradeHistory(ctx, symbol)
		if len(origHist) != len(restHist) {
			t.Fatalf("%s: ledger length %d != %d", symbol, len(origHist), len(restHist))
		}
		for i := range origHist {
			if origHist[i].ID != restHist[i].ID || origHist[i].Quantity != restHist[i].Quantity {
				t.Errorf("%s: ledger[%d] differs after restore", symbol, i)
			}
		}
	}
}

func TestMatchingContinuesAfterRestore(t *testing.T) {
	e, store := newTestEngine()
	ctx := context.Background()

	engineSubmit(t, e, "AAPL", domain.Buy, "20", 4)
	engineSubmit(t, e, "AAPL", domain.Buy, "20", 6)
	if err := e.SnapshotAll(ctx); err != nil {
		t.Fatal(err)
	}

	restored := NewEngine(store, nil, in_memory.NewCache(), nil)
	if err := restored.RestoreAll(ctx); err != nil {
		t.Fatal(err)
	}

	// FIFO among equal prices must survive the restart: the first
	// submitted bid (qty 4) fills first.
	res := engineSubmit(t, restored, "AAPL", domain.Sell, "20", 4)
	if len(res.Trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(res.Trades))
	}
	d, _ := restored.BookDepth(ctx, "AAPL")
	if len(d.Bids) != 1 || d.Bids[0].Quantity != 6 {
		t.Fatalf("want only the qty-6 bid left, got %+v", d.Bids)
	}
}

type memArchive struct {
	trades []*domain.Trade
	err    error
}

func (a *memArchive) ArchiveTrade(ctx context.Context, t *domain.Trade) error {
	if a.err != nil {
		return a.err
	}
	a.trades = append(a.trades, t)
	return nil
}

func (a *memArchive) LoadTrades(ctx context.Context, symbol string) ([]*domain.Trade, error) {
	var out []*domain.Trade
	for _, t := range a.trades {
		if t.Symbol == symbol {
			out = append(out, t)
		}
	}
	return out, nil
}

func TestTradesGoToArchive(t *testing.T) {
	archive := &memArchive{}
	e := NewEngine(in_memory.NewStore(), archive, nil, nil)
	engineSubmit(t, e, "AAPL", domain.Sell, "50", 5)
	engineSubmit(t, e, "AAPL", domain.Buy, "55", 5)

	got, err := e.ArchivedTrades(context.Background(), "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Quantity != 5 {
		t.Fatalf("archive = %+v, want one trade of quantity 5", got)
	}
}

func TestArchiveFailureDoesNotFailSubmit(t *testing.T) {
	archive := &memArchive{err: errors.New("archive down")}
	e := NewEngine(in_memory.NewStore(), archive, nil, nil)
	engineSubmit(t, e, "AAPL", domain.Sell, "50", 5)
	res := engineSubmit(t, e, "AAPL", domain.Buy, "55", 5)
	if len(res.Trades) != 1 {
		t.Fatal("match must succeed even when the archive is down")
	}
}

func TestArchivedTradesWithoutArchive(t *testing.T) {
	e, _ := newTestEngine()
	if _, err := e.ArchivedTrades(context.Background(), "AAPL"); err == nil {
		t.Error("expected an error when no archive is configured")
	}
}

type failingStore struct {
	err error
}

func (f *failingStore) Save(ctx context.Context, snap *domain.BookSnapshot) error { return f.err }
func (f *failingStore) Load(ctx context.Context, symbol string) (*domain.BookSnapshot, error) {
	return nil, f.err
}
func (f *failingStore) List(ctx context.Context) ([]string, error) { return []string{"AAPL"}, nil }

func TestCorruptSnapshotDegradesToEmptyBook(t *testing.T) {
	e := NewEngine(&failingStore{err: port.ErrSnapshotCorrupt}, nil, nil, nil)
	if err := e.RestoreAll(context.Background()); err != nil {
		t.Fatalf("corrupt snapshot must not fail restore: %v", err)
	}
	d, _ := e.BookDepth(context.Background(), "AAPL")
	if len(d.Bids) != 0 || len(d.Asks) != 0 {
		t.Error("corrupt snapshot should restore an empty book")
	}
}

func TestMissingSnapshotRestoresEmptyBook(t *testing.T) {
	e := NewEngine(&failingStore{err: port.ErrSnapshotNotFound}, nil, nil, nil)
	if err := e.Restore(context.Background(), "AAPL"); err != nil {
		t.Fatalf("missing snapshot must not be an error: %v", err)
	}
}

func TestSnapshotWriteFailureSurfaces(t *testing.T) {
	writeErr := errors.New("disk full")
	e := NewEngine(&failingStore{err: writeErr}, nil, nil, nil)
	engineSubmit(t, e, "AAPL", domain.Buy, "10", 1)
	if err := e.SnapshotAll(context.Background()); !errors.Is(err, writeErr) {
		t.Fatalf("err = %v, want the store's write error", err)
	}
	// In-memory state is unaffected by the failed save.
	d, _ := e.BookDepth(context.Background(), "AAPL")
	if len(d.Bids) != 1 {
		t.Error("failed snapshot must leave the book intact")
	}
}
