package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/okhramov/stockbook/internal/domain"
)

// Book is the matching unit for a single symbol: a buy side, a sell
// side and the trade ledger. It is not safe for concurrent use; the
// Engine serializes access.
type Book struct {
	Symbol string
	bids   *BookSide
	asks   *BookSide
	ledger *TradeLedger
}

func NewBook(symbol string) *Book {
	return &Book{
		Symbol: symbol,
		bids:   NewBookSide(domain.Buy),
		asks:   NewBookSide(domain.Sell),
		ledger: NewTradeLedger(),
	}
}

// RestoreBook rebuilds a book from a snapshot. Every order goes back
// through Insert so the priority invariant comes from the ordering
// logic, not from whatever order the file happened to store.
func RestoreBook(snap *domain.BookSnapshot) *Book {
	b := NewBook(snap.Symbol)
	for i := range snap.Bids {
		o := snap.Bids[i]
		b.bids.Insert(&o)
	}
	for i := range snap.Asks {
		o := snap.Asks[i]
		b.asks.Insert(&o)
	}
	for i := range snap.Trades {
		t := snap.Trades[i]
		b.ledger.Append(&t)
	}
	return b
}

// Submit matches an incoming order against the opposite side and rests
// any remainder on its own side. Trades execute at the resting order's
// price and are appended to the ledger in emission order. On return
// o.Quantity holds the unfilled remainder (zero when fully filled).
func (b *Book) Submit(o *domain.Order) []*domain.Trade {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	own, opp := b.bids, b.asks
	if o.Side == domain.Sell {
		own, opp = b.asks, b.bids
	}

	var trades []*domain.Trade
	for o.Quantity > 0 {
		best := opp.Peek()
		if best == nil || !crosses(o, best) {
			break
		}
		qty := o.Quantity
		if best.Quantity < qty {
			qty = best.Quantity
		}
		tr := &domain.Trade{
			ID:         uuid.NewString(),
			Symbol:     b.Symbol,
			Price:      best.Price,
			Quantity:   qty,
			MakerOrder: best.ID,
			TakerOrder: o.ID,
			ExecutedAt: time.Now(),
		}
		trades = append(trades, tr)
		b.ledger.Append(tr)

		o.Quantity -= qty
		best.Quantity -= qty
		if best.Quantity == 0 {
			opp.Pop()
		}
	}

	if o.Quantity > 0 {
		own.Insert(o)
	}
	return trades
}

// crosses reports whether the incoming order can execute against the
// best resting order. Decimal comparison, never float.
func crosses(incoming, resting *domain.Order) bool {
	if incoming.Side == domain.Buy {
		return incoming.Price.Cmp(resting.Price) >= 0
	}
	return incoming.Price.Cmp(resting.Price) <= 0
}

// Depth returns both sides best-first.
func (b *Book) Depth() *domain.Depth {
	return &domain.Depth{
		Symbol:    b.Symbol,
		Bids:      b.bids.Orders(),
		Asks:      b.asks.Orders(),
		Timestamp: time.Now(),
	}
}

func (b *Book) TradeHistory() []domain.Trade {
	return b.ledger.All()
}

func (b *Book) Snapshot() *domain.BookSnapshot {
	return &domain.BookSnapshot{
		Version: domain.SnapshotVersion,
		Symbol:  b.Symbol,
		Bids:    b.bids.Orders(),
		Asks:    b.asks.Orders(),
		Trades:  b.ledger.All(),
		SavedAt: time.Now(),
	}
}

// BestBid returns the highest resting bid price, or zero and false on
// an empty side. Used by tests and reporting to check the book never
// rests crossed.
func (b *Book) BestBid() (decimal.Decimal, bool) {
	if o := b.bids.Peek(); o != nil {
		return o.Price, true
	}
	return decimal.Decimal{}, false
}

func (b *Book) BestAsk() (decimal.Decimal, bool) {
	if o := b.asks.Peek(); o != nil {
		return o.Price, true
	}
	return decimal.Decimal{}, false
}
