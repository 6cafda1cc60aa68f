package core

import "github.com/okhramov/stockbook/internal/domain"

// TradeLedger is the append-only record of executed trades, kept in
// emission order. Nothing is ever removed or reordered.
type TradeLedger struct {
	trades []*domain.Trade
}

func NewTradeLedger() *TradeLedger {
	return &TradeLedger{}
}

func (l *TradeLedger) Append(t *domain.Trade) {
	l.trades = append(l.trades, t)
}

func (l *TradeLedger) All() []domain.Trade {
	out := make([]domain.Trade, len(l.trades))
	for i, t := range l.trades {
		out[i] = *t
	}
	return out
}

func (l *TradeLedger) Len() int { return len(l.trades) }
