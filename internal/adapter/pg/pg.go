package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okhramov/stockbook/internal/domain"
	"github.com/okhramov/stockbook/internal/port"
)

var _ port.TradeArchive = (*Archive)(nil)

// Archive mirrors executed trades to Postgres. It is a side-channel:
// the snapshot file stays the source of truth for recovery.
type Archive struct {
	pool *pgxpool.Pool
}

// NewArchive connects a pool; call Close when finished.
func NewArchive(ctx context.Context, dsn string) (*Archive, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}
	return &Archive{pool: pool}, nil
}

func (a *Archive) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

func (a *Archive) ArchiveTrade(ctx context.Context, t *domain.Trade) error {
	if t == nil {
		return errors.New("nil trade")
	}
	_, err := a.pool.Exec(ctx, `
INSERT INTO trades(id, symbol, price, quantity, maker_order, taker_order, executed_at)
VALUES($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO NOTHING
`, t.ID, t.Symbol, t.Price, t.Quantity, t.MakerOrder, t.TakerOrder, t.ExecutedAt)
	return err
}

// LoadTrades returns archived trades for a symbol in execution order.
func (a *Archive) LoadTrades(ctx context.Context, symbol string) ([]*domain.Trade, error) {
	rows, err := a.pool.Query(ctx, `
SELECT id, symbol, price, quantity, maker_order, taker_order, executed_at
FROM trades
WHERE symbol = $1
ORDER BY executed_at ASC
`, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Trade
	for rows.Next() {
		var t domain.Trade
		if err := rows.Scan(&t.ID, &t.Symbol, &t.Price, &t.Quantity, &t.MakerOrder, &t.TakerOrder, &t.ExecutedAt); err != nil {
			return nil, err
		}
		res = append(res, &t)
	}
	return res, rows.Err()
}
