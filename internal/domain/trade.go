package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Trade records one match event. Price is always the resting order's
// price. Immutable once created.
type Trade struct {
	ID         string          `json:"id"`
	Symbol     string          `json:"symbol"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int64           `json:"quantity"`
	MakerOrder string          `json:"maker_order"`
	TakerOrder string          `json:"taker_order"`
	ExecutedAt time.Time       `json:"executed_at"`
}

func (t *Trade) String() string {
	return fmt.Sprintf("TRADE: %d shares of %s at $%s", t.Quantity, t.Symbol, t.Price)
}
