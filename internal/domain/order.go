package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// ErrInvalidOrder rejects a submission before it can touch the book.
var ErrInvalidOrder = errors.New("invalid order")

// Order is a trading intent. Only Quantity changes after creation: it
// is decremented during matching and the order is removed from its
// side the moment it reaches zero. Seq is assigned by the book side on
// insertion and breaks ties among equal prices (FIFO).
type Order struct {
	ID        string          `json:"id"`
	Symbol    string          `json:"symbol"`
	Side      Side            `json:"side"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	Seq       int64           `json:"seq"`
	CreatedAt time.Time       `json:"created_at"`
}

func NewOrder(symbol string, side Side, price decimal.Decimal, quantity int64) (*Order, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrInvalidOrder)
	}
	if side != Buy && side != Sell {
		return nil, fmt.Errorf("%w: unknown side %q", ErrInvalidOrder, side)
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be > 0, got %s", ErrInvalidOrder, price)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be > 0, got %d", ErrInvalidOrder, quantity)
	}
	return &Order{
		Symbol:    symbol,
		Side:      side,
		Price:     price,
		Quantity:  quantity,
		CreatedAt: time.Now(),
	}, nil
}

func (o *Order) String() string {
	return fmt.Sprintf("%s %d shares of %s at $%s", o.Side, o.Quantity, o.Symbol, o.Price)
}
