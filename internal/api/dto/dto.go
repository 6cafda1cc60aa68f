package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

type SubmitOrderRequest struct {
	Symbol   string          `json:"symbol" binding:"required"`
	Side     Side            `json:"side" binding:"required"`
	Price    decimal.Decimal `json:"price" binding:"required"`
	Quantity int64           `json:"quantity" binding:"required"`
}

type SubmitOrderResponse struct {
	OrderID   string  `json:"order_id"`
	Trades    []Trade `json:"trades"`
	Remaining int64   `json:"remaining"`
}

type GetOrderbookResponse struct {
	Symbol    string    `json:"symbol"`
	Bids      []Order   `json:"bids"`
	Asks      []Order   `json:"asks"`
	Timestamp time.Time `json:"timestamp"`
}

type GetTradesResponse struct {
	Trades []Trade `json:"trades"`
}

type SnapshotRequest struct {
	// Empty symbol snapshots every book.
	Symbol string `json:"symbol"`
}

type SnapshotResponse struct {
	Saved bool `json:"saved"`
}

type RestoreRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

type RestoreResponse struct {
	Restored bool `json:"restored"`
}

type Order struct {
	ID        string          `json:"id"`
	Symbol    string          `json:"symbol"`
	Side      Side            `json:"side"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
}

type Trade struct {
	ID         string          `json:"id"`
	Symbol     string          `json:"symbol"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int64           `json:"quantity"`
	MakerOrder string          `json:"maker_order"`
	TakerOrder string          `json:"taker_order"`
	ExecutedAt time.Time       `json:"executed_at"`
	Display    string          `json:"display"`
}
