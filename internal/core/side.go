package core

import (
	"container/heap"
	"sort"

	"github.com/okhramov/stockbook/internal/domain"
)

// BookSide holds the resting orders of one direction in a binary heap.
// Bids surface the highest price first, asks the lowest; equal prices
// are served in insertion order (Seq).
type BookSide struct {
	h       orderHeap
	nextSeq int64
}

func NewBookSide(side domain.Side) *BookSide {
	return &BookSide{
		h:       orderHeap{side: side},
		nextSeq: 1,
	}
}

// Insert rests an order on this side. A fresh order receives the next
// insertion sequence number; an order reloaded from a snapshot keeps
// the one it was saved with so FIFO survives a restart.
func (s *BookSide) Insert(o *domain.Order) {
	if o.Seq == 0 {
		o.Seq = s.nextSeq
		s.nextSeq++
	} else if o.Seq >= s.nextSeq {
		s.nextSeq = o.Seq + 1
	}
	heap.Push(&s.h, o)
}

func (s *BookSide) Len() int { return len(s.h.orders) }

// Peek returns the best order without removing it, or nil when empty.
// Mutating the returned order's Quantity is allowed: price and seq are
// the only heap keys, so a partial fill leaves its position intact.
func (s *BookSide) Peek() *domain.Order {
	if len(s.h.orders) == 0 {
		return nil
	}
	return s.h.orders[0]
}

func (s *BookSide) Pop() *domain.Order {
	if len(s.h.orders) == 0 {
		return nil
	}
	return heap.Pop(&s.h).(*domain.Order)
}

// Orders returns a best-first copy of the side for reporting and
// persistence. The heap itself is not disturbed.
func (s *BookSide) Orders() []domain.Order {
	out := make([]domain.Order, len(s.h.orders))
	for i, o := range s.h.orders {
		out[i] = *o
	}
	sort.Slice(out, func(i, j int) bool {
		return s.h.better(&out[i], &out[j])
	})
	return out
}

type orderHeap struct {
	side   domain.Side
	orders []*domain.Order
}

func (h *orderHeap) better(a, b *domain.Order) bool {
	switch cmp := a.Price.Cmp(b.Price); {
	case cmp != 0 && h.side == domain.Buy:
		return cmp > 0
	case cmp != 0:
		return cmp < 0
	default:
		return a.Seq < b.Seq
	}
}

func (h *orderHeap) Len() int           { return len(h.orders) }
func (h *orderHeap) Less(i, j int) bool { return h.better(h.orders[i], h.orders[j]) }
func (h *orderHeap) Swap(i, j int)      { h.orders[i], h.orders[j] = h.orders[j], h.orders[i] }

func (h *orderHeap) Push(x any) {
	h.orders = append(h.orders, x.(*domain.Order))
}

func (h *orderHeap) Pop() any {
	old := h.orders
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	h.orders = old[:n-1]
	return x
}
