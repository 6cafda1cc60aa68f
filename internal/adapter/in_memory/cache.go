package in_memory

import (
	"context"
	"sync"

	"github.com/okhramov/stockbook/internal/domain"
	"github.com/okhramov/stockbook/internal/port"
)

var _ port.Cache = (*Cache)(nil)

type Cache struct {
	mu    sync.Mutex
	store map[string]*domain.Depth
}

func NewCache() *Cache {
	return &Cache{store: make(map[string]*domain.Depth)}
}

func (c *Cache) SetDepth(ctx context.Context, symbol string, d *domain.Depth) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copyDepth := *d
	c.store[symbol] = &copyDepth
	return nil
}

func (c *Cache) GetDepth(ctx context.Context, symbol string) (*domain.Depth, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.store[symbol]
	if !ok {
		return nil, nil
	}
	copyDepth := *d
	return &copyDepth, nil
}
