package port

import (
	"context"

	"github.com/okhramov/stockbook/internal/domain"
)

type Cache interface {
	SetDepth(ctx context.Context, symbol string, d *domain.Depth) error
	GetDepth(ctx context.Context, symbol string) (*domain.Depth, error)
}
