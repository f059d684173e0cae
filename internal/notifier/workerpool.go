package notifier

import (
	"context"

	"go.uber.org/zap"
)

type DeliveryPoolI interface {
	Add(ctx context.Context, d Delivery) error
	Close()
}

// Delivery is one buffered notification send.
type Delivery func() error

type DeliveryPool struct {
	pool chan Delivery
}

func NewDeliveryPool(size int) *DeliveryPool {
	pool := make(chan Delivery, size)
	p := &DeliveryPool{pool: pool}

	for i := 0; i < size; i++ {
		go p.worker()
	}
	return p
}

func (p *DeliveryPool) worker() {
	for d := range p.pool {
		if err := d(); err != nil {
			zap.L().Error("Notification delivery failed", zap.Error(err))
		}
	}
}

func (p *DeliveryPool) Add(ctx context.Context, d Delivery) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.pool <- d:
		return nil
	}
}

func (p *DeliveryPool) Close() {
	select {
	case <-p.pool:
	default:
		close(p.pool)
	}
}
