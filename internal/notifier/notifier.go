package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/creatorly/finops/internal/config"
	"github.com/creatorly/finops/pkg/clients"
)

const (
	maxRetries    = 3
	retryInterval = time.Second * 1
)

// Notification is delivered to the notification collaborator strictly after
// the financial operation committed. Delivery failure never reaches the
// engine that enqueued it.
type Notification struct {
	ID        string         `json:"id"`
	UserID    int64          `json:"user_id"`
	Kind      string         `json:"kind"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type Dispatcher struct {
	url            string
	client         clients.HTTPClientI
	deliveries     DeliveryPoolI
	dispatchPeriod time.Duration

	mu      sync.Mutex
	pending []Notification
}

func New(cfg *config.Config, client clients.HTTPClientI) *Dispatcher {
	return &Dispatcher{
		url:            cfg.NotifyAddress,
		client:         client,
		deliveries:     NewDeliveryPool(10),
		dispatchPeriod: time.Second * 2,
	}
}

// Enqueue buffers the notification for out-of-band delivery. It never blocks
// on the network and only fails when the context is already done.
func (d *Dispatcher) Enqueue(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now()

	d.mu.Lock()
	d.pending = append(d.pending, n)
	d.mu.Unlock()
	return nil
}

func (d *Dispatcher) Start(ctx context.Context) {
	zap.L().Info("Notification dispatcher started")
	go d.run(ctx)
}

func (d *Dispatcher) run(ctx context.Context) {
	ticker := time.NewTicker(d.dispatchPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping dispatcher")
			return
		case <-ticker.C:
			d.dispatchPending(ctx)
		}
	}
}

func (d *Dispatcher) dispatchPending(ctx context.Context) {
	d.mu.Lock()
	batch := d.pending
	d.pending = nil
	d.mu.Unlock()

	var g errgroup.Group
	for _, n := range batch {
		n := n
		g.Go(func() error {
			return d.deliveries.Add(ctx, func() error {
				return d.deliver(ctx, n)
			})
		})
	}
	if err := g.Wait(); err != nil {
		zap.L().Error("Error dispatching notifications", zap.Error(err))
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification %s: %w", n.ID, err)
	}
	url := d.url + "/api/notifications"

	for attempt := 1; attempt <= maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			statusCode, _, err := d.client.Post(url, "application/json", bytes.NewReader(body))
			if err == nil && statusCode < http.StatusInternalServerError && statusCode != http.StatusTooManyRequests {
				return nil
			}
			if err == nil {
				err = fmt.Errorf("unexpected status code %d", statusCode)
			}

			if attempt < maxRetries {
				zap.L().Warn(
					"Notification delivery failed, retrying",
					zap.String("id", n.ID),
					zap.Int("attempt", attempt),
					zap.Error(err),
				)
				time.Sleep(retryInterval * time.Duration(attempt))
				continue
			}
			// drop after exhausting retries; delivery is best-effort
			return fmt.Errorf("failed to deliver notification %s after %d retries: %w", n.ID, maxRetries, err)
		}
	}
	return nil
}
