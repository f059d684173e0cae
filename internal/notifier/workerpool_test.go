package notifier

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryPool(t *testing.T) {
	tests := []struct {
		name           string
		numDeliveries  int
		numWorkers     int
		expectedErrors int
	}{
		{
			name:           "Pool drains all deliveries",
			numDeliveries:  5,
			numWorkers:     2,
			expectedErrors: 0,
		},
		{
			name:           "Failed delivery does not stall the pool",
			numDeliveries:  2,
			numWorkers:     2,
			expectedErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewDeliveryPool(tt.numWorkers)
			defer p.Close()

			var mu sync.Mutex
			var deliveredCount int
			var errorCount int
			var wg sync.WaitGroup

			for i := 0; i < tt.numDeliveries; i++ {
				wg.Add(1)
				delivery := func(i int) Delivery {
					return func() error {
						defer wg.Done()
						if i == tt.numDeliveries-1 && tt.expectedErrors > 0 {
							mu.Lock()
							errorCount++
							mu.Unlock()
							return assert.AnError
						}
						time.Sleep(200 * time.Millisecond)
						mu.Lock()
						deliveredCount++
						mu.Unlock()
						return nil
					}
				}(i)

				err := p.Add(context.Background(), delivery)
				require.NoError(t, err, "failed to add delivery to pool")
			}

			wg.Wait()

			assert.Equal(t, tt.numDeliveries-tt.expectedErrors, deliveredCount, "number of completed deliveries does not match")
			assert.Equal(t, tt.expectedErrors, errorCount, "number of errors does not match")

			p.Close()
		})
	}
}
