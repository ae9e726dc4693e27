package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/airvigil/airvigil/internal/api"
)

// Dispatcher pulls pending alerts from the barrier API, pushes them to the
// configured sender, and registers each confirmed send back as delivered.
type Dispatcher struct {
	barrier *BarrierClient
	sender  Sender
}

// NewDispatcher wires a barrier client to a sender.
func NewDispatcher(barrier *BarrierClient, sender Sender) *Dispatcher {
	return &Dispatcher{barrier: barrier, sender: sender}
}

// RunOnce executes one dispatch cycle. A send failure for one alert does not
// block the rest of the batch; only confirmed sends are registered, so failed
// triples surface again on the next cycle.
func (d *Dispatcher) RunOnce(ctx context.Context) (sent int, err error) {
	pending, err := d.barrier.PendingAlerts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch pending alerts: %w", err)
	}

	if len(pending) == 0 {
		log.Printf("Dispatcher: no pending alerts")
		return 0, nil
	}
	log.Printf("Dispatcher: %d pending alert(s)", len(pending))

	delivered := make([]api.DeliveryRecord, 0, len(pending))
	for _, alert := range pending {
		if sendErr := d.sender.Send(ctx, alert); sendErr != nil {
			log.Printf("Dispatcher: send failed for station %d pollutant %s: %v",
				alert.StationID, alert.Pollutant, sendErr)
			continue
		}
		delivered = append(delivered, api.DeliveryRecord{
			StationID:      alert.StationID,
			AlertTimestamp: alert.AlertTimestamp,
			Pollutant:      alert.Pollutant,
			Value:          alert.Value,
			Limit:          alert.Limit,
			StationName:    alert.StationName,
			City:           alert.City,
		})
	}

	if len(delivered) == 0 {
		return 0, fmt.Errorf("all %d send attempts failed", len(pending))
	}

	if err := d.barrier.RegisterDeliveries(ctx, delivered); err != nil {
		// Sends went out but the log write failed; the registration endpoint
		// is idempotent so the next cycle can retry without double-counting,
		// though the channel may see repeats.
		return len(delivered), fmt.Errorf("failed to register %d deliveries: %w", len(delivered), err)
	}

	log.Printf("Dispatcher: sent and registered %d alert(s)", len(delivered))
	return len(delivered), nil
}

// Start runs dispatch cycles on the given interval until stop is closed. The
// first cycle runs immediately.
func (d *Dispatcher) Start(interval time.Duration, stop chan struct{}) {
	log.Printf("Dispatcher: starting with interval %v", interval)

	d.runCycle(interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.runCycle(interval)
		case <-stop:
			log.Printf("Dispatcher: stopped")
			return
		}
	}
}

func (d *Dispatcher) runCycle(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if _, err := d.RunOnce(ctx); err != nil {
		log.Printf("Dispatcher: cycle failed: %v", err)
	}
}
