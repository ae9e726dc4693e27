package ingest

import (
	"context"
	"log"
	"time"

	"github.com/airvigil/airvigil/internal/config"
	"github.com/google/uuid"
)

// Poller drives the ingestion cycle: fetch each active city feed, normalize,
// forward to the gateway. Each city is one unit of work; a failing city
// never blocks the others, and a failed cycle is retried by the next tick.
type Poller struct {
	cities   []config.City
	upstream *UpstreamClient
	gateway  *GatewayClient
}

// NewPoller creates a new ingestion poller
func NewPoller(cities []config.City, upstream *UpstreamClient, gateway *GatewayClient) *Poller {
	return &Poller{
		cities:   cities,
		upstream: upstream,
		gateway:  gateway,
	}
}

// RunOnce executes one ingestion cycle over all active cities. Returns the
// total number of records forwarded.
func (p *Poller) RunOnce(ctx context.Context) int {
	batchID := uuid.New().String()[:8]
	forwarded := 0

	for _, city := range p.cities {
		records, err := p.upstream.FetchStations(ctx, city.APIURL)
		if err != nil {
			log.Printf("Poller[%s]: fetch for city %s failed: %v", batchID, city.Name, err)
			continue
		}

		readings := Normalize(records)
		if len(readings) == 0 {
			log.Printf("Poller[%s]: city %s returned no usable records", batchID, city.Name)
			continue
		}

		ack, err := p.gateway.SubmitBatch(ctx, readings)
		if err != nil {
			log.Printf("Poller[%s]: forwarding %d records for city %s failed: %v", batchID, len(readings), city.Name, err)
			continue
		}

		log.Printf("Poller[%s]: city %s: %d received, %d inserted, %d duplicates skipped",
			batchID, city.Name, ack.Received, ack.Inserted, ack.Received-ack.Inserted)
		forwarded += ack.Received
	}

	return forwarded
}

// Start begins the periodic ingestion loop
func (p *Poller) Start(interval time.Duration, stop <-chan struct{}) {
	log.Printf("Poller: starting ingestion loop, interval %s, %d cities", interval, len(p.cities))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// First cycle runs immediately rather than waiting one full interval.
	p.runCycle(interval)

	for {
		select {
		case <-ticker.C:
			p.runCycle(interval)
		case <-stop:
			log.Println("Poller: ingestion loop stopped")
			return
		}
	}
}

func (p *Poller) runCycle(interval time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), interval)
	defer cancel()

	p.RunOnce(ctx)
}
