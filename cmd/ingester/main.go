package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/airvigil/airvigil/internal/config"
	"github.com/airvigil/airvigil/internal/ingest"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading it (this is fine if using environment variables): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.APIKey == "" {
		log.Fatalf("SERVICE_API_KEY is not set")
	}

	registry, err := config.LoadCities(cfg.CitiesFile)
	if err != nil {
		log.Fatalf("Failed to load city registry from %s: %v", cfg.CitiesFile, err)
	}

	cities := registry.ActiveCities()
	if len(cities) == 0 {
		log.Fatalf("No active cities in %s", cfg.CitiesFile)
	}
	log.Printf("Starting AirVigil ingester for %d active city scope(s)", len(cities))

	poller := ingest.NewPoller(
		cities,
		ingest.NewUpstreamClient(30*time.Second),
		ingest.NewGatewayClient(cfg.APIBaseURL, cfg.APIKey, 30*time.Second),
	)

	stop := make(chan struct{})
	go poller.Start(cfg.IngestInterval, stop)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Received shutdown signal, stopping ingester...")
	close(stop)
}
