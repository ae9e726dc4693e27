package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/airvigil/airvigil/internal/config"
	"github.com/airvigil/airvigil/internal/notify"
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
	if cfg.SlackBotToken == "" {
		log.Fatalf("SLACK_BOT_TOKEN is not set")
	}

	log.Printf("Starting AirVigil notifier, posting to %s", cfg.SlackAlertChannel)

	dispatcher := notify.NewDispatcher(
		notify.NewBarrierClient(cfg.APIBaseURL, cfg.APIKey, 30*time.Second),
		notify.NewSlackSender(cfg.SlackBotToken, cfg.SlackAlertChannel),
	)

	stop := make(chan struct{})
	go dispatcher.Start(cfg.NotifyInterval, stop)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Received shutdown signal, stopping notifier...")
	close(stop)
}
