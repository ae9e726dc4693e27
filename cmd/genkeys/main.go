// Command genkeys provisions service API keys for the barrier API.
//
// By default it prints fresh keys as .env lines. With -write it also inserts
// the credentials into the api_clients table, so the barrier API accepts them
// on its next credential reload.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/gorm/logger"

	"github.com/airvigil/airvigil/internal/config"
	"github.com/airvigil/airvigil/internal/database"
)

var defaultServices = []string{
	"ingestion-valencia",
	"notifier",
	"frontend",
}

func main() {
	write := flag.Bool("write", false, "insert the generated credentials into the database")
	services := flag.String("services", strings.Join(defaultServices, ","), "comma-separated service names to provision")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading it (this is fine if using environment variables): %v", err)
	}

	names := strings.Split(*services, ",")
	keys := make(map[string]string, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key, err := generateKey()
		if err != nil {
			log.Fatalf("Failed to generate key for %s: %v", name, err)
		}
		keys[name] = key
	}

	if *write {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		if err := database.Connect(cfg.DatabaseURL, logger.Warn); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := database.AutoMigrate(); err != nil {
			log.Fatalf("Failed to run database migrations: %v", err)
		}
		db := database.GetDB()

		for _, name := range names {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if _, err := database.CreateClient(db, name, keys[name]); err != nil {
				log.Fatalf("Failed to provision credential for %s: %v", name, err)
			}
			log.Printf("Provisioned credential for %s", name)
		}
	}

	fmt.Println("# Generated service API keys. Store these securely; they are not recoverable.")
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		fmt.Printf("%s_API_KEY=%s\n", envName(name), keys[name])
	}
}

// generateKey returns a 32-byte URL-safe random key.
func generateKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func envName(service string) string {
	s := strings.ToUpper(service)
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
