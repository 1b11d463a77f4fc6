// repo-notify publishes a change notification to the broker, for
// smoke-testing a running repo-indexer.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/ecarden/repo-indexer/internal/config"
	"github.com/ecarden/repo-indexer/internal/message"
	"github.com/ecarden/repo-indexer/internal/transport"
)

func main() {
	path := flag.String("path", "", "resource-relative path, e.g. /objects/1")
	purge := flag.Bool("purge", false, "send a removal notification instead of an update")
	flag.Parse()

	if value, ok := os.LookupEnv("ENV"); ok && value == "prod" {
		// In Docker/Compose, rely only on provided env vars
	} else {
		// Local dev: force load .env
		if err := godotenv.Overload(); err != nil {
			log.Fatalf("Could not load .env: %v", err)
		}
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	title := "status"
	if *purge {
		title = message.RemovalTitle
	}

	payload, err := message.EncodeEntry(title, *path)
	if err != nil {
		log.Fatalf("Failed to encode notification: %v", err)
	}

	pub, err := transport.NewRedisPublisher(cfg.GetRedisAddr(), cfg.GetBrokerChannel())
	if err != nil {
		log.Fatalf("Failed to connect to broker: %v", err)
	}
	defer func() {
		if err := pub.Close(); err != nil {
			log.Printf("failed to close publisher: %v", err)
		}
	}()

	if err := pub.Publish(context.Background(), payload); err != nil {
		log.Fatalf("Failed to publish notification: %v", err)
	}

	log.Printf("Published %s notification for path %q on %s", title, *path, cfg.GetBrokerChannel())
}
