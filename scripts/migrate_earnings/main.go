// One-off migration: card, GCash and Maya bookings are settled up front,
// so their ledger records never needed the hold period. Flips every
// pending online earning straight to available.
package main

import (
	"context"
	"log"
	"net/http"

	"go.opentelemetry.io/otel"

	"openspace_backend/startup/config"
	"openspace_backend/store"
)

func main() {
	cfg := config.NewConfig()

	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			MaxConnsPerHost:     10,
		},
	}

	client, err := store.GetClient(cfg.OpenSpaceDBHost, cfg.OpenSpaceDBPort, httpClient)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	earnings := store.NewEarningMongoDBStore(client, otel.Tracer("migrate_earnings"))

	released, err := earnings.ReleaseAllPendingOnline(ctx)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("Released %d online earnings", released)
}
