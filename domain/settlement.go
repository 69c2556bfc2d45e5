package domain

import "context"

// SettlementClient transfers a payout to an external account. The real
// gateway integration lives behind this interface; the default client
// records success locally when no provider is configured.
type SettlementClient interface {
	Settle(ctx context.Context, payoutRef string, request *PayoutRequest) error
}
