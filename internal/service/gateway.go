package service

import (
	"context"

	"payswiftly/internal/gateway"
)

// GatewayClient is the interface for the mobile money aggregator consumed by
// the payment services. Collections pull money from passengers, payouts push
// money to drivers; final outcomes for both arrive asynchronously via
// webhook.
type GatewayClient interface {
	InitiateCollection(ctx context.Context, req gateway.CollectionRequest) (*gateway.CollectionResponse, error)
	InitiatePayout(ctx context.Context, req gateway.PayoutRequest) (*gateway.PayoutResponse, error)
	CollectionStatus(ctx context.Context, collectionID string) (*gateway.StatusResponse, error)
	PayoutStatus(ctx context.Context, trackingID string) (*gateway.StatusResponse, error)
}

// Ensure the concrete client satisfies the interface.
var _ GatewayClient = (*gateway.Client)(nil)
