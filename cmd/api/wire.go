package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/mnavarro-dev/storefront-backend/internal/cart"
	"github.com/mnavarro-dev/storefront-backend/pkg/upstream"
)

// cartGateway narrows the cart service to the slice checkout consumes.
type cartGateway struct {
	svc cart.Service
}

func (g cartGateway) Snapshot(ctx context.Context, sessionID uuid.UUID) (cart.Snapshot, error) {
	return g.svc.Get(ctx, sessionID)
}

func (g cartGateway) Clear(ctx context.Context, sessionID uuid.UUID) error {
	return g.svc.Clear(ctx, sessionID)
}

// localSubmitter accepts orders without an upstream. The order log is still
// written, so development installs keep a usable order history.
type localSubmitter struct{}

func (localSubmitter) SubmitOrder(ctx context.Context, payload upstream.OrderPayload) (bool, error) {
	return true, nil
}
