package identity

import (
	"context"
	"strings"

	"github.com/mnavarro-dev/storefront-backend/pkg/logger"
)

// Resolver yields the optional external chat id attached to orders when the
// storefront runs embedded in a messaging client shell. Resolution order:
// the id the client shell supplied with the request, then the configured
// default, then absent. Absence is logged once per resolution and never
// blocks checkout.
type Resolver struct {
	defaultChatID string
	logg          *logger.Logger
}

// NewResolver builds the resolver. defaultChatID may be empty.
func NewResolver(defaultChatID string, logg *logger.Logger) *Resolver {
	return &Resolver{defaultChatID: strings.TrimSpace(defaultChatID), logg: logg}
}

// Resolve returns the chat id for this checkout open, or nil when absent.
func (r *Resolver) Resolve(ctx context.Context, supplied *string) *string {
	if supplied != nil {
		if trimmed := strings.TrimSpace(*supplied); trimmed != "" {
			return &trimmed
		}
	}
	if r.defaultChatID != "" {
		id := r.defaultChatID
		return &id
	}
	if r.logg != nil {
		r.logg.Info(ctx, "no external chat identity available")
	}
	return nil
}
