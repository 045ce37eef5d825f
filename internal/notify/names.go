package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ajorhq/ajor/internal/model"
)

// Lookup is the slice of the API client used to resolve display names for
// entities referenced by notifications.
type Lookup interface {
	Group(ctx context.Context, id string) (*model.Group, error)
	Transaction(ctx context.Context, id string) (*model.Transaction, error)
}

// Resolver maps related entity ids on notifications to display names,
// memoizing lookups for its lifetime. Lookup failures yield a placeholder
// rather than an error: names are decoration, never required.
type Resolver struct {
	api Lookup

	mu    sync.Mutex
	names map[string]string
}

// NewResolver creates an empty resolver over the given lookup client.
func NewResolver(api Lookup) *Resolver {
	return &Resolver{
		api:   api,
		names: make(map[string]string),
	}
}

const namePlaceholder = "(unavailable)"

// Resolve returns display names for every contribution and transaction id
// referenced by the given notifications. Already-resolved ids are served
// from memory; the rest are fetched.
func (r *Resolver) Resolve(ctx context.Context, notifications []model.Notification) map[string]string {
	out := make(map[string]string)

	for _, n := range notifications {
		if n.ContributionID != "" {
			out[n.ContributionID] = r.groupName(ctx, n.ContributionID)
		}
		if n.TransactionID != "" {
			out[n.TransactionID] = r.transactionName(ctx, n.TransactionID)
		}
	}

	return out
}

func (r *Resolver) groupName(ctx context.Context, id string) string {
	if name, ok := r.cached(id); ok {
		return name
	}

	g, err := r.api.Group(ctx, id)
	if err != nil {
		slog.Debug("resolving group name", "id", id, "error", err)
		return namePlaceholder
	}

	r.store(id, g.Name)
	return g.Name
}

func (r *Resolver) transactionName(ctx context.Context, id string) string {
	if name, ok := r.cached(id); ok {
		return name
	}

	tx, err := r.api.Transaction(ctx, id)
	if err != nil {
		slog.Debug("resolving transaction name", "id", id, "error", err)
		return namePlaceholder
	}

	name := tx.Description
	if name == "" {
		name = string(tx.Type)
	}

	r.store(id, name)
	return name
}

func (r *Resolver) cached(id string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name, ok := r.names[id]
	return name, ok
}

func (r *Resolver) store(id, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[id] = name
}
