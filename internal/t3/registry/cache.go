package registry

import (
	"context"
	"sync"
	"time"

	"github.com/sorane/t3c/internal/t3"
)

// Registry wraps a Source with a TTL cache. Discovery is expensive (it
// downloads JS bundles), so repeated lookups within the TTL reuse the last
// roster. The roster is replaced wholesale on refresh.
type Registry struct {
	source Source

	mu       sync.RWMutex
	models   []t3.ModelInfo
	cachedAt time.Time
	ttl      time.Duration
}

// NewRegistry creates a registry over the given source. A zero ttl disables
// caching.
func NewRegistry(source Source, ttl time.Duration) *Registry {
	return &Registry{source: source, ttl: ttl}
}

// Models returns the current roster, fetching through the source when the
// cache is empty or stale.
func (r *Registry) Models(ctx context.Context) ([]t3.ModelInfo, error) {
	if cached := r.cached(); cached != nil {
		return cached, nil
	}

	models, err := r.source.FetchModels(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.models = models
	r.cachedAt = time.Now()
	r.mu.Unlock()

	return models, nil
}

// Lookup returns the model with the given id from the roster.
func (r *Registry) Lookup(ctx context.Context, id string) (t3.ModelInfo, bool, error) {
	models, err := r.Models(ctx)
	if err != nil {
		return t3.ModelInfo{}, false, err
	}
	for _, m := range models {
		if m.ID == id {
			return m, true, nil
		}
	}
	return t3.ModelInfo{}, false, nil
}

// Invalidate drops the cached roster so the next call refetches.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	r.models = nil
	r.mu.Unlock()
}

func (r *Registry) cached() []t3.ModelInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.models == nil || r.ttl <= 0 || time.Since(r.cachedAt) > r.ttl {
		return nil
	}
	return r.models
}
