// internal/workers/suggestions/fetch-suggestions/handler.go
package fetchsuggestions

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"planpal/internal/cache"
	stderrors "planpal/internal/common/errors"
	"planpal/internal/common/logger"
	"planpal/internal/common/observability"
	"planpal/internal/models"
	"planpal/internal/providers"
	"planpal/internal/store"
)

const TaskType = "fetch-suggestions"

// Handler pulls suggestions for a group from the registered providers,
// serving from cache inside the freshness window and degrading to each
// provider's mock dataset when the upstream cannot be reached. Provider
// failures never surface to the caller.
type Handler struct {
	config    *Config
	providers map[models.SourceCategory]providers.Provider
	order     []models.SourceCategory
	cache     cache.Cache
	store     store.Store
	obs       *observability.Observability
	logger    logger.Logger
}

func NewHandler(config *Config, provs []providers.Provider, c cache.Cache, s store.Store, obs *observability.Observability, log logger.Logger) *Handler {
	bydst := make(map[models.SourceCategory]providers.Provider, len(provs))
	order := make([]models.SourceCategory, 0, len(provs))
	for _, p := range provs {
		bydst[p.Source()] = p
		order = append(order, p.Source())
	}

	return &Handler{
		config:    config,
		providers: bydst,
		order:     order,
		cache:     c,
		store:     s,
		obs:       obs,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute fetches from the requested sources. Sources run concurrently;
// output order follows provider registration order regardless of which
// upstream answers first.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Group.GroupCode == "" {
		return nil, stderrors.NewInvalidGroupInputError("groupCode is required")
	}

	sources := input.Sources
	if len(sources) == 0 {
		sources = h.order
	}
	for _, src := range sources {
		if _, ok := h.providers[src]; !ok {
			return nil, stderrors.NewInvalidGroupInputError("unknown source: " + string(src))
		}
	}

	query := h.buildQuery(input)

	type sourceOutcome struct {
		result      SourceResult
		suggestions []models.Suggestion
	}

	outcomes := make([]sourceOutcome, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src models.SourceCategory) {
			defer wg.Done()
			suggestions, origin := h.fetchSource(ctx, h.providers[src], input.Group.GroupCode, query)
			outcomes[i] = sourceOutcome{
				result:      SourceResult{Source: src, Origin: origin, Count: len(suggestions)},
				suggestions: suggestions,
			}
		}(i, src)
	}
	wg.Wait()

	output := &Output{}
	for _, o := range outcomes {
		output.Sources = append(output.Sources, o.result)
		output.Suggestions = append(output.Suggestions, o.suggestions...)
	}

	if err := h.store.Upsert(ctx, output.Suggestions); err != nil {
		return nil, err
	}

	h.logger.Info("suggestions fetched", map[string]interface{}{
		"groupCode": input.Group.GroupCode,
		"sources":   output.Sources,
		"total":     len(output.Suggestions),
	})

	return output, nil
}

func (h *Handler) buildQuery(input *Input) providers.Query {
	q := providers.Query{
		Mood:   input.Group.Mood,
		Budget: input.Group.Budget,
		Term:   input.Term,
	}
	if centroid, ok := input.Group.Centroid(); ok {
		q.Center = &centroid
	}
	return q
}

// fetchSource resolves one source: cache, then the live upstream with
// retry, then the mock dataset. Mock results are stored but not cached,
// so the next request tries the upstream again.
func (h *Handler) fetchSource(ctx context.Context, p providers.Provider, groupCode string, query providers.Query) ([]models.Suggestion, Origin) {
	source := string(p.Source())
	key := cache.Key(source, query.Params())

	entry, err := h.cache.Get(ctx, key)
	if err != nil {
		h.logger.Warn("cache lookup failed, treating as miss", map[string]interface{}{
			"source": source,
			"error":  err.Error(),
		})
	}
	if h.obs != nil {
		h.obs.RecordCacheLookup(ctx, source, entry != nil)
	}
	if entry != nil {
		return p.Normalize(groupCode, h.limit(entry.Results)), OriginCached
	}

	raw, err := h.fetchWithRetry(ctx, p, query)
	if err != nil {
		h.logger.Warn("provider unavailable, serving mock data", map[string]interface{}{
			"source": source,
			"error":  err.Error(),
		})
		if h.obs != nil {
			h.obs.RecordFallback(ctx, source, fallbackReason(err))
		}
		return p.Normalize(groupCode, h.limit(p.Mock(query))), OriginMock
	}

	if putErr := h.cache.Put(ctx, key, &cache.Entry{Results: raw, FetchedAt: time.Now().UTC()}); putErr != nil {
		h.logger.Warn("cache write failed", map[string]interface{}{
			"source": source,
			"error":  putErr.Error(),
		})
	}

	return p.Normalize(groupCode, h.limit(raw)), OriginLive
}

// limit caps how many results a single source contributes. The cache
// keeps the full payload so a later request with a higher limit still
// hits.
func (h *Handler) limit(raw []json.RawMessage) []json.RawMessage {
	if h.config.MaxResults > 0 && len(raw) > h.config.MaxResults {
		return raw[:h.config.MaxResults]
	}
	return raw
}

func (h *Handler) fetchWithRetry(ctx context.Context, p providers.Provider, query providers.Query) ([]json.RawMessage, error) {
	source := string(p.Source())

	var lastErr error
	for attempt := 0; attempt <= h.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(h.config.RetryBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		fetchCtx, cancel := context.WithTimeout(ctx, h.config.FetchTimeout)
		start := time.Now()
		raw, err := p.Fetch(fetchCtx, query)
		cancel()

		if h.obs != nil {
			h.obs.RecordFetchDuration(ctx, source, time.Since(start))
		}

		if err == nil {
			if h.obs != nil {
				h.obs.RecordFetch(ctx, source, "ok")
			}
			return raw, nil
		}

		lastErr = err
		if h.obs != nil {
			h.obs.RecordFetch(ctx, source, "error")
		}

		var stdErr *stderrors.StandardError
		if errors.As(err, &stdErr) && !stdErr.Retryable {
			break
		}
	}

	return nil, lastErr
}

func fallbackReason(err error) string {
	var stdErr *stderrors.StandardError
	if errors.As(err, &stdErr) {
		return string(stdErr.Code)
	}
	return "unknown"
}
