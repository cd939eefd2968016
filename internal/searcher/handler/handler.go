// Package handler exposes the search engine over HTTP: the static front end,
// the /query JSON endpoint and cache administration.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/andsearch/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/andsearch/internal/searcher/cache"
	apperrors "github.com/Adithya-Monish-Kumar-K/andsearch/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/andsearch/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/andsearch/pkg/metrics"
)

// Searcher is satisfied by *indexer.Engine.
type Searcher interface {
	Search(query string) []string
	QueryTerms(query string) []string
	DocCount() int
}

// Tracker is satisfied by *analytics.Collector.
type Tracker interface {
	Track(event interface{})
}

type Options struct {
	MaxMatches   int
	PreviewTerms int
	StaticFile   string
}

type Handler struct {
	engine    Searcher
	cache     *cache.QueryCache
	collector Tracker
	metrics   *metrics.Metrics
	opts      Options
	logger    *slog.Logger
}

// New builds a Handler. cache, collector and m may be nil.
func New(engine Searcher, queryCache *cache.QueryCache, collector Tracker, m *metrics.Metrics, opts Options) *Handler {
	return &Handler{
		engine:    engine,
		cache:     queryCache,
		collector: collector,
		metrics:   m,
		opts:      opts,
		logger:    logger.WithComponent("search-handler"),
	}
}

// Routes registers every endpoint on mux and returns the registered paths.
func (h *Handler) Routes(mux *http.ServeMux) []string {
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /query", h.Query)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	return []string{"/", "/query", "/api/v1/cache/stats", "/api/v1/cache/invalidate"}
}

// Item is one formatted search match.
type Item struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// QueryResponse is the body of GET /query.
type QueryResponse struct {
	Items []Item `json:"items"`
}

// Index serves the static front end.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	html, err := os.ReadFile(h.opts.StaticFile)
	if err != nil {
		h.logger.Error("reading front end", "path", h.opts.StaticFile, "error", err)
		h.writeError(w, apperrors.Newf(apperrors.ErrDocumentNotFound, http.StatusNotFound, "front end unavailable"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(html)
}

// Query answers GET /query?s=<query> with at most MaxMatches items.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("s")
	if strings.TrimSpace(query) == "" {
		h.observe(metrics.ResultEmptyQuery, "none", 0, start)
		h.writeJSON(w, http.StatusOK, QueryResponse{Items: []Item{}})
		return
	}

	terms := h.engine.QueryTerms(query)
	result, cacheHit, err := h.lookup(ctx, query, terms)
	if err != nil {
		log.Error("search failed", "query", query, "error", err)
		h.observe(metrics.ResultError, "none", 0, start)
		h.writeError(w, err)
		return
	}

	items := make([]Item, 0, len(result.Documents))
	for _, doc := range result.Documents {
		items = append(items, h.format(doc))
	}

	resultType := metrics.ResultMatch
	eventType := analytics.EventSearch
	if result.Total == 0 {
		resultType = metrics.ResultZero
		eventType = analytics.EventZeroResult
	}
	cacheStatus := "disabled"
	if h.cache != nil {
		cacheStatus = "miss"
		if cacheHit {
			cacheStatus = "hit"
		}
	}
	h.observe(resultType, cacheStatus, result.Total, start)

	latency := time.Since(start)
	log.Info("search completed",
		"query", query,
		"total_hits", result.Total,
		"returned", len(items),
		"cache_hit", cacheHit,
		"latency", latency,
	)
	if h.collector != nil {
		h.collector.Track(analytics.SearchEvent{
			Type:      eventType,
			Query:     query,
			Terms:     terms,
			TotalHits: result.Total,
			Returned:  len(items),
			LatencyMs: latency.Milliseconds(),
			CacheHit:  cacheHit,
			Timestamp: time.Now().UTC(),
			RequestID: logger.RequestID(ctx),
		})
	}

	h.writeJSON(w, http.StatusOK, QueryResponse{Items: items})
}

func (h *Handler) lookup(ctx context.Context, query string, terms []string) (*cache.Result, bool, error) {
	compute := func() (*cache.Result, error) {
		matches := h.engine.Search(query)
		limit := min(len(matches), h.opts.MaxMatches)
		return &cache.Result{Total: len(matches), Documents: matches[:limit]}, nil
	}
	if h.cache == nil {
		result, err := compute()
		return result, false, err
	}
	key := cache.Key{Terms: terms, DocCount: h.engine.DocCount(), Limit: h.opts.MaxMatches}
	result, hit, err := h.cache.GetOrCompute(ctx, key, compute)
	if err != nil {
		return nil, false, err
	}
	if h.metrics != nil {
		if hit {
			h.metrics.CacheHitsTotal.Inc()
		} else {
			h.metrics.CacheMissesTotal.Inc()
		}
	}
	return result, hit, nil
}

func (h *Handler) format(doc string) Item {
	return Format(doc, h.opts.PreviewTerms)
}

// Format splits a document into its first line and a preview of the rest. A
// document without a newline is all title.
func Format(doc string, previewTerms int) Item {
	title, body, _ := strings.Cut(doc, "\n")
	return Item{
		Title: strings.TrimSuffix(title, "\r"),
		Body:  Preview(body, previewTerms),
	}
}

// Preview returns text unchanged when it has at most maxTerms
// whitespace-separated terms; otherwise the first maxTerms joined by single
// spaces followed by "...".
func Preview(text string, maxTerms int) string {
	terms := strings.Fields(text)
	if len(terms) > maxTerms {
		return strings.Join(terms[:maxTerms], " ") + "..."
	}
	return text
}

func (h *Handler) observe(resultType, cacheStatus string, total int, start time.Time) {
	if h.metrics == nil {
		return
	}
	h.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	h.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(time.Since(start).Seconds())
	h.metrics.SearchResultsCount.Observe(float64(total))
}

func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}

	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, apperrors.New(apperrors.ErrUnavailable, http.StatusServiceUnavailable, "caching is disabled"))
		return
	}

	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatusCode(err)
	message := http.StatusText(status)
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		message = appErr.Message
	}
	h.writeJSON(w, status, map[string]string{"error": message})
}
