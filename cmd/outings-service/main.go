// cmd/outings-service/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"planpal/internal/cache"
	"planpal/internal/common/config"
	"planpal/internal/common/database"
	httpclient "planpal/internal/common/http"
	"planpal/internal/common/logger"
	"planpal/internal/common/observability"
	"planpal/internal/models"
	"planpal/internal/providers"
	"planpal/internal/providers/experiences"
	"planpal/internal/providers/movies"
	"planpal/internal/providers/places"
	"planpal/internal/store"

	hq "planpal/internal/workers/bot/handle-query"
	fs "planpal/internal/workers/suggestions/fetch-suggestions"
	rs "planpal/internal/workers/suggestions/rank-suggestions"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting outings service...")

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Suggestion store: Postgres when configured, in-memory otherwise ---
	var suggestionStore store.Store = store.NewMemoryStore()
	if cfg.Database.Postgres.Configured() {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Warn("postgres unavailable, falling back to in-memory store", zap.Error(err))
		} else {
			defer pg.Close()
			suggestionStore = store.NewPostgresStore(pg)
			zapLog.Info("PostgreSQL connected successfully")
		}
	} else {
		zapLog.Info("no postgres configured, using in-memory store")
	}

	// --- Result cache: Redis when configured, in-process otherwise ---
	cacheTTL := config.GetDuration(cfg.Suggestions.CacheTTL)
	var resultCache cache.Cache = cache.NewMemoryCache(cacheTTL)
	if cfg.Database.Redis.Configured() {
		var rdb *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Warn("redis unavailable, falling back to in-process cache", zap.Error(err))
		} else {
			defer rdb.Close()
			resultCache = cache.NewRedisCache(rdb.Client, cacheTTL)
			zapLog.Info("Redis connected successfully")
		}
	} else {
		zapLog.Info("no redis configured, using in-process cache")
	}

	// --- Providers ---
	fetchTimeout := config.GetDuration(cfg.Suggestions.FetchTimeout)
	provs := []providers.Provider{
		places.New(cfg.Providers.Places, httpclient.NewClient(fetchTimeout)),
		movies.New(cfg.Providers.Movies, httpclient.NewClient(fetchTimeout)),
		experiences.New(),
	}
	for _, p := range provs {
		if !p.Configured() {
			zapLog.Info("provider has no API key, will serve mock data",
				zap.String("source", string(p.Source())))
		}
	}

	// --- Handlers ---
	fetchHandler := fs.NewHandler(fs.FromAppConfig(cfg), provs, resultCache, suggestionStore, obs, log)
	rankHandler := rs.NewHandler(rs.FromAppConfig(cfg), log)
	botHandler := hq.NewHandler(hq.FromAppConfig(cfg), suggestionStore, rankHandler, log)

	srv := newServer(cfg, suggestionStore, fetchHandler, rankHandler, botHandler, log)

	httpSrv := &http.Server{
		Addr:    cfg.App.ListenAddr,
		Handler: srv.routes(),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", cfg.App.ListenAddr))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("Shutdown complete")
}

type server struct {
	cfg    *config.Config
	store  store.Store
	fetch  *fs.Handler
	rank   *rs.Handler
	bot    *hq.Handler
	logger logger.Logger
}

func newServer(cfg *config.Config, s store.Store, fetch *fs.Handler, rank *rs.Handler, bot *hq.Handler, log logger.Logger) *server {
	return &server{
		cfg:    cfg,
		store:  s,
		fetch:  fetch,
		rank:   rank,
		bot:    bot,
		logger: log,
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /group/{code}/suggestions", s.handleFetch)
	mux.HandleFunc("GET /group/{code}/suggestions", s.handleList)
	mux.HandleFunc("POST /group/{code}/rank", s.handleRank)
	mux.HandleFunc("DELETE /group/{code}/suggestions", s.handleDelete)
	mux.HandleFunc("POST /bot/query", s.handleBotQuery)
	mux.HandleFunc("GET /group/{code}/share", s.handleShareLink)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /debug/pprof/", pprof.Index)
	mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)

	return mux
}

type fetchRequest struct {
	Group   models.GroupContext     `json:"group"`
	Sources []models.SourceCategory `json:"sources,omitempty"`
	Term    string                  `json:"term,omitempty"`
}

func (s *server) handleFetch(w http.ResponseWriter, r *http.Request) {
	var req fetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Group.GroupCode = r.PathValue("code")

	out, err := s.fetch.Execute(r.Context(), &fs.Input{
		Group:   req.Group,
		Sources: req.Sources,
		Term:    req.Term,
	})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *server) handleRank(w http.ResponseWriter, r *http.Request) {
	var group models.GroupContext
	if err := json.NewDecoder(r.Body).Decode(&group); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	group.GroupCode = r.PathValue("code")

	suggestions, err := s.store.ListByGroup(r.Context(), group.GroupCode)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out, err := s.rank.Execute(r.Context(), &rs.Input{
		Group:       group,
		Suggestions: suggestions,
	})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *server) handleList(w http.ResponseWriter, r *http.Request) {
	suggestions, err := s.store.ListByGroup(r.Context(), r.PathValue("code"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"suggestions": suggestions})
}

func (s *server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteGroup(r.Context(), r.PathValue("code")); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type botRequest struct {
	Group   models.GroupContext `json:"group"`
	Message string              `json:"message"`
}

func (s *server) handleBotQuery(w http.ResponseWriter, r *http.Request) {
	var req botRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	out, err := s.bot.Execute(r.Context(), &hq.Input{
		Group:   req.Group,
		Message: req.Message,
	})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *server) handleShareLink(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	s.writeJSON(w, http.StatusOK, map[string]string{
		"groupCode": code,
		"shareLink": s.cfg.Frontend.ShareLink(code),
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
