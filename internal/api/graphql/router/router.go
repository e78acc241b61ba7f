package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dtroode/roleauth/internal/api/graphql/handler"
	"github.com/dtroode/roleauth/internal/api/graphql/middleware"
	"github.com/dtroode/roleauth/internal/logger"
	"github.com/dtroode/roleauth/internal/model"
	"github.com/graph-gophers/graphql-go/relay"
)

const healthTimeout = 2 * time.Second

const (
	graphqlPath = "/graphql"
	healthPath  = "/healthz"
	metricsPath = "/metrics"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Metrics observes requests and exposes collected series.
type Metrics interface {
	middleware.Observer
	Handler() http.Handler
}

// Router represents the HTTP router for the auth API.
// It wires the GraphQL endpoint, health and metrics routes and the middleware chain.
type Router struct {
	authService    handler.AuthService
	tokenService   middleware.TokenService
	store          Pinger
	metrics        Metrics
	contextManager model.ContextManager
	allowedOrigin  string
	logger         *logger.Logger
}

// New creates new Router instance.
func New(
	authService handler.AuthService,
	tokenService middleware.TokenService,
	store Pinger,
	metrics Metrics,
	contextManager model.ContextManager,
	allowedOrigin string,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		tokenService:   tokenService,
		store:          store,
		metrics:        metrics,
		contextManager: contextManager,
		allowedOrigin:  allowedOrigin,
		logger:         logger,
	}
}

// Register builds the routes and wraps them with middleware.
//
// Order, outermost first: CORS, metrics, logging. Token resolution applies
// to the GraphQL endpoint only.
func (r *Router) Register() http.Handler {
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)
	logging := middleware.NewLogging(r.logger)
	metrics := middleware.NewMetrics(r.metrics, graphqlPath, healthPath, metricsPath)
	cors := middleware.NewCORS(r.allowedOrigin)

	schema := handler.NewSchema(handler.NewResolver(r.authService, r.contextManager, r.logger))

	mux := http.NewServeMux()
	mux.Handle("POST "+graphqlPath, authenticate.Handle(&relay.Handler{Schema: schema}))
	mux.HandleFunc("GET "+healthPath, r.health)
	mux.Handle("GET "+metricsPath, r.metrics.Handler())

	return cors.Handle(metrics.Handle(logging.Handle(mux)))
}

func (r *Router) health(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), healthTimeout)
	defer cancel()

	status, code := "ok", http.StatusOK
	if err := r.store.Ping(ctx); err != nil {
		r.logger.LogError("Health check: store unreachable", err)
		status, code = "unavailable", http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}
