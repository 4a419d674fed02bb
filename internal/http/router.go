package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/authgate/authgate/internal/service"
	"github.com/authgate/authgate/internal/store"
	"github.com/authgate/authgate/pkg/httpx"
	"github.com/authgate/authgate/pkg/jwtx"
	"github.com/authgate/authgate/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     *jwtx.HS256Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	AuthService *service.AuthService
}

func NewRouter(
	verifier *jwtx.HS256Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	r.Mux.Handle("POST /v1/auth/register", http.HandlerFunc(h.HandleRegister))
	r.Mux.Handle("POST /v1/auth/login", http.HandlerFunc(h.HandleLogin))
}

func (r *Router) registerUsers() {
	guard := &Guard{Verifier: r.verifier, Auth: r.AuthService}
	h := &UsersHandler{AuthService: r.AuthService}

	// Every directory read sits behind the guard; a request without a
	// verifiable token never reaches the handler.
	r.Mux.Handle("GET /v1/users",
		httpx.Chain(http.HandlerFunc(h.HandleList), guard.Middleware()))
	r.Mux.Handle("GET /v1/users/{email}",
		httpx.Chain(http.HandlerFunc(h.HandleGet), guard.Middleware()))
	r.Mux.Handle("DELETE /v1/users/{email}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete), guard.Middleware()))
	r.Mux.Handle("GET /v1/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe), guard.Middleware()))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
