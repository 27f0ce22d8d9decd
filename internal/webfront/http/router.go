package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/veriport/webfront/internal/webfront/cart"
	"github.com/veriport/webfront/internal/webfront/guard"
	"github.com/veriport/webfront/internal/webfront/mail"
	"github.com/veriport/webfront/internal/webfront/session"
	"github.com/veriport/webfront/pkg/backendapi"
	"github.com/veriport/webfront/pkg/httpx"
	"github.com/veriport/webfront/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	cookies      session.Store
	api          *backendapi.Client
	carts        *cart.Store
	mailer       *mail.Mailer
	guard        *guard.Guard
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
}

// NewRouter wires the handler dependencies.
func NewRouter(
	cookies session.Store,
	api *backendapi.Client,
	carts *cart.Store,
	mailer *mail.Mailer,
	buildVersion string,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		cookies:      cookies,
		api:          api,
		carts:        carts,
		mailer:       mailer,
		guard:        guard.New(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// ApplyRoutes registers every route on the mux.
func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerCatalog()
	r.registerCart()
	r.registerOrders()
	r.registerSystem()
	r.registerPages()
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		Cookies: r.cookies,
		API:     r.api,
		Carts:   r.carts,
		Mailer:  r.mailer,
	}

	// Credential endpoints carry strict limits keyed by IP plus the
	// submitted email to slow down credential stuffing.
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)
	r.Mux.Handle("POST /api/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)

	r.Mux.Handle("POST /api/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /api/auth/refresh-token",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /api/auth/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerCatalog() {
	h := &CatalogHandler{API: r.api}

	r.Mux.Handle("GET /api/services",
		httpx.Chain(http.HandlerFunc(h.HandleServices),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /api/services/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleService),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /api/packages",
		httpx.Chain(http.HandlerFunc(h.HandlePackages),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerCart() {
	h := &CartHandler{Cookies: r.cookies, Carts: r.carts}

	limited := func(handler http.HandlerFunc) http.Handler {
		return httpx.Chain(handler, httpx.RateLimitByIP(httpx.LenientLimit))
	}

	r.Mux.Handle("GET /api/cart", limited(h.HandleGet))
	r.Mux.Handle("POST /api/cart/items", limited(h.HandleAddItem))
	r.Mux.Handle("PATCH /api/cart/items/{id}", limited(h.HandleUpdateItem))
	r.Mux.Handle("DELETE /api/cart/items/{id}", limited(h.HandleRemoveItem))
}

func (r *Router) registerOrders() {
	h := &OrdersHandler{
		Cookies: r.cookies,
		API:     r.api,
		Carts:   r.carts,
		Mailer:  r.mailer,
	}

	r.Mux.Handle("POST /api/checkout",
		httpx.Chain(http.HandlerFunc(h.HandleCheckout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /api/orders",
		httpx.Chain(http.HandlerFunc(h.HandleListOrders),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /api/orders/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleOrder),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	uploads := &UploadsHandler{Cookies: r.cookies, API: r.api}
	r.Mux.Handle("POST /api/background-check/{id}/documents",
		httpx.Chain(http.HandlerFunc(uploads.HandleUploadDocument),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.api),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerPages() {
	// Every remaining GET is a page navigation: the guard decides, then the
	// app shell renders. The markup itself lives in the browser bundle.
	// Unregistered /api paths must not fall through to the shell.
	pages := httpx.Chain(PageHandler(r.buildVersion), r.guard.Middleware(r.cookies))
	r.Mux.Handle("GET /", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if strings.HasPrefix(req.URL.Path, "/api/") {
			httpx.WriteJSON(w, http.StatusNotFound, map[string]string{
				"message": "Not found",
				"error":   "not_found",
			})
			return
		}
		pages.ServeHTTP(w, req)
	}))
}
