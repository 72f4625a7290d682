package handlers

import (
	"io/fs"
	"net/http"

	"github.com/gorilla/csrf"

	"github.com/alextreichler/meatpoint/internal/obs"
)

type RouterConfig struct {
	API    *APIHandler
	Home   *HomeHandler
	Admin  *AdminHandler
	Static fs.FS

	CSRFKey        []byte
	CookieSecure   bool
	TrustedOrigins []string
}

// NewRouter mounts the JSON API under /api and the server-rendered pages on
// everything else. Only the pages are CSRF protected; the API relies on its
// SameSite=Lax session cookie and JSON bodies.
func NewRouter(cfg RouterConfig) http.Handler {
	api := cfg.API
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /api/items", api.ListItems)
	apiMux.HandleFunc("POST /api/items", RequireAdmin(api.Issuer, api.CreateItem))
	apiMux.HandleFunc("PATCH /api/items/{id}", RequireAdmin(api.Issuer, api.UpdateItem))
	apiMux.HandleFunc("DELETE /api/items/{id}", RequireAdmin(api.Issuer, api.DeleteItem))
	apiMux.HandleFunc("POST /api/bookings", api.CreateBooking)
	apiMux.HandleFunc("GET /api/bookings", RequireAdmin(api.Issuer, api.ListBookings))
	apiMux.HandleFunc("GET /api/admin/items", RequireAdmin(api.Issuer, api.ListAllItems))
	apiMux.HandleFunc("POST /api/auth/login", api.Login)
	apiMux.HandleFunc("POST /api/auth/logout", api.Logout)
	apiMux.HandleFunc("/api/", api.NotFound)

	home, admin := cfg.Home, cfg.Admin
	uiMux := http.NewServeMux()
	uiMux.HandleFunc("GET /{$}", home.Index)
	uiMux.HandleFunc("POST /book", home.SubmitBooking)

	uiMux.HandleFunc("GET /admin/login", admin.LoginGet)
	uiMux.HandleFunc("POST /admin/login", admin.LoginPost)
	uiMux.HandleFunc("POST /admin/logout", admin.Logout)

	uiMux.HandleFunc("GET /admin", admin.AuthMiddleware(admin.Dashboard))
	uiMux.HandleFunc("POST /admin/items", admin.AuthMiddleware(admin.CreateItem))
	uiMux.HandleFunc("POST /admin/items/{id}/update", admin.AuthMiddleware(admin.UpdateItem))
	uiMux.HandleFunc("POST /admin/items/{id}/toggle", admin.AuthMiddleware(admin.ToggleItem))
	uiMux.HandleFunc("POST /admin/items/{id}/delete", admin.AuthMiddleware(admin.DeleteItem))

	opts := []csrf.Option{
		csrf.Secure(cfg.CookieSecure),
		csrf.Path("/"),
	}
	if len(cfg.TrustedOrigins) > 0 {
		opts = append(opts, csrf.TrustedOrigins(cfg.TrustedOrigins))
	}
	protect := csrf.Protect(cfg.CSRFKey, opts...)
	ui := protect(uiMux)
	if !cfg.CookieSecure {
		// gorilla/csrf assumes HTTPS and checks the Referer unless told otherwise.
		inner := ui
		ui = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inner.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}

	root := http.NewServeMux()
	root.Handle("/api/", apiMux)
	root.HandleFunc("GET /healthz", api.Health)
	root.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(cfg.Static)))
	root.Handle("/", ui)

	// Chain: Tracing -> Recover -> Logger -> Security Headers -> Mux
	return obs.TracingMiddleware(
		RecoverMiddleware(
			LoggingMiddleware(
				SecurityHeadersMiddleware(root),
			),
		),
	)
}
