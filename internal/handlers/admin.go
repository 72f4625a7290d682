package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/alextreichler/meatpoint/internal/auth"
	"github.com/alextreichler/meatpoint/internal/service"
	"github.com/alextreichler/meatpoint/internal/store"
)

const adminSession = "admin-session"

type AdminHandler struct {
	Store        *store.Store
	Catalog      *service.CatalogService
	Bookings     *service.BookingService
	Auth         *auth.Service
	Issuer       *auth.Issuer
	SessionStore sessions.Store
	Templates    *TemplateCache
}

func (h *AdminHandler) LoginGet(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.Issuer.IsAdmin(r); ok {
		http.Redirect(w, r, safeCallback(r.URL.Query().Get("callbackUrl")), http.StatusSeeOther)
		return
	}
	session, _ := h.SessionStore.Get(r, adminSession)
	data := map[string]any{
		"CsrfField":   csrf.TemplateField(r),
		"Flashes":     GetFlash(session),
		"CallbackURL": safeCallback(r.URL.Query().Get("callbackUrl")),
	}
	session.Save(r, w)
	h.Templates.Render(w, "login.html", data)
}

func (h *AdminHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, adminSession)
	callback := safeCallback(r.PostFormValue("callbackUrl"))

	creds := auth.Credentials{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	token, user, err := h.Auth.Login(r.Context(), creds)
	if err != nil {
		msg := "Invalid credentials"
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Error("Login failed", "error", err)
			msg = "Something went wrong. Please try again."
		}
		session.AddFlash(FlashMessage{Type: "error", Message: msg})
		session.Save(r, w)
		http.Redirect(w, r, "/admin/login?callbackUrl="+url.QueryEscape(callback), http.StatusSeeOther)
		return
	}

	h.Issuer.SetCookie(w, token)
	session.AddFlash(FlashMessage{Type: "success", Message: "Welcome, " + user.Email + "!"})
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
	}

	slog.Info("Login successful", "user_id", user.ID, "redirect", callback)
	http.Redirect(w, r, callback, http.StatusSeeOther)
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Issuer.ClearCookie(w)
	session, _ := h.SessionStore.Get(r, adminSession)
	session.AddFlash(FlashMessage{Type: "success", Message: "Logged out successfully!"})
	session.Save(r, w)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// AuthMiddleware sends anyone without an admin session to the login page,
// remembering where they were headed.
func (h *AdminHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := h.Issuer.IsAdmin(r)
		if !ok {
			slog.Debug("AuthMiddleware: not an admin, redirecting to login", "path", r.URL.Path)
			target := r.URL.Path
			if r.Method != http.MethodGet {
				target = "/admin"
			}
			http.Redirect(w, r, "/admin/login?callbackUrl="+url.QueryEscape(target), http.StatusSeeOther)
			return
		}
		slog.Debug("AuthMiddleware: admin authenticated", "user_id", claims.Subject, "path", r.URL.Path)
		next(w, r)
	}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.Store.GetDashboardStats(ctx)
	if err != nil {
		slog.Error("Failed to load stats", "error", err)
		http.Error(w, "Error fetching stats", http.StatusInternalServerError)
		return
	}
	items, err := h.Catalog.AllItems(ctx)
	if err != nil {
		slog.Error("Failed to list items", "error", err)
		http.Error(w, "Error fetching items", http.StatusInternalServerError)
		return
	}
	bookings, err := h.Bookings.Recent(ctx)
	if err != nil {
		slog.Error("Failed to list bookings", "error", err)
		http.Error(w, "Error fetching bookings", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, adminSession)
	data := map[string]any{
		"Stats":     stats,
		"Items":     items,
		"Bookings":  bookings,
		"Flashes":   GetFlash(session),
		"CsrfField": csrf.TemplateField(r),
	}
	session.Save(r, w) // clears flashes
	h.Templates.Render(w, "admin.html", data)
}

// flash stores a message for the next admin page and redirects to the dashboard.
func (h *AdminHandler) flash(w http.ResponseWriter, r *http.Request, kind, msg string) {
	session, _ := h.SessionStore.Get(r, adminSession)
	session.AddFlash(FlashMessage{Type: kind, Message: msg})
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
