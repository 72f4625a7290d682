package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/alextreichler/meatpoint/internal/auth"
)

const defaultCallback = "/admin"

type loginRequest struct {
	auth.Credentials
	CallbackURL string `json:"callbackUrl"`
}

func (h *APIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAPIError(w, http.StatusUnauthorized, CodeInvalidCredentials, "Invalid credentials", nil)
		return
	}

	token, user, err := h.Auth.Login(r.Context(), req.Credentials)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeAPIError(w, http.StatusUnauthorized, CodeInvalidCredentials, "Invalid credentials", nil)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.Issuer.SetCookie(w, token)
	slog.Info("Login successful", "user_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "url": safeCallback(req.CallbackURL)})
}

func (h *APIHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Issuer.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// safeCallback only lets local absolute paths through so the login redirect
// cannot be pointed at another host.
func safeCallback(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.ContainsAny(raw, "\\\r\n") {
		return defaultCallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return defaultCallback
	}
	return raw
}
