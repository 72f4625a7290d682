package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/alextreichler/meatpoint/internal/auth"
	"github.com/alextreichler/meatpoint/internal/models"
	"github.com/alextreichler/meatpoint/internal/service"
	"github.com/alextreichler/meatpoint/internal/store"
	"github.com/alextreichler/meatpoint/web"
)

const (
	adminEmail    = "admin@meatpoint.local"
	adminPassword = "admin123"
	staffEmail    = "staff@meatpoint.local"
)

type testApp struct {
	store   *store.Store
	issuer  *auth.Issuer
	handler http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()

	st, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(ctx))

	hash, err := auth.HashPassword(adminPassword, bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, st.UpsertUser(ctx, &models.User{
		ID: uuid.NewString(), Email: adminEmail, Password: hash, Role: models.RoleAdmin, CreatedAt: time.Now().UTC(),
	}))
	require.NoError(t, st.UpsertUser(ctx, &models.User{
		ID: uuid.NewString(), Email: staffEmail, Password: hash, Role: models.Role("STAFF"), CreatedAt: time.Now().UTC(),
	}))

	issuer := auth.NewIssuer([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	catalog := service.NewCatalogService(st)
	bookings := service.NewBookingService(st)
	authService := auth.NewService(st, issuer)

	templates := NewTemplateCache()
	require.NoError(t, templates.Load(web.Templates()))
	sessionStore := sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	// the test server speaks plain HTTP, same as main with COOKIE_SECURE unset
	sessionStore.Options.Secure = false
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	router := NewRouter(RouterConfig{
		API: &APIHandler{Store: st, Catalog: catalog, Bookings: bookings, Auth: authService, Issuer: issuer},
		Home: &HomeHandler{
			Catalog: catalog, Bookings: bookings, Templates: templates, SessionStore: sessionStore,
		},
		Admin: &AdminHandler{
			Store: st, Catalog: catalog, Bookings: bookings, Auth: authService, Issuer: issuer,
			SessionStore: sessionStore, Templates: templates,
		},
		Static:  web.Static(),
		CSRFKey: []byte("abcdef0123456789abcdef0123456789"),
	})

	return &testApp{store: st, issuer: issuer, handler: router}
}

// do sends a JSON request, optionally carrying the given session cookie.
func (a *testApp) do(t *testing.T, method, path string, body any, session *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if session != nil {
		req.AddCookie(session)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) login(t *testing.T) *http.Cookie {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": adminEmail, "password": adminPassword}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func (a *testApp) createItem(t *testing.T, session *http.Cookie, body map[string]any) models.Item {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/items", body, session)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out struct {
		Item models.Item `json:"item"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.Item
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			FormErrors  []string            `json:"formErrors"`
			FieldErrors map[string][]string `json:"fieldErrors"`
		} `json:"details"`
	} `json:"error"`
}

func validBooking(itemID string) map[string]any {
	return map[string]any{
		"itemId":       itemID,
		"qty":          2,
		"customerName": "Ravi",
		"phone":        "9876543210",
		"fulfillment":  "PICKUP",
	}
}
