package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/alextreichler/meatpoint/internal/models"
)

const CookieName = "meatpoint_session"

var ErrInvalidToken = errors.New("invalid session token")

type Claims struct {
	Role  models.Role `json:"role"`
	Email string      `json:"email"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies session tokens. Nothing is kept server side.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	secure bool
	domain string
	now    func() time.Time
}

type IssuerOption func(*Issuer)

func WithCookieSecure(secure bool) IssuerOption {
	return func(i *Issuer) { i.secure = secure }
}

func WithCookieDomain(domain string) IssuerOption {
	return func(i *Issuer) { i.domain = domain }
}

func NewIssuer(secret []byte, ttl time.Duration, opts ...IssuerOption) *Issuer {
	i := &Issuer{secret: secret, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Issuer) Issue(user *models.User) (string, error) {
	now := i.now()
	claims := Claims{
		Role:  user.Role,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

func (i *Issuer) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SetCookie stores the token in the session cookie.
func (i *Issuer) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Domain:   i.domain,
		MaxAge:   int(i.ttl.Seconds()),
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (i *Issuer) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Domain:   i.domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest reads the session token from the cookie, or from a bearer
// Authorization header for non-browser clients.
func (i *Issuer) FromRequest(r *http.Request) (*Claims, error) {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return i.Parse(c.Value)
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return i.Parse(strings.TrimPrefix(h, "Bearer "))
	}
	return nil, ErrInvalidToken
}

// IsAdmin is the single capability check behind every admin-gated operation.
func (i *Issuer) IsAdmin(r *http.Request) (*Claims, bool) {
	claims, err := i.FromRequest(r)
	if err != nil || claims.Role != models.RoleAdmin {
		return nil, false
	}
	return claims, true
}
