package session

import (
	"net/http"
	"time"
)

const (
	// secureCookieName carries the __Host- prefix, which browsers only accept
	// over HTTPS with Path=/ and no Domain attribute.
	secureCookieName  = "__Host-session"
	defaultCookieName = "session"
)

// CookieOptions defines how session cookies are issued.
type CookieOptions struct {
	Path     string
	HttpOnly bool
	Secure   bool
	SameSite http.SameSite
}

// CookieName returns the cookie name matching the options: the __Host-
// prefixed name when Secure, the plain name for local development over HTTP.
func (o CookieOptions) CookieName() string {
	if o.Secure {
		return secureCookieName
	}
	return defaultCookieName
}

// normalize applies safe defaults without breaking callers.
func (o CookieOptions) normalize() CookieOptions {
	if o.Path == "" {
		o.Path = "/" // required for __Host-
	}
	if o.SameSite == 0 {
		o.SameSite = http.SameSiteLaxMode
	}
	o.HttpOnly = true
	return o
}

// SetCookie issues the session cookie to the client.
func SetCookie(w http.ResponseWriter, sessionID string, expiresAt time.Time, opts CookieOptions) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     opts.CookieName(),
		Value:    sessionID,
		Path:     opts.Path,
		Expires:  expiresAt,
		HttpOnly: opts.HttpOnly,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// ClearCookie removes the session cookie from the client.
func ClearCookie(w http.ResponseWriter, opts CookieOptions) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     opts.CookieName(),
		Value:    "",
		Path:     opts.Path,
		MaxAge:   -1,
		HttpOnly: opts.HttpOnly,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// ReadCookie extracts the session ID from the request, or "" when absent.
func ReadCookie(r *http.Request, opts CookieOptions) string {
	c, err := r.Cookie(opts.normalize().CookieName())
	if err != nil {
		return ""
	}
	return c.Value
}
