// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// Credentials is the single static admin credential checked by BasicAuth.
type Credentials struct {
	user     []byte
	password []byte
	hash     []byte // bcrypt hash; when set, password is ignored
}

// NewCredentials builds the admin credential. A non-empty passwordHash must
// be a bcrypt hash and takes precedence over password.
func NewCredentials(user, password, passwordHash string) (*Credentials, error) {
	c := &Credentials{user: []byte(user), password: []byte(password)}
	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("admin password hash: %w", err)
		}
		c.hash = []byte(passwordHash)
	}
	return c, nil
}

// Match reports whether user and password are the admin credential. Both
// halves are always compared so the timing does not reveal which failed.
func (c *Credentials) Match(user, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), c.user) == 1

	var passOK bool
	if c.hash != nil {
		passOK = bcrypt.CompareHashAndPassword(c.hash, []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), c.password) == 1
	}
	return userOK && passOK
}

// BasicAuth challenges every request with HTTP Basic authentication. There
// is no session: each request carries and re-proves the credential. Wrong
// credentials are recorded in limiter (which may be nil) against the client
// address resolved by proxies; a client that reaches the limit is refused
// with 429 until its window passes. A successful login clears its record.
func BasicAuth(realm string, creds *Credentials, limiter *RateLimiter, proxies *TrustedProxies) func(http.Handler) http.Handler {
	challenge := fmt.Sprintf("Basic realm=%q, charset=\"UTF-8\"", realm)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := proxies.ClientIP(r)
			if limiter != nil && limiter.Blocked(ip) {
				writeError(w, r, "Too many failed login attempts. Try again later.", http.StatusTooManyRequests)
				return
			}

			user, password, ok := r.BasicAuth()
			if ok && creds.Match(user, password) {
				if limiter != nil {
					limiter.Reset(ip)
				}
				next.ServeHTTP(w, r)
				return
			}

			if ok {
				slog.Warn("admin authentication failed",
					"remote", ip,
					"path", r.URL.Path,
					"request_id", RequestIDFromCtx(r.Context()),
				)
				if limiter != nil {
					limiter.Record(ip)
				}
			}

			w.Header().Set("WWW-Authenticate", challenge)
			writeError(w, r, "Unauthorized", http.StatusUnauthorized)
		})
	}
}
