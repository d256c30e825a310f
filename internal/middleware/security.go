// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.


package middleware

import (
	"net/http"
	"strings"
)

// responseHeaders are set on every response. There is no
// Content-Security-Policy: the public pages load inline scripts and
// third-party fonts.
var responseHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "SAMEORIGIN"},
	{"X-XSS-Protection", "0"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"X-Permitted-Cross-Domain-Policies", "none"},
	{"Cross-Origin-Opener-Policy", "same-origin"},
	{"Cross-Origin-Resource-Policy", "same-origin"},
	{"Strict-Transport-Security", "max-age=15552000; includeSubDomains"},
}

// SecureHeaders sets the hardening headers. API responses and the admin
// area are also marked no-store, since both change with every edit and
// the admin area is served only to authenticated users.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for _, kv := range responseHeaders {
			h.Set(kv[0], kv[1])
		}
		if noStore(r.URL.Path) {
			h.Set("Cache-Control", "no-store")
		}
		next.ServeHTTP(w, r)
	})
}

func noStore(p string) bool {
	return strings.HasPrefix(p, "/api/") || p == "/admin" || strings.HasPrefix(p, "/admin/") || p == "/upload"
}
