// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.


package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
)

// Recoverer turns a panic in a handler into a 500. http.ErrAbortHandler
// is re-raised so the server can drop the connection.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			slog.Error("handler panic",
				"panic", rec,
				"method", r.Method,
				"path", r.URL.Path,
				"route", routePattern(r),
				"request_id", RequestIDFromCtx(r.Context()),
				"stack", string(debug.Stack()),
			)
			writeError(w, r, "Internal Server Error", http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}

// writeError answers API paths with {"error": msg} and everything else
// with plain text.
func writeError(w http.ResponseWriter, r *http.Request, msg string, status int) {
	if !strings.HasPrefix(r.URL.Path, "/api/") {
		http.Error(w, msg, status)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
