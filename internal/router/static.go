// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package router

import (
	"net/http"
	"path"
	"strings"
)

// staticFiles serves files below root for GET and HEAD requests. Paths
// with a dot-prefixed segment (".env", ".git/config") are not served, and
// paths that are not in canonical form are redirected to it.
func staticFiles(root string) http.Handler {
	files := http.FileServer(http.Dir(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}
		if clean := cleanPath(r.URL.Path); clean != r.URL.Path {
			if r.URL.RawQuery != "" {
				clean += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, clean, http.StatusMovedPermanently)
			return
		}
		if hasDotSegment(r.URL.Path) {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// hasDotSegment reports whether any segment of p starts with a dot.
func hasDotSegment(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

// cleanPath returns the canonical form of p, keeping a trailing slash.
func cleanPath(p string) string {
	clean := path.Clean("/" + p)
	if strings.HasSuffix(p, "/") && clean != "/" {
		clean += "/"
	}
	return clean
}

// isAdminPath reports whether p resolves into the admin area.
func isAdminPath(p string) bool {
	clean := path.Clean("/" + p)
	return clean == "/admin" || strings.HasPrefix(clean, "/admin/")
}
