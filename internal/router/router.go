// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// site server. Read routes are public; mutation routes and the admin area
// sit behind the auth gate.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"yolocollective/internal/handlers"
	"yolocollective/internal/middleware"
)

// New creates and returns the configured Chi router. gate guards every
// mutation route and the admin area; any path the router does not claim
// is served from siteRoot.
func New(
	gate func(http.Handler) http.Handler,
	blogs *handlers.Blogs,
	experiences *handlers.Experiences,
	properties *handlers.Properties,
	admin *handlers.Admin,
	siteRoot string,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request. CleanPath comes first so
	// "//admin/" and "/a/../admin" route the same as "/admin".
	r.Use(chimw.CleanPath)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check, no auth.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.NotFound(apiNotFound)

		r.Route("/blogs", func(r chi.Router) {
			r.Get("/", blogs.List)
			r.Get("/{id}", blogs.Get)

			r.Group(func(r chi.Router) {
				r.Use(gate)
				r.Post("/", blogs.Create)
				r.Put("/{id}", blogs.Update)
				r.Delete("/{id}", blogs.Delete)
			})
		})

		r.Route("/experiences", func(r chi.Router) {
			r.Get("/", experiences.List)
			r.Get("/{id}", experiences.Get)

			r.Group(func(r chi.Router) {
				r.Use(gate)
				r.Post("/", experiences.Create)
				r.Put("/{id}", experiences.Update)
				r.Delete("/{id}", experiences.Delete)
			})
		})

		r.Route("/properties", func(r chi.Router) {
			r.Get("/", properties.List)

			r.Group(func(r chi.Router) {
				r.Use(gate)
				r.Post("/{property}/images", properties.Upload)
				r.Delete("/{property}/images/{filename}", properties.Delete)
			})
		})
	})

	static := staticFiles(siteRoot)

	// Admin area, including its static assets.
	r.Group(func(r chi.Router) {
		r.Use(gate)
		r.Get("/admin", admin.Page)
		r.Get("/admin/upload", admin.UploadRedirect)
		r.Handle("/admin/*", static)
		r.Post("/upload", admin.LegacyUpload)
	})

	// Everything else is a static file. Paths that only resolve into the
	// admin area after decoding still go through the gate.
	gatedStatic := gate(static)
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		if isAdminPath(req.URL.Path) {
			gatedStatic.ServeHTTP(w, req)
			return
		}
		static.ServeHTTP(w, req)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// apiNotFound answers unknown API paths with a JSON error.
func apiNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(map[string]string{"error": "Not found"})
}
