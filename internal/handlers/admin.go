// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"html"
	"net/http"
	"path/filepath"

	"yolocollective/internal/upload"
)

// Admin serves the admin page and the legacy upload form target.
type Admin struct {
	page    string
	uploads *upload.Saver
}

// NewAdmin creates the admin handlers. The admin page is read from
// admin/index.html below siteRoot on every request.
func NewAdmin(siteRoot string, uploads *upload.Saver) *Admin {
	return &Admin{
		page:    filepath.Join(siteRoot, "admin", "index.html"),
		uploads: uploads,
	}
}

// Page serves the admin page.
func (a *Admin) Page(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, a.page)
}

// UploadRedirect sends the old upload page to the admin page.
func (a *Admin) UploadRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/admin", http.StatusFound)
}

// LegacyUpload stores the image field in the root images directory and
// answers with a short HTML confirmation.
func (a *Admin) LegacyUpload(w http.ResponseWriter, r *http.Request) {
	in, err := parseInput(w, r)
	if err != nil {
		status, msg := failure(err, msgFileMissing)
		http.Error(w, msg, status)
		return
	}
	defer in.close()

	if in.file == nil {
		http.Error(w, msgNoFile+".", http.StatusBadRequest)
		return
	}

	stored, err := a.uploads.Save(r.Context(), in.file, "")
	if err != nil {
		status, msg := failure(err, msgFileMissing)
		if status == http.StatusInternalServerError {
			writeFailure(w, r, err, msgFileMissing)
			return
		}
		http.Error(w, msg, status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `File uploaded: %s. <a href="/admin">Back to Admin</a>`, html.EscapeString(stored.Filename))
}
