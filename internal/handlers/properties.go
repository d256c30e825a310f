// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"yolocollective/internal/imageinfo"
	"yolocollective/internal/models"
	"yolocollective/internal/upload"
)

// Properties serves the per-property image directories.
type Properties struct {
	uploads *upload.Saver
}

// NewProperties creates the property image handlers.
func NewProperties(uploads *upload.Saver) *Properties {
	return &Properties{uploads: uploads}
}

// List returns the images of every property, keyed by property name. A
// property whose directory does not exist has an empty list.
func (h *Properties) List(w http.ResponseWriter, r *http.Request) {
	result := make(map[string][]models.PropertyImage, len(models.Properties))
	for _, p := range models.Properties {
		result[string(p)] = h.images(p)
	}
	writeJSON(w, http.StatusOK, result)
}

// images lists the image files of one property in filename order. Width
// and height are included when the image header can be decoded.
func (h *Properties) images(p models.Property) []models.PropertyImage {
	images := []models.PropertyImage{}

	dir := h.uploads.Dir(p.Dir())
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("list property images failed", "error", err, "property", p)
		}
		return images
	}

	for _, e := range entries {
		if e.IsDir() || !upload.IsImage(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		img := models.PropertyImage{
			Filename: e.Name(),
			Path:     h.uploads.PublicPath(p.Dir(), e.Name()),
			Size:     info.Size(),
		}
		if size, err := imageinfo.DecodeFile(filepath.Join(dir, e.Name())); err == nil {
			img.Width, img.Height = size.Width, size.Height
		}
		images = append(images, img)
	}
	return images
}

// Upload stores the image field in the property's directory.
func (h *Properties) Upload(w http.ResponseWriter, r *http.Request) {
	p, ok := models.ParseProperty(chi.URLParam(r, "property"))
	if !ok {
		writeError(w, "Invalid property. Options: "+models.PropertyNames(), http.StatusNotFound)
		return
	}

	in, err := parseInput(w, r)
	if err != nil {
		writeFailure(w, r, err, msgFileMissing)
		return
	}
	defer in.close()

	if in.file == nil {
		writeError(w, msgNoFile, http.StatusBadRequest)
		return
	}

	stored, err := h.uploads.Save(r.Context(), in.file, p.Dir())
	if err != nil {
		writeFailure(w, r, err, msgFileMissing)
		return
	}

	slog.Info("property image uploaded", "property", p, "filename", stored.Filename, "size", stored.Size)
	writeJSON(w, http.StatusCreated, map[string]string{
		"message":  "Image uploaded",
		"filename": stored.Filename,
		"path":     stored.Path,
	})
}

// Delete removes one image from the property's directory. Only the base
// name of the filename parameter is used.
func (h *Properties) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := models.ParseProperty(chi.URLParam(r, "property"))
	if !ok {
		writeError(w, "Invalid property", http.StatusNotFound)
		return
	}

	filename := chi.URLParam(r, "filename")
	if unescaped, err := url.PathUnescape(filename); err == nil {
		filename = unescaped
	}

	removed, err := h.uploads.Remove(r.Context(), p.Dir(), filename)
	if err != nil {
		writeFailure(w, r, err, msgFileMissing)
		return
	}

	slog.Info("property image deleted", "property", p, "filename", removed)
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Image deleted",
		"filename": removed,
	})
}
