// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"yolocollective/internal/jsonstore"
	"yolocollective/internal/models"
	"yolocollective/internal/upload"
)

const experienceNotFound = "Experience not found"

// Experiences serves the experience collection.
type Experiences struct {
	store   *jsonstore.Collection[models.Experience]
	uploads *upload.Saver
}

// NewExperiences creates the experience handlers.
func NewExperiences(store *jsonstore.Collection[models.Experience], uploads *upload.Saver) *Experiences {
	return &Experiences{store: store, uploads: uploads}
}

// List returns every experience.
func (h *Experiences) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.List())
}

// Get returns one experience.
func (h *Experiences) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(r)
	if !ok {
		writeError(w, experienceNotFound, http.StatusNotFound)
		return
	}
	exp, err := h.store.Get(id)
	if err != nil {
		writeFailure(w, r, err, experienceNotFound)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

// Create adds an experience. filterTag falls back to the category and
// link to "#".
func (h *Experiences) Create(w http.ResponseWriter, r *http.Request) {
	in, err := parseInput(w, r)
	if err != nil {
		writeFailure(w, r, err, experienceNotFound)
		return
	}
	defer in.close()

	stored, err := saveImage(r.Context(), h.uploads, in, "")
	if err != nil {
		writeFailure(w, r, err, experienceNotFound)
		return
	}
	image := in.text("image", "")
	if stored != nil {
		image = stored.Path
	}

	featured, _ := in.flag("featured")
	wide, _ := in.flag("wide")
	category := in.text("category", "")

	exp, err := h.store.Create(func(id int) models.Experience {
		return models.Experience{
			ID:        id,
			Category:  category,
			FilterTag: in.text("filterTag", category),
			Badge:     in.text("badge", ""),
			Meta:      in.text("meta", ""),
			Title:     in.text("title", ""),
			Excerpt:   in.text("excerpt", ""),
			Image:     image,
			Link:      in.text("link", models.DefaultLink),
			Featured:  featured,
			Wide:      wide,
		}
	})
	if err != nil {
		discardImage(r.Context(), h.uploads, stored, "")
		writeFailure(w, r, err, experienceNotFound)
		return
	}

	writeJSON(w, http.StatusCreated, exp)
}

// Update merges the supplied fields over an existing experience. Empty
// text fields keep the stored value; booleans change only when supplied.
func (h *Experiences) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(r)
	if !ok {
		writeError(w, experienceNotFound, http.StatusNotFound)
		return
	}

	in, err := parseInput(w, r)
	if err != nil {
		writeFailure(w, r, err, experienceNotFound)
		return
	}
	defer in.close()

	if _, err := h.store.Get(id); err != nil {
		writeFailure(w, r, err, experienceNotFound)
		return
	}

	stored, err := saveImage(r.Context(), h.uploads, in, "")
	if err != nil {
		writeFailure(w, r, err, experienceNotFound)
		return
	}

	exp, err := h.store.Update(id, func(e models.Experience) models.Experience {
		e.Category = in.text("category", e.Category)
		e.FilterTag = in.text("filterTag", e.FilterTag)
		e.Badge = in.text("badge", e.Badge)
		e.Meta = in.text("meta", e.Meta)
		e.Title = in.text("title", e.Title)
		e.Excerpt = in.text("excerpt", e.Excerpt)
		if stored != nil {
			e.Image = stored.Path
		} else {
			e.Image = in.text("image", e.Image)
		}
		e.Link = in.text("link", e.Link)
		if featured, ok := in.flag("featured"); ok {
			e.Featured = featured
		}
		if wide, ok := in.flag("wide"); ok {
			e.Wide = wide
		}
		return e
	})
	if err != nil {
		discardImage(r.Context(), h.uploads, stored, "")
		writeFailure(w, r, err, experienceNotFound)
		return
	}

	writeJSON(w, http.StatusOK, exp)
}

// Delete removes an experience and returns it.
func (h *Experiences) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(r)
	if !ok {
		writeError(w, experienceNotFound, http.StatusNotFound)
		return
	}
	exp, err := h.store.Delete(id)
	if err != nil {
		writeFailure(w, r, err, experienceNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Experience deleted",
		"experience": exp,
	})
}
