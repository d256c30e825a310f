// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"time"

	"yolocollective/internal/jsonstore"
	"yolocollective/internal/models"
	"yolocollective/internal/upload"
)

const (
	blogNotFound = "Blog not found"

	// blogDateLayout formats the default display date, e.g. "March 4, 2026".
	blogDateLayout = "January 2, 2006"

	defaultReadTime = "5 min read"
)

// Blogs serves the blog collection.
type Blogs struct {
	store   *jsonstore.Collection[models.Blog]
	uploads *upload.Saver
	now     func() time.Time
}

// NewBlogs creates the blog handlers. Blog images are stored in the root
// of the images directory.
func NewBlogs(store *jsonstore.Collection[models.Blog], uploads *upload.Saver) *Blogs {
	return &Blogs{store: store, uploads: uploads, now: time.Now}
}

// List returns every blog.
func (h *Blogs) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.List())
}

// Get returns one blog.
func (h *Blogs) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(r)
	if !ok {
		writeError(w, blogNotFound, http.StatusNotFound)
		return
	}
	blog, err := h.store.Get(id)
	if err != nil {
		writeFailure(w, r, err, blogNotFound)
		return
	}
	writeJSON(w, http.StatusOK, blog)
}

// Create adds a blog. Absent fields take their defaults and the image
// field, if uploaded, becomes the blog image.
func (h *Blogs) Create(w http.ResponseWriter, r *http.Request) {
	in, err := parseInput(w, r)
	if err != nil {
		writeFailure(w, r, err, blogNotFound)
		return
	}
	defer in.close()

	body, err := in.rawJSON("body")
	if err != nil {
		writeFailure(w, r, err, blogNotFound)
		return
	}
	if body == nil {
		body = models.EmptyBody
	}

	stored, err := saveImage(r.Context(), h.uploads, in, "")
	if err != nil {
		writeFailure(w, r, err, blogNotFound)
		return
	}
	image := in.text("image", "")
	if stored != nil {
		image = stored.Path
	}

	featured, _ := in.flag("featured")
	blog, err := h.store.Create(func(id int) models.Blog {
		return models.Blog{
			ID:       id,
			Featured: featured,
			Category: in.text("category", ""),
			Tag:      in.text("tag", ""),
			Date:     in.text("date", h.now().Format(blogDateLayout)),
			ReadTime: in.text("readTime", defaultReadTime),
			Title:    in.text("title", ""),
			Excerpt:  in.text("excerpt", ""),
			Image:    image,
			ImageAlt: in.text("imageAlt", ""),
			URL:      in.text("url", ""),
			Body:     body,
		}
	})
	if err != nil {
		discardImage(r.Context(), h.uploads, stored, "")
		writeFailure(w, r, err, blogNotFound)
		return
	}

	writeJSON(w, http.StatusCreated, blog)
}

// Update merges the supplied fields over an existing blog. Empty text
// fields keep the stored value, except imageAlt and url which are
// overwritten whenever present. Booleans change only when supplied.
func (h *Blogs) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(r)
	if !ok {
		writeError(w, blogNotFound, http.StatusNotFound)
		return
	}

	in, err := parseInput(w, r)
	if err != nil {
		writeFailure(w, r, err, blogNotFound)
		return
	}
	defer in.close()

	body, err := in.rawJSON("body")
	if err != nil {
		writeFailure(w, r, err, blogNotFound)
		return
	}

	if _, err := h.store.Get(id); err != nil {
		writeFailure(w, r, err, blogNotFound)
		return
	}

	stored, err := saveImage(r.Context(), h.uploads, in, "")
	if err != nil {
		writeFailure(w, r, err, blogNotFound)
		return
	}

	blog, err := h.store.Update(id, func(b models.Blog) models.Blog {
		if featured, ok := in.flag("featured"); ok {
			b.Featured = featured
		}
		b.Category = in.text("category", b.Category)
		b.Tag = in.text("tag", b.Tag)
		b.Date = in.text("date", b.Date)
		b.ReadTime = in.text("readTime", b.ReadTime)
		b.Title = in.text("title", b.Title)
		b.Excerpt = in.text("excerpt", b.Excerpt)
		if stored != nil {
			b.Image = stored.Path
		} else {
			b.Image = in.text("image", b.Image)
		}
		if in.has("imageAlt") {
			b.ImageAlt = in.str("imageAlt")
		}
		if in.has("url") {
			b.URL = in.str("url")
		}
		if body != nil {
			b.Body = body
		}
		return b
	})
	if err != nil {
		discardImage(r.Context(), h.uploads, stored, "")
		writeFailure(w, r, err, blogNotFound)
		return
	}

	writeJSON(w, http.StatusOK, blog)
}

// Delete removes a blog and returns it.
func (h *Blogs) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(r)
	if !ok {
		writeError(w, blogNotFound, http.StatusNotFound)
		return
	}
	blog, err := h.store.Delete(id)
	if err != nil {
		writeFailure(w, r, err, blogNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Blog deleted",
		"blog":    blog,
	})
}
