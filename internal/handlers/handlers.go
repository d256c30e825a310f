// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP handlers of the site API: the blog
// and experience collections, property images, and the admin page.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"yolocollective/internal/jsonstore"
	"yolocollective/internal/middleware"
	"yolocollective/internal/upload"
)

const (
	// maxFormSize bounds a multipart request: one image plus form fields.
	maxFormSize = upload.MaxFileSize + 1<<20

	// formMemory is how much of a multipart form is held in memory before
	// file parts spill to temporary files.
	formMemory = 16 << 20

	// maxJSONSize bounds JSON and urlencoded request bodies (5 MiB).
	maxJSONSize = 5 << 20

	// imageField is the form field carrying an uploaded image.
	imageField = "image"
)

// User-facing messages for upload failures.
const (
	msgNoFile      = "No file uploaded"
	msgInvalidType = "Only image files (JPEG, PNG, WebP, GIF, SVG) are allowed."
	msgTooLarge    = "File too large. Maximum size is 10 MB."
	msgFileMissing = "File not found"
)

var (
	// errBodyTooLarge is returned when a request body exceeds its limit.
	errBodyTooLarge = errors.New("request body too large")

	// errMalformed is returned when a request body cannot be parsed.
	errMalformed = errors.New("malformed request body")

	// errInvalidBody is returned when the body field is not valid JSON.
	errInvalidBody = errors.New("body must be valid JSON")
)

// input holds the fields of a create or update request, whatever encoding
// the client used. Only fields present in the request are in values.
type input struct {
	values map[string]any
	file   *multipart.FileHeader
	form   *multipart.Form
}

// parseInput reads the request body as multipart form, urlencoded form or
// JSON, depending on its Content-Type. Requests without a recognised body
// yield an empty input. Callers must call close when done.
func parseInput(w http.ResponseWriter, r *http.Request) (*input, error) {
	in := &input{values: map[string]any{}}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
		if err := r.ParseMultipartForm(formMemory); err != nil {
			return nil, bodyError(err)
		}
		in.form = r.MultipartForm
		for key, vals := range r.MultipartForm.Value {
			if len(vals) > 0 {
				in.values[key] = vals[0]
			}
		}
		if files := r.MultipartForm.File[imageField]; len(files) > 0 {
			in.file = files[0]
		}

	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONSize)
		if err := r.ParseForm(); err != nil {
			return nil, bodyError(err)
		}
		for key, vals := range r.PostForm {
			if len(vals) > 0 {
				in.values[key] = vals[0]
			}
		}

	case "application/json":
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONSize)
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		var fields map[string]any
		if err := dec.Decode(&fields); err != nil && !errors.Is(err, io.EOF) {
			return nil, bodyError(err)
		}
		for key, v := range fields {
			in.values[key] = v
		}
	}

	return in, nil
}

// bodyError classifies a body parsing failure.
func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || errors.Is(err, multipart.ErrMessageTooLarge) {
		return errBodyTooLarge
	}
	return errors.Join(errMalformed, err)
}

// close removes temporary files left by multipart parsing.
func (in *input) close() {
	if in.form != nil {
		_ = in.form.RemoveAll()
	}
}

// has reports whether key was present in the request.
func (in *input) has(key string) bool {
	_, ok := in.values[key]
	return ok
}

// str returns the field as a string. Absent and null fields are "".
func (in *input) str(key string) string {
	switch v := in.values[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// text returns the field, or fallback when it is absent or empty.
func (in *input) text(key, fallback string) string {
	if s := in.str(key); s != "" {
		return s
	}
	return fallback
}

// flag returns the boolean reading of a field and whether it was present.
// Only the string "true" is true; "1", "yes", "TRUE" and a JSON true are
// false. Form posts and JSON bodies read the same.
func (in *input) flag(key string) (value, present bool) {
	v, ok := in.values[key]
	if !ok {
		return false, false
	}
	s, _ := v.(string)
	return s == "true", true
}

// rawJSON returns a structured field as JSON. A string is parsed as JSON
// text; any other value is stored as sent. Absent, null and empty values
// return nil.
func (in *input) rawJSON(key string) (json.RawMessage, error) {
	switch v := in.values[key].(type) {
	case nil:
		return nil, nil
	case string:
		if v == "" {
			return nil, nil
		}
		if !json.Valid([]byte(v)) {
			return nil, errInvalidBody
		}
		return json.RawMessage(v), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, errInvalidBody
		}
		return json.RawMessage(b), nil
	}
}

// recordID parses the {id} URL parameter.
func recordID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, false
	}
	return id, true
}

// saveImage stores the request's image into subdir, if it has one.
func saveImage(ctx context.Context, saver *upload.Saver, in *input, subdir string) (*upload.Stored, error) {
	if in.file == nil {
		return nil, nil
	}
	return saver.Save(ctx, in.file, subdir)
}

// discardImage removes an image stored for a request that then failed.
func discardImage(ctx context.Context, saver *upload.Saver, stored *upload.Stored, subdir string) {
	if stored == nil {
		return
	}
	if _, err := saver.Remove(ctx, subdir, stored.Filename); err != nil {
		slog.Warn("discard upload failed", "error", err, "filename", stored.Filename)
	}
}

// failure maps err to a status code and a message safe to show clients.
// notFound is the message used for missing records.
func failure(err error, notFound string) (int, string) {
	switch {
	case errors.Is(err, jsonstore.ErrNotFound):
		return http.StatusNotFound, notFound
	case errors.Is(err, upload.ErrNotFound):
		return http.StatusNotFound, msgFileMissing
	case errors.Is(err, upload.ErrNoFile):
		return http.StatusBadRequest, msgNoFile
	case errors.Is(err, upload.ErrInvalidType):
		return http.StatusBadRequest, msgInvalidType
	case errors.Is(err, upload.ErrTooLarge), errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge, msgTooLarge
	case errors.Is(err, errInvalidBody):
		return http.StatusBadRequest, "Invalid JSON in body field"
	case errors.Is(err, errMalformed):
		return http.StatusBadRequest, "Malformed request body"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

// writeFailure answers with the JSON error for err, logging server-side
// failures.
func writeFailure(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	status, msg := failure(err, notFound)
	if status == http.StatusInternalServerError {
		slog.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFromCtx(r.Context()),
		)
	}
	writeError(w, msg, status)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeJSON writes data as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
