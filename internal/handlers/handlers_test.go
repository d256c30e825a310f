// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"yolocollective/internal/jsonstore"
	"yolocollective/internal/models"
	"yolocollective/internal/upload"
)

// testEnv is a site root in a temp dir with the API routes mounted
// without the auth gate.
type testEnv struct {
	root      string
	dataDir   string
	imagesDir string

	blogs       *Blogs
	experiences *Experiences
	properties  *Properties
	admin       *Admin

	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	root := t.TempDir()
	env := &testEnv{
		root:      root,
		dataDir:   filepath.Join(root, "data"),
		imagesDir: filepath.Join(root, "assets", "images"),
	}

	saver := upload.NewSaver(env.imagesDir, "assets/images", nil)
	env.blogs = NewBlogs(jsonstore.NewCollection[models.Blog](filepath.Join(env.dataDir, "blogs.json")), saver)
	env.blogs.now = func() time.Time { return time.Date(2026, time.March, 4, 10, 0, 0, 0, time.UTC) }
	env.experiences = NewExperiences(jsonstore.NewCollection[models.Experience](filepath.Join(env.dataDir, "experiences.json")), saver)
	env.properties = NewProperties(saver)
	env.admin = NewAdmin(root, saver)

	r := chi.NewRouter()
	r.Get("/api/blogs", env.blogs.List)
	r.Get("/api/blogs/{id}", env.blogs.Get)
	r.Post("/api/blogs", env.blogs.Create)
	r.Put("/api/blogs/{id}", env.blogs.Update)
	r.Delete("/api/blogs/{id}", env.blogs.Delete)
	r.Get("/api/experiences", env.experiences.List)
	r.Get("/api/experiences/{id}", env.experiences.Get)
	r.Post("/api/experiences", env.experiences.Create)
	r.Put("/api/experiences/{id}", env.experiences.Update)
	r.Delete("/api/experiences/{id}", env.experiences.Delete)
	r.Get("/api/properties", env.properties.List)
	r.Post("/api/properties/{property}/images", env.properties.Upload)
	r.Delete("/api/properties/{property}/images/{filename}", env.properties.Delete)
	r.Get("/admin", env.admin.Page)
	r.Get("/admin/upload", env.admin.UploadRedirect)
	r.Post("/upload", env.admin.LegacyUpload)
	env.handler = r

	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

// testFile is a file part of a multipart request.
type testFile struct {
	name        string
	contentType string
	data        []byte
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, file *testFile) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="`+file.name+`"`)
		h.Set("Content-Type", file.contentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		part.Write(file.data)
	}
	mw.Close()

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// pngBytes encodes a blank w x h PNG.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return v
}

func expectError(t *testing.T, rr *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("status: got %d, want %d (body %q)", rr.Code, status, rr.Body.String())
	}
	body := decode[map[string]string](t, rr)
	if body["error"] != msg {
		t.Errorf("error: got %q, want %q", body["error"], msg)
	}
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestParseInput_Urlencoded(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("title=Hello&featured=true&imageAlt="))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	in, err := parseInput(httptest.NewRecorder(), req)
	if err != nil {
		t.Fatal(err)
	}
	defer in.close()

	if got := in.str("title"); got != "Hello" {
		t.Errorf("title: got %q", got)
	}
	if v, ok := in.flag("featured"); !v || !ok {
		t.Errorf("featured: got (%v, %v)", v, ok)
	}
	if !in.has("imageAlt") || in.str("imageAlt") != "" {
		t.Error("empty imageAlt should be present")
	}
	if in.has("category") {
		t.Error("category should be absent")
	}
}

func TestParseInput_NoBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/", nil)
	in, err := parseInput(httptest.NewRecorder(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(in.values) != 0 || in.file != nil {
		t.Errorf("expected empty input, got %+v", in)
	}
}

func TestInputFlag(t *testing.T) {
	in := &input{values: map[string]any{
		"yes":    "yes",
		"upper":  "TRUE",
		"one":    "1",
		"false":  "false",
		"true":   "true",
		"jsonTr": true,
	}}

	tests := []struct {
		key     string
		value   bool
		present bool
	}{
		{"yes", false, true},
		{"upper", false, true},
		{"one", false, true},
		{"false", false, true},
		{"true", true, true},
		{"jsonTr", false, true},
		{"missing", false, false},
	}
	for _, tt := range tests {
		v, ok := in.flag(tt.key)
		if v != tt.value || ok != tt.present {
			t.Errorf("flag(%q) = (%v, %v), want (%v, %v)", tt.key, v, ok, tt.value, tt.present)
		}
	}
}

func TestInputRawJSON(t *testing.T) {
	in := &input{values: map[string]any{
		"text":    `[{"type":"p","text":"hi"}]`,
		"bad":     "not json",
		"empty":   "",
		"decoded": []any{map[string]any{"type": "h2"}},
	}}

	if got, err := in.rawJSON("text"); err != nil || string(got) != `[{"type":"p","text":"hi"}]` {
		t.Errorf("text: got (%s, %v)", got, err)
	}
	if _, err := in.rawJSON("bad"); err != errInvalidBody {
		t.Errorf("bad: got %v, want errInvalidBody", err)
	}
	if got, err := in.rawJSON("empty"); got != nil || err != nil {
		t.Errorf("empty: got (%s, %v)", got, err)
	}
	if got, err := in.rawJSON("missing"); got != nil || err != nil {
		t.Errorf("missing: got (%s, %v)", got, err)
	}
	if got, err := in.rawJSON("decoded"); err != nil || string(got) != `[{"type":"h2"}]` {
		t.Errorf("decoded: got (%s, %v)", got, err)
	}
}

func TestJSONBodyTooLarge(t *testing.T) {
	env := newTestEnv(t)

	big := strings.Repeat("a", maxJSONSize+1)
	rr := env.do(jsonRequest(t, http.MethodPost, "/api/blogs", map[string]string{"title": big}))

	expectError(t, rr, http.StatusRequestEntityTooLarge, msgTooLarge)
	if got := env.blogs.store.List(); len(got) != 0 {
		t.Errorf("nothing should be stored, got %d blogs", len(got))
	}
}

func TestMalformedJSONBody(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/experiences", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rr := env.do(req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}
