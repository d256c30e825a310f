// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"yolocollective/internal/models"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestProperties_ListEmpty(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(httptest.NewRequest(http.MethodGet, "/api/properties", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}

	got := decode[map[string][]models.PropertyImage](t, rr)
	for _, p := range models.Properties {
		images, ok := got[string(p)]
		if !ok {
			t.Errorf("missing key %q", p)
		}
		if len(images) != 0 {
			t.Errorf("%s: got %d images, want 0", p, len(images))
		}
	}
	if !strings.Contains(rr.Body.String(), `"manali":[]`) {
		t.Errorf("missing directories should list as [], got %s", rr.Body.String())
	}
}

func TestProperties_List(t *testing.T) {
	env := newTestEnv(t)

	writeFile(t, filepath.Join(env.imagesDir, "manali", "b.png"), pngBytes(t, 8, 6))
	writeFile(t, filepath.Join(env.imagesDir, "manali", "a.SVG"), []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`))
	writeFile(t, filepath.Join(env.imagesDir, "manali", "notes.txt"), []byte("skip"))
	writeFile(t, filepath.Join(env.imagesDir, "logo.png"), pngBytes(t, 2, 2))

	rr := env.do(httptest.NewRequest(http.MethodGet, "/api/properties", nil))
	got := decode[map[string][]models.PropertyImage](t, rr)

	manali := got["manali"]
	if len(manali) != 2 {
		t.Fatalf("manali: got %+v", manali)
	}
	if manali[0].Filename != "a.SVG" || manali[1].Filename != "b.png" {
		t.Errorf("entries should be sorted by filename: %+v", manali)
	}
	if manali[1].Path != "assets/images/manali/b.png" {
		t.Errorf("path: got %q", manali[1].Path)
	}
	if manali[1].Width != 8 || manali[1].Height != 6 {
		t.Errorf("dimensions: got %dx%d", manali[1].Width, manali[1].Height)
	}
	if manali[0].Width != 0 || manali[0].Size == 0 {
		t.Errorf("svg entry: got %+v", manali[0])
	}

	general := got["general"]
	if len(general) != 1 || general[0].Path != "assets/images/logo.png" {
		t.Errorf("general should list root files only, got %+v", general)
	}
	if len(got["kasol"]) != 0 {
		t.Errorf("kasol: got %+v", got["kasol"])
	}
}

func TestProperties_Upload(t *testing.T) {
	env := newTestEnv(t)

	req := multipartRequest(t, http.MethodPost, "/api/properties/kasol/images", nil,
		&testFile{name: "river view.jpg", contentType: "image/jpeg", data: []byte("jpeg-ish")})
	rr := env.do(req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d (%s)", rr.Code, rr.Body.String())
	}

	resp := decode[map[string]string](t, rr)
	if resp["message"] != "Image uploaded" {
		t.Errorf("message: got %q", resp["message"])
	}
	if !strings.HasPrefix(resp["filename"], "river_view-") || !strings.HasSuffix(resp["filename"], ".jpg") {
		t.Errorf("filename: got %q", resp["filename"])
	}
	if resp["path"] != "assets/images/kasol/"+resp["filename"] {
		t.Errorf("path: got %q", resp["path"])
	}
	if _, err := os.Stat(filepath.Join(env.imagesDir, "kasol", resp["filename"])); err != nil {
		t.Errorf("file not stored: %v", err)
	}
}

func TestProperties_UploadGeneralGoesToRoot(t *testing.T) {
	env := newTestEnv(t)

	req := multipartRequest(t, http.MethodPost, "/api/properties/general/images", nil,
		&testFile{name: "map.gif", contentType: "image/gif", data: []byte("GIF89a")})
	rr := env.do(req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d (%s)", rr.Code, rr.Body.String())
	}
	resp := decode[map[string]string](t, rr)
	if resp["path"] != "assets/images/"+resp["filename"] {
		t.Errorf("path: got %q", resp["path"])
	}
}

func TestProperties_UploadErrors(t *testing.T) {
	env := newTestEnv(t)

	t.Run("unknown property", func(t *testing.T) {
		req := multipartRequest(t, http.MethodPost, "/api/properties/goa/images", nil,
			&testFile{name: "a.png", contentType: "image/png", data: []byte("x")})
		rr := env.do(req)
		expectError(t, rr, http.StatusNotFound, "Invalid property. Options: manali, kasol, jispa, general")
		if names := dirEntries(t, env.imagesDir); len(names) != 0 {
			t.Errorf("nothing should be written, got %v", names)
		}
	})

	t.Run("no file", func(t *testing.T) {
		req := multipartRequest(t, http.MethodPost, "/api/properties/jispa/images", map[string]string{"x": "y"}, nil)
		expectError(t, env.do(req), http.StatusBadRequest, "No file uploaded")
	})

	t.Run("bad type", func(t *testing.T) {
		req := multipartRequest(t, http.MethodPost, "/api/properties/jispa/images", nil,
			&testFile{name: "run.sh", contentType: "image/png", data: []byte("#!")})
		expectError(t, env.do(req), http.StatusBadRequest, msgInvalidType)
	})

	t.Run("too large", func(t *testing.T) {
		big := make([]byte, 10<<20+1)
		req := multipartRequest(t, http.MethodPost, "/api/properties/jispa/images", nil,
			&testFile{name: "huge.png", contentType: "image/png", data: big})
		expectError(t, env.do(req), http.StatusRequestEntityTooLarge, msgTooLarge)
		if names := dirEntries(t, filepath.Join(env.imagesDir, "jispa")); len(names) != 0 {
			t.Errorf("nothing should be written, got %v", names)
		}
	})
}

func TestProperties_Delete(t *testing.T) {
	env := newTestEnv(t)
	writeFile(t, filepath.Join(env.imagesDir, "manali", "old.png"), []byte("x"))

	rr := env.do(httptest.NewRequest(http.MethodDelete, "/api/properties/manali/images/old.png", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d (%s)", rr.Code, rr.Body.String())
	}
	resp := decode[map[string]string](t, rr)
	if resp["message"] != "Image deleted" || resp["filename"] != "old.png" {
		t.Errorf("got %v", resp)
	}
	if _, err := os.Stat(filepath.Join(env.imagesDir, "manali", "old.png")); !os.IsNotExist(err) {
		t.Error("file should be gone")
	}

	rr = env.do(httptest.NewRequest(http.MethodDelete, "/api/properties/manali/images/old.png", nil))
	expectError(t, rr, http.StatusNotFound, "File not found")
}

func TestProperties_DeleteTraversal(t *testing.T) {
	env := newTestEnv(t)
	secret := filepath.Join(env.imagesDir, "secret.png")
	writeFile(t, secret, []byte("keep"))
	writeFile(t, filepath.Join(env.root, "data", "blogs.json"), []byte("[]"))

	for _, target := range []string{
		"/api/properties/manali/images/..%2Fsecret.png",
		"/api/properties/manali/images/..%2F..%2F..%2Fdata%2Fblogs.json",
	} {
		rr := env.do(httptest.NewRequest(http.MethodDelete, target, nil))
		expectError(t, rr, http.StatusNotFound, "File not found")
	}

	if _, err := os.Stat(secret); err != nil {
		t.Errorf("file outside the property dir was touched: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.root, "data", "blogs.json")); err != nil {
		t.Errorf("data file was touched: %v", err)
	}
}

func TestProperties_DeleteUnknownProperty(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(httptest.NewRequest(http.MethodDelete, "/api/properties/goa/images/a.png", nil))
	expectError(t, rr, http.StatusNotFound, "Invalid property")
}
