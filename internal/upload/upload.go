// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package upload validates and stores image uploads under the images
// directory. A file is only written after its extension and declared MIME
// type have both been accepted.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// MaxFileSize is the largest accepted upload (10 MiB).
const MaxFileSize = 10 << 20

var (
	// ErrNoFile is returned when a request carries no file part.
	ErrNoFile = errors.New("no file uploaded")

	// ErrInvalidType is returned when the extension or the declared MIME
	// type is not an accepted image type.
	ErrInvalidType = errors.New("only image files (JPEG, PNG, WebP, GIF, SVG) are allowed")

	// ErrTooLarge is returned when an upload exceeds MaxFileSize.
	ErrTooLarge = errors.New("file too large")

	// ErrNotFound is returned when a file to remove does not exist.
	ErrNotFound = errors.New("file not found")
)

// allowedTypes maps each accepted extension to the MIME type a client must
// declare alongside it.
var allowedTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
}

// unsafeChars matches anything not allowed in a stored file name.
var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// Mirror receives a copy of every stored file. storage.Client satisfies it.
type Mirror interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
}

// Stored describes a file written by Saver.Save.
type Stored struct {
	Filename    string `json:"filename"`
	Path        string `json:"path"` // relative, slash-separated, rooted at the public prefix
	Size        int64  `json:"size"`
	ContentType string `json:"-"`
}

// Saver writes validated uploads below a root directory.
type Saver struct {
	root   string // disk location of the images directory
	prefix string // public path of the same directory, e.g. "assets/images"
	mirror Mirror
	now    func() time.Time
}

// NewSaver returns a Saver storing files below root and reporting paths
// below prefix. mirror may be nil.
func NewSaver(root, prefix string, mirror Mirror) *Saver {
	return &Saver{
		root:   root,
		prefix: strings.Trim(prefix, "/"),
		mirror: mirror,
		now:    time.Now,
	}
}

// Dir returns the disk directory for subdir ("" is the root itself).
func (s *Saver) Dir(subdir string) string {
	return filepath.Join(s.root, subdir)
}

// PublicPath returns the relative path clients use for filename in subdir.
func (s *Saver) PublicPath(subdir, filename string) string {
	return path.Join(s.prefix, subdir, filename)
}

// Validate checks the extension and declared content type of an upload
// and returns the accepted MIME type. Both checks must pass on their own:
// a spoofed MIME type does not rescue a bad extension and vice versa.
func Validate(filename, declaredType string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	want, ok := allowedTypes[ext]
	if !ok {
		return "", ErrInvalidType
	}

	mediaType, _, err := mime.ParseMediaType(declaredType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(declaredType))
	}
	if mediaType != want {
		return "", ErrInvalidType
	}
	return want, nil
}

// IsImage reports whether filename has an accepted image extension.
func IsImage(filename string) bool {
	_, ok := allowedTypes[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// SafeName turns a client file name into a stored file name: the base name
// restricted to [a-zA-Z0-9_-], then "-<unix millis>" and the lower-cased
// extension.
func SafeName(original string, now time.Time) string {
	base := path.Base(strings.ReplaceAll(original, `\`, "/"))
	ext := filepath.Ext(base)
	name := unsafeChars.ReplaceAllString(strings.TrimSuffix(base, ext), "_")
	return fmt.Sprintf("%s-%d%s", name, now.UnixMilli(), strings.ToLower(ext))
}

// Save validates the upload and writes it into subdir, creating the
// directory if needed. Nothing is written when validation fails, and a
// partially written file is removed.
func (s *Saver) Save(ctx context.Context, header *multipart.FileHeader, subdir string) (*Stored, error) {
	if header == nil {
		return nil, ErrNoFile
	}
	contentType, err := Validate(header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	if header.Size > MaxFileSize {
		return nil, ErrTooLarge
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dir := s.Dir(subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}

	filename := SafeName(header.Filename, s.now())
	dstPath := filepath.Join(dir, filename)
	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", filename, err)
	}

	n, err := io.Copy(dst, io.LimitReader(src, MaxFileSize+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > MaxFileSize {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(dstPath)
		if errors.Is(err, ErrTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("write %s: %w", filename, err)
	}

	stored := &Stored{
		Filename:    filename,
		Path:        s.PublicPath(subdir, filename),
		Size:        n,
		ContentType: contentType,
	}
	s.mirrorUpload(ctx, dstPath, stored)
	return stored, nil
}

// Remove deletes filename from subdir. Only the base name of filename is
// used, so "../x.png" resolves to "x.png" inside subdir.
func (s *Saver) Remove(ctx context.Context, subdir, filename string) (string, error) {
	name := filepath.Base(filepath.FromSlash(strings.ReplaceAll(filename, `\`, "/")))
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return "", ErrNotFound
	}

	target := filepath.Join(s.Dir(subdir), name)
	info, err := os.Stat(target)
	if err != nil || info.IsDir() {
		return "", ErrNotFound
	}
	if err := os.Remove(target); err != nil {
		return "", fmt.Errorf("remove %s: %w", name, err)
	}

	if s.mirror != nil {
		key := s.PublicPath(subdir, name)
		if err := s.mirror.Delete(ctx, key); err != nil {
			slog.Warn("mirror delete failed", "error", err, "key", key)
		}
	}
	return name, nil
}

// mirrorUpload copies a stored file to the mirror. Failures are logged and
// do not fail the upload.
func (s *Saver) mirrorUpload(ctx context.Context, diskPath string, stored *Stored) {
	if s.mirror == nil {
		return
	}
	f, err := os.Open(diskPath)
	if err != nil {
		slog.Warn("mirror upload skipped", "error", err, "key", stored.Path)
		return
	}
	defer f.Close()
	if err := s.mirror.Upload(ctx, stored.Path, stored.ContentType, f, stored.Size); err != nil {
		slog.Warn("mirror upload failed", "error", err, "key", stored.Path)
	}
}
