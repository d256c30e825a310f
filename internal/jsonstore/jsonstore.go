// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package jsonstore persists record collections as whole JSON files.
// Every read goes back to disk and every mutation rewrites the full file;
// there is no in-memory index shared between requests.
package jsonstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned when no record has the requested identifier.
var ErrNotFound = errors.New("record not found")

// Record is anything stored in a collection under an integer identifier.
type Record interface {
	RecordID() int
}

// Read parses the JSON array stored at path. A missing file, an unreadable
// file and malformed JSON all yield an empty collection; callers cannot
// tell them apart. Elements that do not decode as T are skipped with a
// warning; the rest of the collection is kept.
func Read[T any](path string) []T {
	data, err := os.ReadFile(path)
	if err != nil {
		return []T{}
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return []T{}
	}
	records := make([]T, 0, len(elems))
	for i, elem := range elems {
		var rec T
		if err := json.Unmarshal(elem, &rec); err != nil {
			slog.Warn("skipping undecodable record", "file", filepath.Base(path), "index", i, "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records
}

// Write replaces the file at path with records encoded as an indented JSON
// array. The data is written to a temporary file in the same directory and
// renamed over the target, so readers see either the old or the new
// collection.
func Write[T any](path string, records []T) error {
	if records == nil {
		records = []T{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		cleanup()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// NextID returns 1 for an empty collection, otherwise one more than the
// largest identifier present. It scans the snapshot it is given on every
// call; nothing is cached.
func NextID[T Record](records []T) int {
	next := 1
	for _, r := range records {
		if id := r.RecordID(); id >= next {
			next = id + 1
		}
	}
	return next
}

// Collection is a named JSON file of records. Mutations within one process
// are serialised so that two requests cannot interleave their
// read-modify-write cycles or allocate the same identifier. Writers in
// other processes are not coordinated.
type Collection[T Record] struct {
	path string
	mu   sync.Mutex
}

// NewCollection returns a collection backed by the file at path. The file
// does not need to exist yet.
func NewCollection[T Record](path string) *Collection[T] {
	return &Collection[T]{path: path}
}

// Path returns the backing file of the collection.
func (c *Collection[T]) Path() string {
	return c.path
}

// List returns every record in file order.
func (c *Collection[T]) List() []T {
	return Read[T](c.path)
}

// Get returns the record with the given identifier.
func (c *Collection[T]) Get(id int) (T, error) {
	for _, r := range Read[T](c.path) {
		if r.RecordID() == id {
			return r, nil
		}
	}
	var zero T
	return zero, ErrNotFound
}

// Create allocates the next identifier, builds the record with it, appends
// the record and persists the collection.
func (c *Collection[T]) Create(build func(id int) T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := Read[T](c.path)
	rec := build(NextID(records))
	records = append(records, rec)

	if err := Write(c.path, records); err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

// Update replaces the record with the given identifier by apply(existing)
// and persists the collection. apply must keep the identifier.
func (c *Collection[T]) Update(id int, apply func(existing T) T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	records := Read[T](c.path)
	idx := indexOf(records, id)
	if idx < 0 {
		return zero, ErrNotFound
	}

	updated := apply(records[idx])
	if updated.RecordID() != id {
		return zero, fmt.Errorf("update changed record id %d to %d", id, updated.RecordID())
	}
	records[idx] = updated

	if err := Write(c.path, records); err != nil {
		return zero, err
	}
	return updated, nil
}

// Delete removes the record with the given identifier, persists the
// remaining collection and returns the removed record.
func (c *Collection[T]) Delete(id int) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	records := Read[T](c.path)
	idx := indexOf(records, id)
	if idx < 0 {
		return zero, ErrNotFound
	}

	removed := records[idx]
	records = append(records[:idx], records[idx+1:]...)

	if err := Write(c.path, records); err != nil {
		return zero, err
	}
	return removed, nil
}

func indexOf[T Record](records []T, id int) int {
	for i, r := range records {
		if r.RecordID() == id {
			return i
		}
	}
	return -1
}
