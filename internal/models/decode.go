// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.


package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// fields holds one stored record keyed by JSON name. Collections are
// hand-edited, so values are coerced to the field type instead of
// rejecting the record.
type fields map[string]json.RawMessage

func decodeFields(data []byte) (fields, error) {
	var f fields
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f, nil
}

// str returns a string value. Numbers and booleans keep their literal
// text, null and missing keys give "", objects and arrays their raw JSON.
func (f fields) str(key string) string {
	raw := bytes.TrimSpace(f[key])
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

// flag accepts true and "true".
func (f fields) flag(key string) bool {
	raw := bytes.TrimSpace(f[key])
	switch string(raw) {
	case "true", `"true"`:
		return true
	}
	return false
}

// id accepts integral numbers and numeric strings; anything else is 0.
func (f fields) id(key string) int {
	raw := bytes.TrimSpace(f[key])
	if len(raw) == 0 {
		return 0
	}
	text := string(raw)
	if raw[0] == '"' {
		text = strings.TrimSpace(f.str(key))
	}
	if n, err := strconv.Atoi(text); err == nil {
		return n
	}
	if v, err := strconv.ParseFloat(text, 64); err == nil && v == math.Trunc(v) && math.Abs(v) <= math.MaxInt32 {
		return int(v)
	}
	return 0
}

// raw returns the value as stored, or nil when absent.
func (f fields) raw(key string) json.RawMessage {
	v, ok := f[key]
	if !ok {
		return nil
	}
	return append(json.RawMessage(nil), v...)
}
