// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "strings"

// Property namespaces uploaded images by lodging location.
type Property string

const (
	PropertyManali  Property = "manali"
	PropertyKasol   Property = "kasol"
	PropertyJispa   Property = "jispa"
	PropertyGeneral Property = "general"
)

// Properties is the fixed set of accepted properties, in display order.
var Properties = []Property{PropertyManali, PropertyKasol, PropertyJispa, PropertyGeneral}

// ParseProperty returns the property named s. Matching is exact.
func ParseProperty(s string) (Property, bool) {
	for _, p := range Properties {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Dir returns the image subdirectory for the property. The general
// property maps to the image root itself.
func (p Property) Dir() string {
	if p == PropertyGeneral {
		return ""
	}
	return string(p)
}

// PropertyNames returns the accepted property names joined for messages.
func PropertyNames() string {
	names := make([]string, len(Properties))
	for i, p := range Properties {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

// PropertyImage describes one image file found under a property directory.
// Width and Height are zero when the image header could not be decoded
// (SVG, or a damaged file).
type PropertyImage struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}
