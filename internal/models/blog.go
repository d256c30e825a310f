// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the records and image entries served by the
// content API. Blogs and experiences live in JSON collections; property
// images are plain files enumerated from disk.
package models

import "encoding/json"

// Blog is one article in the blogs collection. Body is an ordered list of
// content blocks whose shape is owned by the front-end; it is stored as
// raw JSON and never inspected server-side.
type Blog struct {
	ID       int             `json:"id"`
	Featured bool            `json:"featured"`
	Category string          `json:"category"`
	Tag      string          `json:"tag"`
	Date     string          `json:"date"`
	ReadTime string          `json:"readTime"`
	Title    string          `json:"title"`
	Excerpt  string          `json:"excerpt"`
	Image    string          `json:"image"`
	ImageAlt string          `json:"imageAlt"`
	URL      string          `json:"url"`
	Body     json.RawMessage `json:"body"`
}

// RecordID returns the collection identifier of the blog.
func (b Blog) RecordID() int { return b.ID }

// EmptyBody is the body stored when a blog is created without one.
var EmptyBody = json.RawMessage(`[]`)

// UnmarshalJSON decodes a stored blog, coercing mistyped fields.
func (b *Blog) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	*b = Blog{
		ID:       f.id("id"),
		Featured: f.flag("featured"),
		Category: f.str("category"),
		Tag:      f.str("tag"),
		Date:     f.str("date"),
		ReadTime: f.str("readTime"),
		Title:    f.str("title"),
		Excerpt:  f.str("excerpt"),
		Image:    f.str("image"),
		ImageAlt: f.str("imageAlt"),
		URL:      f.str("url"),
		Body:     f.raw("body"),
	}
	return nil
}
