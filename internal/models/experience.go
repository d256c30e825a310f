// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Experience is one card in the experiences collection.
type Experience struct {
	ID        int    `json:"id"`
	Category  string `json:"category"`
	FilterTag string `json:"filterTag"`
	Badge     string `json:"badge"`
	Meta      string `json:"meta"`
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt"`
	Image     string `json:"image"`
	Link      string `json:"link"`
	Featured  bool   `json:"featured"`
	Wide      bool   `json:"wide"`
}

// RecordID returns the collection identifier of the experience.
func (e Experience) RecordID() int { return e.ID }

// UnmarshalJSON decodes a stored experience, coercing mistyped fields.
func (e *Experience) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	*e = Experience{
		ID:        f.id("id"),
		Category:  f.str("category"),
		FilterTag: f.str("filterTag"),
		Badge:     f.str("badge"),
		Meta:      f.str("meta"),
		Title:     f.str("title"),
		Excerpt:   f.str("excerpt"),
		Image:     f.str("image"),
		Link:      f.str("link"),
		Featured:  f.flag("featured"),
		Wide:      f.flag("wide"),
	}
	return nil
}

// DefaultLink is the link given to experiences created without one.
const DefaultLink = "#"
