// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.


package models

import (
	"encoding/json"
	"testing"
)

func TestBlogUnmarshalCoercesStoredValues(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Blog
	}{
		{
			name: "well typed",
			in:   `{"id":1,"featured":true,"title":"Hello","readTime":"5 min","body":[{"type":"p"}]}`,
			want: Blog{ID: 1, Featured: true, Title: "Hello", ReadTime: "5 min", Body: json.RawMessage(`[{"type":"p"}]`)},
		},
		{
			name: "string flag and id",
			in:   `{"id":"2","featured":"true","title":"Hand edited"}`,
			want: Blog{ID: 2, Featured: true, Title: "Hand edited"},
		},
		{
			name: "number where string expected",
			in:   `{"id":3,"readTime":5,"date":null}`,
			want: Blog{ID: 3, ReadTime: "5"},
		},
		{
			name: "unknown flag text is false",
			in:   `{"id":4.0,"featured":"yes"}`,
			want: Blog{ID: 4},
		},
		{
			name: "fractional id is zero",
			in:   `{"id":4.5}`,
			want: Blog{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Blog
			if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if string(got.Body) != string(tt.want.Body) {
				t.Errorf("Body = %s, want %s", got.Body, tt.want.Body)
			}
			if !sameBlog(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func sameBlog(a, b Blog) bool {
	a.Body, b.Body = nil, nil
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	return string(ja) == string(jb)
}

func TestExperienceUnmarshalCoercesStoredValues(t *testing.T) {
	var got Experience
	in := `{"id":"7","title":"Trek","featured":"true","wide":1,"meta":3}`
	if err := json.Unmarshal([]byte(in), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := Experience{ID: 7, Title: "Trek", Featured: true, Meta: "3"}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestRecordUnmarshalRejectsNonObjects(t *testing.T) {
	for _, in := range []string{`7`, `"x"`, `[1]`} {
		var b Blog
		if err := json.Unmarshal([]byte(in), &b); err == nil {
			t.Errorf("Blog from %s: want error", in)
		}
		var e Experience
		if err := json.Unmarshal([]byte(in), &e); err == nil {
			t.Errorf("Experience from %s: want error", in)
		}
	}
}
