package rfc7232

import (
	"net/http"
	"testing"

	"github.com/matryer/is"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		name     string
		values   []string
		wantOK   bool
		wantAny  bool
		wantTags []EntityTag
	}{
		{
			name:     "single",
			values:   []string{`"xyzzy"`},
			wantOK:   true,
			wantTags: []EntityTag{{Opaque: "xyzzy"}},
		},
		{
			name:   "list",
			values: []string{`"xyzzy", W/"r2d2xxxx",  "c3piozzzz"`},
			wantOK: true,
			wantTags: []EntityTag{
				{Opaque: "xyzzy"},
				{Opaque: "r2d2xxxx", Weak: true},
				{Opaque: "c3piozzzz"},
			},
		},
		{
			name:   "multiple field lines",
			values: []string{`"a"`, `"b"`},
			wantOK: true,
			wantTags: []EntityTag{
				{Opaque: "a"},
				{Opaque: "b"},
			},
		},
		{
			name:     "duplicates collapse",
			values:   []string{`"a", "a",W/"a"`},
			wantOK:   true,
			wantTags: []EntityTag{{Opaque: "a"}, {Opaque: "a", Weak: true}},
		},
		{
			name:     "comma inside opaque-tag",
			values:   []string{`"a,b"`},
			wantOK:   true,
			wantTags: []EntityTag{{Opaque: "a,b"}},
		},
		{
			name:     "empty elements",
			values:   []string{`, "a" ,,`},
			wantOK:   true,
			wantTags: []EntityTag{{Opaque: "a"}},
		},
		{
			name:    "wildcard",
			values:  []string{"*"},
			wantOK:  true,
			wantAny: true,
		},
		{
			name:     "wildcard in list",
			values:   []string{`"a", *`},
			wantOK:   true,
			wantAny:  true,
			wantTags: []EntityTag{{Opaque: "a"}},
		},
		{name: "empty", values: []string{""}},
		{name: "only commas", values: []string{" , ,"}},
		{name: "unquoted", values: []string{"xyzzy"}},
		{name: "one bad element", values: []string{`"a", b`}},
		{name: "missing separator", values: []string{`"a" "b"`}},
		{name: "wildcard garbage", values: []string{"*x"}},
		{name: "unterminated", values: []string{`"a`}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			is := is.New(t)
			c, err := ParseCondition(test.values)
			is.Equal(err == nil, test.wantOK)
			if !test.wantOK {
				return
			}
			is.Equal(c.Any, test.wantAny)
			is.Equal(c.Tags, test.wantTags)
		})
	}
}

func TestCondition_String(t *testing.T) {
	is := is.New(t)
	c := Condition{Any: true, Tags: []EntityTag{{Opaque: "a"}, {Opaque: "b", Weak: true}}}
	is.Equal(c.String(), `*, "a", W/"b"`)
}

func TestParsePreconditions(t *testing.T) {
	is := is.New(t)

	h := http.Header{}
	p, malformed := ParsePreconditions(h)
	is.Equal(p.IfMatch, nil)
	is.Equal(p.IfNoneMatch, nil)
	is.Equal(len(malformed), 0)

	h.Set("If-Match", `"a"`)
	h.Set("If-None-Match", "not-an-etag")
	p, malformed = ParsePreconditions(h)
	is.True(p.IfMatch != nil)
	is.Equal(p.IfMatch.Tags, []EntityTag{{Opaque: "a"}})
	is.Equal(p.IfNoneMatch, nil) // malformed is treated as absent
	is.Equal(len(malformed), 1)
	is.True(malformed["If-None-Match"] != nil)
}
