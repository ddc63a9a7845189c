package rfc7232

import (
	"net/http"
	"testing"

	"github.com/matryer/is"
)

func TestDecide(t *testing.T) {
	strong := EntityTag{Opaque: "x"}
	weak := EntityTag{Opaque: "x", Weak: true}

	tests := []struct {
		name        string
		method      string
		ifMatch     string
		ifNoneMatch string
		status      int
		current     EntityTag
		want        Outcome
	}{
		{name: "no preconditions", method: http.MethodGet, current: strong, want: PassThrough},
		{name: "if-match strong match", method: http.MethodPut, ifMatch: `"x"`, current: strong, want: PassThrough},
		{name: "if-match mismatch", method: http.MethodPut, ifMatch: `"wrong"`, current: strong, want: PreconditionFailed},
		{name: "if-match weak request tag", method: http.MethodGet, ifMatch: `W/"x"`, current: strong, want: PreconditionFailed},
		{name: "if-match weak current tag", method: http.MethodGet, ifMatch: `"x"`, current: weak, want: PreconditionFailed},
		{name: "if-match weak both", method: http.MethodGet, ifMatch: `W/"x"`, current: weak, want: PreconditionFailed},
		{name: "if-match wildcard", method: http.MethodDelete, ifMatch: "*", current: weak, want: PassThrough},
		{name: "if-match one of list", method: http.MethodPut, ifMatch: `"a", "x"`, current: strong, want: PassThrough},
		{name: "if-match malformed is absent", method: http.MethodPut, ifMatch: "x", current: strong, want: PassThrough},
		{name: "if-none-match get", method: http.MethodGet, ifNoneMatch: `"x"`, current: strong, want: NotModified},
		{name: "if-none-match head", method: http.MethodHead, ifNoneMatch: `"x"`, current: strong, want: NotModified},
		{name: "if-none-match weak current", method: http.MethodGet, ifNoneMatch: `"x"`, current: weak, want: NotModified},
		{name: "if-none-match weak request", method: http.MethodGet, ifNoneMatch: `W/"x"`, current: strong, want: NotModified},
		{name: "if-none-match mismatch", method: http.MethodGet, ifNoneMatch: `"y"`, current: strong, want: PassThrough},
		{name: "if-none-match post", method: http.MethodPost, ifNoneMatch: `"x"`, current: strong, want: PreconditionFailed},
		{name: "if-none-match wildcard get", method: http.MethodGet, ifNoneMatch: "*", current: strong, want: NotModified},
		{name: "if-none-match wildcard put", method: http.MethodPut, ifNoneMatch: "*", current: strong, want: PreconditionFailed},
		{name: "if-none-match wildcard patch", method: http.MethodPatch, ifNoneMatch: "*", current: weak, want: PreconditionFailed},
		{name: "if-none-match malformed is absent", method: http.MethodGet, ifNoneMatch: "x", current: strong, want: PassThrough},
		{name: "if-match fails first", method: http.MethodGet, ifMatch: `"wrong"`, ifNoneMatch: `"x"`, current: strong, want: PreconditionFailed},
		{name: "if-match passes then if-none-match", method: http.MethodGet, ifMatch: `"x"`, ifNoneMatch: `"x"`, current: strong, want: NotModified},
		{name: "error response if-match", method: http.MethodGet, ifMatch: `"wrong"`, status: http.StatusNotFound, current: strong, want: PreconditionFailed},
		{name: "error response if-none-match", method: http.MethodGet, ifNoneMatch: "*", status: http.StatusNotFound, current: strong, want: NotModified},
		{name: "handler not modified kept", method: http.MethodGet, ifMatch: `"wrong"`, status: http.StatusNotModified, current: strong, want: PassThrough},
		{name: "handler precondition failed kept", method: http.MethodGet, ifNoneMatch: "*", status: http.StatusPreconditionFailed, current: strong, want: PassThrough},
		{name: "created response", method: http.MethodPut, ifNoneMatch: "*", status: http.StatusCreated, current: strong, want: PreconditionFailed},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			is := is.New(t)
			h := http.Header{}
			if test.ifMatch != "" {
				h.Set("If-Match", test.ifMatch)
			}
			if test.ifNoneMatch != "" {
				h.Set("If-None-Match", test.ifNoneMatch)
			}
			status := test.status
			if status == 0 {
				status = http.StatusOK
			}
			got, _ := Decide(test.method, h, status, test.current)
			is.Equal(got, test.want)
		})
	}
}

func TestOutcome_StatusCode(t *testing.T) {
	is := is.New(t)
	is.Equal(PassThrough.StatusCode(http.StatusCreated), http.StatusCreated)
	is.Equal(NotModified.StatusCode(http.StatusOK), http.StatusNotModified)
	is.Equal(PreconditionFailed.StatusCode(http.StatusOK), http.StatusPreconditionFailed)
	is.Equal(NotModified.String(), "not_modified")
}

func TestNotModifiedHeader(t *testing.T) {
	is := is.New(t)
	h := http.Header{}
	h.Set("ETag", `"x"`)
	h.Set("Cache-Control", "max-age=60")
	h.Add("Vary", "Accept")
	h.Add("Vary", "Accept-Encoding")
	h.Set("Content-Type", "text/plain")
	h.Set("Content-Length", "5")
	h.Set("X-Custom", "1")
	h.Set("Date", "Sun, 18 Oct 2026 10:00:00 GMT")
	h.Set("Content-Location", "/docs/a")

	res := NotModifiedHeader(h)
	is.Equal(res.Get("Date"), "Sun, 18 Oct 2026 10:00:00 GMT")
	is.Equal(res.Get("Content-Location"), "/docs/a")
	is.Equal(res.Get("ETag"), `"x"`)
	is.Equal(res.Get("Cache-Control"), "max-age=60")
	is.Equal(res.Values("Vary"), []string{"Accept", "Accept-Encoding"})
	is.Equal(res.Get("Content-Type"), "")
	is.Equal(res.Get("Content-Length"), "")
	is.Equal(res.Get("X-Custom"), "")

	// the original header is untouched
	is.Equal(h.Get("Content-Type"), "text/plain")
}

func TestPreconditionFailedHeader(t *testing.T) {
	is := is.New(t)
	res := PreconditionFailedHeader(EntityTag{Opaque: "x", Weak: true})
	is.Equal(len(res), 1)
	is.Equal(res.Get("ETag"), `W/"x"`)
}
