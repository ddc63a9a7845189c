package etag

import (
	"net/http"

	"github.com/go-http-utils/headers"

	buffer "github.com/ilpanich/etag-middleware/pkg/response-buffer"
	"github.com/ilpanich/etag-middleware/rfc7232"
)

// Handler wraps next. The response of next is buffered, tagged and, depending on
// the request preconditions, sent as is or replaced by a 304 or 412 response
// without body.
//
// HEAD requests are passed to next as GET, so that the entity-tag is computed from
// the representation rather than from an empty body. Only the header is sent back.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.bypass.Match(r) {
			next.ServeHTTP(w, r)
			return
		}

		rb := buffer.New()
		next.ServeHTTP(rb, asGet(r))

		d, err := m.Evaluate(r, rb)
		if err != nil {
			// a buffered body cannot fail to materialize, but be safe
			m.getLogger(r).Error().Err(err).Msg("Could not evaluate response")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		m.send(w, r, rb, d)
	})
}

func (m *Middleware) send(w http.ResponseWriter, r *http.Request, rb *buffer.ResponseBuffer, d Decision) {
	switch d.Outcome {
	case rfc7232.NotModified:
		copyHeader(w.Header(), rfc7232.NotModifiedHeader(rb.Header()))
		w.WriteHeader(http.StatusNotModified)
	case rfc7232.PreconditionFailed:
		w.Header().Set(headers.ETag, d.ETag.String())
		w.WriteHeader(http.StatusPreconditionFailed)
	default:
		if r.Method == http.MethodHead {
			rb.SendHeader(w)
			return
		}
		if err := rb.Send(w); err != nil {
			m.getLogger(r).Error().Err(err).Msg("Could not write response body to client")
		}
	}
}

// asGet returns a GET copy of a HEAD request, or r itself.
func asGet(r *http.Request) *http.Request {
	if r.Method != http.MethodHead {
		return r
	}
	get := r.Clone(r.Context())
	get.Method = http.MethodGet
	return get
}

func copyHeader(dst, src http.Header) {
	for k, vv := range src {
		for _, v := range vv {
			dst.Add(k, v)
		}
	}
}
