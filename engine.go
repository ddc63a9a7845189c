package etag

import (
	"net/http"

	"github.com/go-http-utils/headers"
	"github.com/pkg/errors"

	"github.com/ilpanich/etag-middleware/rfc7232"
)

// Response is a response produced by the wrapped handler.
// Body returns the complete body; it is only called when an entity-tag has to be computed.
type Response interface {
	StatusCode() int
	Header() http.Header
	Body() ([]byte, error)
}

// Decision is the result of Evaluate.
type Decision struct {
	// Outcome decides what is sent to the client.
	Outcome rfc7232.Outcome
	// ETag is the entity-tag of the handler's response.
	ETag rfc7232.EntityTag
	// Generated is set if ETag was computed from the body rather than set by the handler.
	Generated bool
}

// Evaluate determines the entity-tag of res and evaluates the preconditions of r against it.
//
// An ETag header set by the handler is reused as is. Otherwise, or if it cannot be
// parsed, an entity-tag is computed from the body and the header is set on res. A 304
// response without an ETag is left untagged, since its empty body is not the
// representation. Malformed If-Match and If-None-Match fields are ignored. The only
// error returned is a failure to read the body, which is passed on unchanged apart
// from context.
func (m *Middleware) Evaluate(r *http.Request, res Response) (Decision, error) {
	return m.evaluate(r, r.Method, res)
}

// evaluate is Evaluate for a request with the given method. The method differs from
// r.Method when a HEAD request was forwarded as GET.
func (m *Middleware) evaluate(r *http.Request, method string, res Response) (Decision, error) {
	logger := m.getLogger(r)
	d := Decision{}

	current, reuse := m.handlerETag(r, res)
	switch {
	case reuse:
		d.ETag = current
		Reused.Inc()
	case res.StatusCode() == http.StatusNotModified:
		Responses.WithLabelValues(rfc7232.PassThrough.String()).Inc()
		m.logDecision(r, d)
		return d, nil
	default:
		body, err := res.Body()
		if err != nil {
			return d, errors.Wrap(err, "read response body")
		}
		d.ETag = m.computer.Compute(body, m.mode == Weak)
		d.Generated = true
		res.Header().Set(headers.ETag, d.ETag.String())
		Generated.WithLabelValues(string(m.computer.Algorithm()), m.mode.String()).Inc()
		BodyBytes.Observe(float64(len(body)))
	}

	outcome, malformed := rfc7232.Decide(method, r.Header, res.StatusCode(), d.ETag)
	for name, err := range malformed {
		MalformedHeaders.WithLabelValues(name).Inc()
		logger.Debug().Err(err).Str("header", name).Msg("Ignoring malformed precondition")
	}
	d.Outcome = outcome
	Responses.WithLabelValues(outcome.String()).Inc()
	m.logDecision(r, d)

	return d, nil
}

// handlerETag returns the entity-tag set by the handler, if any and if valid.
func (m *Middleware) handlerETag(r *http.Request, res Response) (rfc7232.EntityTag, bool) {
	value := res.Header().Get(headers.ETag)
	if value == "" {
		return rfc7232.EntityTag{}, false
	}
	e, err := rfc7232.ParseEntityTag(value)
	if err != nil {
		m.getLogger(r).Debug().Err(err).Msg("Replacing malformed ETag set by handler")
		return rfc7232.EntityTag{}, false
	}
	return e, true
}
