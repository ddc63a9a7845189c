package rfc7232

import (
	"net/http"

	"github.com/go-http-utils/headers"
)

// §  4.1.  304 Not Modified
// §
// §     The 304 (Not Modified) status code indicates that a conditional GET or
// §     HEAD request has been received and would have resulted in a 200 (OK)
// §     response if it were not for the fact that the condition evaluated to
// §     false.  In other words, there is no need for the server to transfer a
// §     representation of the target resource because the request indicates
// §     that the client, which made the request conditional, already has a
// §     valid representation; the server is therefore redirecting the client
// §     to make use of that stored representation as if it were the payload
// §     of a 200 (OK) response.
// §
// §     The server generating a 304 response MUST generate any of the
// §     following header fields that would have been sent in a 200 (OK)
// §     response to the same request: Cache-Control, Content-Location, Date,
// §     ETag, Expires, and Vary.
// §
// §     Since the goal of a 304 response is to minimize information transfer
// §     when the recipient already has one or more cached representations, a
// §     sender SHOULD NOT generate representation metadata other than the
// §     above listed fields unless said metadata exists for the purpose of
// §     guiding cache updates (e.g., Last-Modified might be useful if the
// §     response does not have an ETag field).
// §
// §     A 304 response cannot contain a message-body; it is always terminated
// §     by the first empty line after the header fields.
var notModifiedFields = []string{
	headers.CacheControl,
	headers.ContentLocation,
	"Date",
	headers.ETag,
	headers.Expires,
	headers.Vary,
}

// NotModifiedHeader returns the header fields of a 304 response derived from
// the header of the 200 response that would otherwise have been sent.
func NotModifiedHeader(h http.Header) http.Header {
	res := make(http.Header)
	for _, name := range notModifiedFields {
		if values := h.Values(name); len(values) > 0 {
			res[http.CanonicalHeaderKey(name)] = append([]string(nil), values...)
		}
	}
	return res
}

// §  4.2.  412 Precondition Failed
// §
// §     The 412 (Precondition Failed) status code indicates that one or more
// §     conditions given in the request header fields evaluated to false when
// §     tested on the server.  This response code allows the client to place
// §     preconditions on the current resource state (its current
// §     representations and metadata) and, thus, prevent the request method
// §     from being applied if the target resource is in an unexpected state.

// PreconditionFailedHeader returns the header fields of a 412 response.
// Only the current entity-tag is kept.
func PreconditionFailedHeader(current EntityTag) http.Header {
	res := make(http.Header)
	res.Set(headers.ETag, current.String())
	return res
}
