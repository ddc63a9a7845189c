// Package rfc7232 implements the entity-tag parts of HTTP/1.1 Conditional Requests (RFC 7232).
//
// Each file quotes the section of the RFC it implements. Date validators
// (Last-Modified, If-Modified-Since, If-Unmodified-Since) and If-Range are not
// implemented.
package rfc7232

import "net/http"

// Decide evaluates the If-Match and If-None-Match fields of request header h for
// a request with the given method, against the entity-tag of a response with the
// given status code. Malformed fields are treated as absent and returned keyed by
// field name, so the caller may report them.
func Decide(method string, h http.Header, statusCode int, current EntityTag) (Outcome, map[string]error) {
	if !Applicable(statusCode) {
		return PassThrough, nil
	}
	p, malformed := ParsePreconditions(h)
	return p.Evaluate(method, current), malformed
}
