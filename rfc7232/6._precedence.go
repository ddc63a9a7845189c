package rfc7232

import "net/http"

// Outcome is the result of evaluating the preconditions of a request.
type Outcome int

const (
	// PassThrough sends the handler's response unchanged.
	PassThrough Outcome = iota
	// NotModified replaces the response with 304 (Not Modified).
	NotModified
	// PreconditionFailed replaces the response with 412 (Precondition Failed).
	PreconditionFailed
)

func (o Outcome) String() string {
	switch o {
	case NotModified:
		return "not_modified"
	case PreconditionFailed:
		return "precondition_failed"
	default:
		return "pass_through"
	}
}

// StatusCode returns the status code to send for the outcome, given the status
// code of the handler's response.
func (o Outcome) StatusCode(statusCode int) int {
	switch o {
	case NotModified:
		return http.StatusNotModified
	case PreconditionFailed:
		return http.StatusPreconditionFailed
	default:
		return statusCode
	}
}

// §  6.  Precedence
// §
// §     When more than one conditional request header field is present in a
// §     request, the order in which the fields are evaluated becomes
// §     important.  In practice, the fields defined in this document are
// §     consistently implemented in a single, logical order, since "lost
// §     update" preconditions have more strict requirements than cache
// §     validation, a validated cache is more efficient than a partial
// §     response, and entity tags are presumed to be more accurate than date
// §     validators.
// §
// §     A recipient cache or origin server MUST evaluate the request
// §     preconditions defined by this specification in the following order:
// §
// §     1.  When recipient is the origin server and If-Match is present,
// §         evaluate the If-Match precondition:
// §
// §         *  if true, continue to step 3
// §
// §         *  if false, respond 412 (Precondition Failed) unless it can be
// §            determined that the state-changing request has already
// §            succeeded (see Section 3.1)
// §
// §     2.  When recipient is the origin server, If-Match is not present, and
// §         If-Unmodified-Since is present, evaluate the If-Unmodified-Since
// §         precondition:
// §
// §         *  if true, continue to step 3
// §
// §         *  if false, respond 412 (Precondition Failed) unless it can be
// §            determined that the state-changing request has already
// §            succeeded (see Section 3.4)
// §
// §     3.  When If-None-Match is present, evaluate the If-None-Match
// §         precondition:
// §
// §         *  if true, continue to step 5
// §
// §         *  if false for GET/HEAD, respond 304 (Not Modified)
// §
// §         *  if false for other methods, respond 412 (Precondition Failed)
// §
// §     4.  When the method is GET or HEAD, If-None-Match is not present, and
// §         If-Modified-Since is present, evaluate the If-Modified-Since
// §         precondition:
// §
// §         *  if true, continue to step 5
// §
// §         *  if false, respond 304 (Not Modified)
// §
// §     5.  When the method is GET and both Range and If-Range are present,
// §         evaluate the If-Range precondition:
// §
// §         *  if the validator matches and the Range specification is
// §            applicable to the selected representation, respond 206
// §            (Partial Content) [RFC7233]
// §
// §     6.  Otherwise,
// §
// §         *  all conditions are met, so perform the requested action and
// §            respond according to its success or failure.
// §
// §     Any extension to HTTP/1.1 that defines additional conditional request
// §     header fields ought to define its own expectations regarding the
// §     order for evaluating such fields in relation to those defined in this
// §     document and other conditionals that might be found in practice.
//
// Steps 2, 4 and 5 rely on date validators and ranges, which are not evaluated.

// Evaluate runs the precedence algorithm for a request with the given method
// against the entity-tag of the selected representation.
func (p Preconditions) Evaluate(method string, current EntityTag) Outcome {
	// step 1
	if p.IfMatch != nil && !ifMatch(*p.IfMatch, current) {
		return PreconditionFailed
	}
	// step 3
	if p.IfNoneMatch != nil && !ifNoneMatch(*p.IfNoneMatch, current) {
		if method == http.MethodGet || method == http.MethodHead {
			return NotModified
		}
		return PreconditionFailed
	}
	// step 6
	return PassThrough
}
