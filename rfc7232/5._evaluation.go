package rfc7232

import "net/http"

// §  5.  Evaluation
// §
// §     Except when excluded below, a recipient cache or origin server MUST
// §     evaluate received request preconditions after it has successfully
// §     performed its normal request checks and just before it would perform
// §     the action associated with the request method.  A server MUST ignore
// §     all received preconditions if its response to the same request
// §     without those conditions would have been a status code other than a
// §     2xx (Successful) or 412 (Precondition Failed).  In other words,
// §     redirects and failures take precedence over the evaluation of
// §     preconditions in conditional requests.
// §
// §     A server that is not the origin server for the target resource and
// §     cannot act as a cache for requests on the target resource MUST NOT
// §     evaluate the conditional request header fields defined by this
// §     specification, and it MUST forward them if the request is forwarded,
// §     since the generating client intends that they be evaluated by a
// §     server that can provide a current representation.
//
// The preconditions are evaluated after the handler has run, using the response it
// produced, whatever its status. A handler that answers 304 or 412 itself has
// already evaluated them, so its answer is kept.
func Applicable(statusCode int) bool {
	return statusCode != http.StatusNotModified && statusCode != http.StatusPreconditionFailed
}
