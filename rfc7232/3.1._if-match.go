package rfc7232

// §  3.1.  If-Match
// §
// §     The "If-Match" header field makes the request method conditional on
// §     the recipient origin server either having at least one current
// §     representation of the target resource, when the field-value is "*",
// §     or having a current representation of the target resource that has an
// §     entity-tag matching a member of the list of entity-tags provided in
// §     the field-value.
// §
// §     An origin server MUST use the strong comparison function when
// §     comparing entity-tags for If-Match (Section 2.3.2), since the client
// §     intends this precondition to prevent the method from being applied if
// §     there have been any changes to the representation data.
// §
// §       If-Match = "*" / 1#entity-tag
// §
// §     Examples:
// §
// §       If-Match: "xyzzy"
// §       If-Match: "xyzzy", "r2d2xxxx", "c3piozzzz"
// §       If-Match: *
// §
// §     If-Match is most often used with state-changing methods (e.g., POST,
// §     PUT, DELETE) to prevent accidental overwrites when multiple user
// §     agents might be acting in parallel on the same resource (i.e., to
// §     prevent the "lost update" problem).  It can also be used with safe
// §     methods to abort a request if the selected representation does not
// §     match one already stored (or partially stored) from a prior request.
// §
// §     An origin server that receives an If-Match header field MUST evaluate
// §     the condition prior to performing the method (Section 5).  If the
// §     field-value is "*", the condition is false if the origin server does
// §     not have a current representation for the target resource.  If the
// §     field-value is a list of entity-tags, the condition is false if none
// §     of the listed tags match the entity-tag of the selected
// §     representation.
//
// The handler has always produced a representation by the time the condition is
// evaluated, so "*" is always true here.
func ifMatch(c Condition, current EntityTag) bool {
	if c.Any {
		return true
	}
	for _, e := range c.Tags {
		if e.StrongMatch(current) {
			return true
		}
	}
	return false
}
