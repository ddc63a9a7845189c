package rfc7232

// §  3.2.  If-None-Match
// §
// §     The "If-None-Match" header field makes the request method conditional
// §     on a recipient cache or origin server either not having any current
// §     representation of the target resource, when the field-value is "*",
// §     or having a selected representation with an entity-tag that does not
// §     match any of those listed in the field-value.
// §
// §     A recipient MUST use the weak comparison function when comparing
// §     entity-tags for If-None-Match (Section 2.3.2), since weak entity-tags
// §     can be used for cache validation even if there have been changes to
// §     the representation data.
// §
// §       If-None-Match = "*" / 1#entity-tag
// §
// §     Examples:
// §
// §       If-None-Match: "xyzzy"
// §       If-None-Match: W/"xyzzy"
// §       If-None-Match: "xyzzy", "r2d2xxxx", "c3piozzzz"
// §       If-None-Match: W/"xyzzy", W/"r2d2xxxx", W/"c3piozzzz"
// §       If-None-Match: *
// §
// §     If-None-Match is primarily used in conditional GET requests to enable
// §     efficient updates of cached information with a minimum amount of
// §     transaction overhead.  When a client desires to update one or more
// §     stored responses that have entity-tags, the client SHOULD generate an
// §     If-None-Match header field containing a list of those entity-tags
// §     when making a GET request; this allows recipient servers to send a
// §     304 (Not Modified) response to indicate when one of those stored
// §     responses matches the selected representation.
// §
// §     If-None-Match can also be used with a value of "*" to prevent an
// §     unsafe request method (e.g., PUT) from inadvertently modifying an
// §     existing representation of the target resource when the client
// §     believes that the resource does not have a current representation
// §     (Section 4.2.1 of [RFC7231]).  This is a variation on the "lost
// §     update" problem that might arise if more than one client attempts to
// §     create an initial representation for the target resource.
// §
// §     An origin server that receives an If-None-Match header field MUST
// §     evaluate the condition prior to performing the method (Section 5).
// §     If the field-value is "*", the condition is false if the origin
// §     server has a current representation for the target resource.  If the
// §     field-value is a list of entity-tags, the condition is false if one
// §     of the listed tags match the entity-tag of the selected
// §     representation.
//
// A representation is always being returned when this is evaluated, so "*" makes
// the condition false.
func ifNoneMatch(c Condition, current EntityTag) bool {
	if c.Any {
		return false
	}
	for _, e := range c.Tags {
		if e.WeakMatch(current) {
			return false
		}
	}
	return true
}
