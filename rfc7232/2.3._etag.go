package rfc7232

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformed is returned when a field value does not follow the entity-tag grammar.
var ErrMalformed = errors.New("malformed entity-tag")

// §  2.3.  ETag
// §
// §     The "ETag" header field in a response provides the current entity-tag
// §     for the selected representation, as determined at the conclusion of
// §     handling the request.  An entity-tag is an opaque validator for
// §     differentiating between multiple representations of the same
// §     resource, regardless of whether those multiple representations are
// §     due to resource state changes over time, content negotiation
// §     resulting in multiple representations being valid at the same time,
// §     or both.  An entity-tag consists of an opaque quoted string, possibly
// §     prefixed by a weakness indicator.
// §
// §       ETag       = entity-tag
// §
// §       entity-tag = [ weak ] opaque-tag
// §       weak       = %x57.2F ; "W/", case-sensitive
// §       opaque-tag = DQUOTE *etagc DQUOTE
// §       etagc      = %x21 / %x23-7E / obs-text
// §                  ; VCHAR except double quotes, plus obs-text
// §
// §        Note: Previously, opaque-tag was defined to be a quoted-string
// §        ([RFC2616], Section 3.11); thus, some recipients might perform
// §        backslash unescaping.  Servers therefore ought to avoid backslash
// §        characters in entity tags.

// EntityTag is an entity-tag as carried by the ETag, If-Match and If-None-Match fields.
type EntityTag struct {
	// Opaque is the opaque-tag without the surrounding double quotes.
	Opaque string
	// Weak is set for entity-tags carrying the "W/" weakness indicator.
	Weak bool
}

// String returns the field value form of the entity-tag, i.e. `"opaque"` or `W/"opaque"`.
func (e EntityTag) String() string {
	s := `"` + e.Opaque + `"`
	if e.Weak {
		s = "W/" + s
	}
	return s
}

// ParseEntityTag parses a single entity-tag, e.g. the value of an ETag response field.
// Surrounding whitespace is ignored.
func ParseEntityTag(value string) (EntityTag, error) {
	e, rest, ok := scanEntityTag(trimOWS(value))
	if !ok || rest != "" {
		return EntityTag{}, errors.Wrapf(ErrMalformed, "parse %q", value)
	}
	return e, nil
}

// scanEntityTag reads one entity-tag from the start of s and returns the remaining input.
func scanEntityTag(s string) (EntityTag, string, bool) {
	var e EntityTag
	if strings.HasPrefix(s, "W/") {
		e.Weak = true
		s = s[2:]
	}
	if len(s) < 2 || s[0] != '"' {
		return EntityTag{}, "", false
	}
	for i := 1; i < len(s); i++ {
		switch c := s[i]; {
		case c == '"':
			e.Opaque = s[1:i]
			return e, s[i+1:], true
		case !isEtagc(c):
			return EntityTag{}, "", false
		}
	}
	// missing closing quote
	return EntityTag{}, "", false
}

func isEtagc(c byte) bool {
	return c == 0x21 || (c >= 0x23 && c <= 0x7e) || c >= 0x80
}

// OWS = *( SP / HTAB )
func trimOWS(s string) string {
	return strings.Trim(s, " \t")
}

// §  2.3.1.  Generation
// §
// §     The principle behind entity-tags is that only the service author
// §     knows the implementation of a resource well enough to select the
// §     most accurate and efficient validation mechanism for that resource,
// §     and that any such mechanism can be mapped to a simple sequence of
// §     octets for easy comparison.  Since the value is opaque, there is no
// §     need for the client to be aware of how each entity-tag is
// §     constructed.
// §
// §     For example, a resource that has implementation-specific versioning
// §     applied to all changes might use an internal revision number, perhaps
// §     combined with a variance identifier for content negotiation, to
// §     accurately differentiate between representations.  Other
// §     implementations might use a collision-resistant hash of
// §     representation content, a combination of various file attributes, or
// §     a modification timestamp that has sub-second resolution.
//
// Generation from a hash of the representation content lives in pkg/etag-validator.
