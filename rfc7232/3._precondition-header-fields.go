package rfc7232

import (
	"net/http"
	"strings"

	"github.com/go-http-utils/headers"
	"github.com/pkg/errors"
)

// §  3.  Precondition Header Fields
// §
// §     This section defines the syntax and semantics of HTTP/1.1 header
// §     fields for applying preconditions on requests.  Section 5 defines
// §     when the preconditions are applied.  Section 6 defines the order of
// §     evaluation when more than one precondition is present.
//
// If-Modified-Since, If-Unmodified-Since and If-Range are not evaluated.

// Condition is the parsed value of an If-Match or If-None-Match field:
// either the wildcard "*" or a list of entity-tags (or, leniently, both).
type Condition struct {
	// Any is set if the field contains "*".
	Any bool
	// Tags holds the listed entity-tags without duplicates, in order of appearance.
	Tags []EntityTag
}

// ParseCondition parses the combined field lines of an If-Match or If-None-Match field.
//
//	If-Match      = "*" / 1#entity-tag
//	If-None-Match = "*" / 1#entity-tag
//
// An empty list or any element that is not "*" or an entity-tag makes the whole field
// malformed. A quoted opaque-tag may itself contain commas, so the list is scanned
// rather than split.
func ParseCondition(values []string) (Condition, error) {
	s := strings.Join(values, ",")
	c := Condition{}
	seen := make(map[EntityTag]struct{})
	for {
		// skip empty list elements and OWS (Section 7 of RFC 7230)
		s = strings.TrimLeft(s, " \t,")
		if s == "" {
			break
		}
		if s[0] == '*' {
			c.Any = true
			s = s[1:]
		} else {
			e, rest, ok := scanEntityTag(s)
			if !ok {
				return Condition{}, errors.Wrapf(ErrMalformed, "parse list %q", strings.Join(values, ", "))
			}
			if _, dup := seen[e]; !dup {
				seen[e] = struct{}{}
				c.Tags = append(c.Tags, e)
			}
			s = rest
		}
		s = strings.TrimLeft(s, " \t")
		if s != "" && s[0] != ',' {
			return Condition{}, errors.Wrapf(ErrMalformed, "parse list %q", strings.Join(values, ", "))
		}
	}
	if !c.Any && len(c.Tags) == 0 {
		return Condition{}, errors.Wrapf(ErrMalformed, "empty list %q", strings.Join(values, ", "))
	}
	return c, nil
}

// String returns the field value form of the condition.
func (c Condition) String() string {
	elems := make([]string, 0, len(c.Tags)+1)
	if c.Any {
		elems = append(elems, "*")
	}
	for _, e := range c.Tags {
		elems = append(elems, e.String())
	}
	return strings.Join(elems, ", ")
}

// Preconditions holds the precondition fields of a request.
// A nil field was either not sent or was malformed.
type Preconditions struct {
	IfMatch     *Condition
	IfNoneMatch *Condition
}

// ParsePreconditions reads If-Match and If-None-Match from request header h.
// Malformed fields are left nil, so that they are treated as absent, and their
// parse errors are returned keyed by field name.
func ParsePreconditions(h http.Header) (Preconditions, map[string]error) {
	var (
		p         Preconditions
		malformed map[string]error
	)
	parse := func(name string) *Condition {
		values := h.Values(name)
		if len(values) == 0 {
			return nil
		}
		c, err := ParseCondition(values)
		if err != nil {
			if malformed == nil {
				malformed = make(map[string]error)
			}
			malformed[name] = err
			return nil
		}
		return &c
	}
	p.IfMatch = parse(headers.IfMatch)
	p.IfNoneMatch = parse(headers.IfNoneMatch)
	return p, malformed
}
