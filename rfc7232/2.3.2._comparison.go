package rfc7232

// §  2.3.2.  Comparison
// §
// §     There are two entity-tag comparison functions, depending on whether
// §     or not the comparison context allows the use of weak validators:
// §
// §     o  Strong comparison: two entity-tags are equivalent if both are not
// §        weak and their opaque-tags match character-by-character.
// §
// §     o  Weak comparison: two entity-tags are equivalent if their
// §        opaque-tags match character-by-character, regardless of either or
// §        both being tagged as "weak".
// §
// §     The example below shows the results for a set of entity-tag pairs and
// §     both the weak and strong comparison function results:
// §
// §     +--------+--------+-------------------+-----------------+
// §     | ETag 1 | ETag 2 | Strong Comparison | Weak Comparison |
// §     +--------+--------+-------------------+-----------------+
// §     | W/"1"  | W/"1"  | no match          | match           |
// §     | W/"1"  | W/"2"  | no match          | no match        |
// §     | W/"1"  | "1"    | no match          | match           |
// §     | "1"    | "1"    | match             | match           |
// §     +--------+--------+-------------------+-----------------+

// StrongMatch reports whether e and other are equivalent under the strong comparison function.
func (e EntityTag) StrongMatch(other EntityTag) bool {
	return !e.Weak && !other.Weak && e.Opaque == other.Opaque
}

// WeakMatch reports whether e and other are equivalent under the weak comparison function.
func (e EntityTag) WeakMatch(other EntityTag) bool {
	return e.Opaque == other.Opaque
}
