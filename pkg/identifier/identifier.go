// Package identifier canonicalizes control identifiers from the notations
// used by different security-control frameworks into a single comparable
// form. Canonical identifiers are lowercase, use "." as the hierarchy
// separator and "-" as the enumeration separator, and join enhancement
// suffixes with "." (e.g. "ac-2.1").
package identifier

import (
	"strconv"
	"strings"
)

// NotationKind identifies the native identifier notation of a framework.
type NotationKind string

const (
	// NotationDotted is the dotted-hierarchy notation used by CSF-style
	// frameworks: function.category-sequence, e.g. "GV.OC-01". Group and
	// category titles carry their abbreviation in parentheses,
	// e.g. "GOVERN (GV)".
	NotationDotted NotationKind = "dotted"

	// NotationDashEnhancement is the family-number notation used by
	// SP 800-53-style catalogs, with optional parenthesized enhancements
	// and zero padding, e.g. "AC-01" or "AC-2(1)".
	NotationDashEnhancement NotationKind = "dash-enhancement"

	// NotationTripleSegment is the three-segment sort-key notation used in
	// comparison workbooks: family-basenum-enhancementnum, where an
	// enhancement of "00" marks a base control, e.g. "AC-02-01", "AC-01-00".
	NotationTripleSegment NotationKind = "triple-segment"
)

// ParseNotation converts a configuration string to a NotationKind.
// Returns false if the string names no known notation.
func ParseNotation(name string) (NotationKind, bool) {
	switch NotationKind(strings.ToLower(strings.TrimSpace(name))) {
	case NotationDotted:
		return NotationDotted, true
	case NotationDashEnhancement:
		return NotationDashEnhancement, true
	case NotationTripleSegment:
		return NotationTripleSegment, true
	}
	return "", false
}

// Canonicalize converts a raw identifier in the given notation to canonical
// form. It is total: malformed input degrades to the lowercased, trimmed
// input rather than an error, and empty input canonicalizes to the empty
// string. Callers must treat an empty result as "no identifier". The result
// is deterministic and idempotent: canonicalizing an already-canonical
// identifier returns it unchanged.
func Canonicalize(raw string, notation NotationKind) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	switch notation {
	case NotationDotted:
		return canonicalizeDotted(raw)
	case NotationDashEnhancement:
		return canonicalizeDashEnhancement(raw)
	case NotationTripleSegment:
		return canonicalizeTripleSegment(raw)
	default:
		return strings.ToLower(raw)
	}
}

// canonicalizeDotted handles CSF-style identifiers and titled headings.
// Titles often trail a colon ("GV.OC-01: Organizational mission is ..."),
// so everything after the first ":" is dropped. A parenthesized
// abbreviation wins over the surrounding text: "GOVERN (GV)" -> "gv",
// "Organizational Context (GV.OC)" -> "gv.oc". Plain identifiers pass
// through lowercased with their dots intact: "GV.OC-01" -> "gv.oc-01".
func canonicalizeDotted(raw string) string {
	text, _, _ := strings.Cut(raw, ":")
	text = strings.TrimSpace(text)

	if open := strings.Index(text, "("); open >= 0 {
		if end := strings.Index(text[open:], ")"); end >= 0 {
			abbrev := strings.TrimSpace(text[open+1 : open+end])
			return strings.ToLower(abbrev)
		}
	}

	return strings.ToLower(text)
}

// canonicalizeDashEnhancement handles SP 800-53-style identifiers.
// Zero padding is stripped from numeric segments and parenthesized
// enhancements become dotted suffixes: "AC-01" -> "ac-1",
// "AC-2(1)" -> "ac-2.1". Input with no "-" separator passes through
// lowercased.
func canonicalizeDashEnhancement(raw string) string {
	id := strings.ToLower(strings.TrimRight(strings.TrimSpace(raw), ","))

	family, remainder, found := strings.Cut(id, "-")
	if !found {
		return id
	}

	if base, enhancement, hasEnhancement := strings.Cut(remainder, "("); hasEnhancement {
		enhancement = strings.TrimRight(enhancement, ")")
		return family + "-" + stripLeadingZeros(base) + "." + stripLeadingZeros(enhancement)
	}

	return family + "-" + stripLeadingZeros(remainder)
}

// canonicalizeTripleSegment handles SORT-AS keys from comparison workbooks.
// The key has exactly three dash-separated segments; an enhancement segment
// of "00" marks a base control: "AC-01-00" -> "ac-1", "AC-02-01" -> "ac-2.1".
// Any other segment count passes through lowercased unchanged.
func canonicalizeTripleSegment(raw string) string {
	id := strings.ToLower(strings.TrimSpace(raw))

	segments := strings.Split(id, "-")
	if len(segments) != 3 {
		return id
	}

	family := segments[0]
	base := stripLeadingZeros(segments[1])
	if segments[2] == "00" {
		return family + "-" + base
	}
	return family + "-" + base + "." + stripLeadingZeros(segments[2])
}

// stripLeadingZeros removes leading zeros from a numeric segment.
// Non-numeric segments pass through unchanged.
func stripLeadingZeros(segment string) string {
	value, err := strconv.Atoi(segment)
	if err != nil {
		return segment
	}
	return strconv.Itoa(value)
}

// IsLeafControl reports whether a canonical identifier names a leaf
// control rather than a function- or category-level group. Leaf controls
// end in a numeric sequence ("gv.oc-01", "ac-1", "ac-2.1"); group
// identifiers lack the trailing numeric suffix ("gv", "gv.oc"). Only leaf
// controls participate in crosswalk mappings.
func IsLeafControl(id string) bool {
	dash := strings.LastIndex(id, "-")
	if dash < 0 || dash == len(id)-1 {
		return false
	}

	suffix := id[dash+1:]
	base, enhancement, hasEnhancement := strings.Cut(suffix, ".")
	if !isDigits(base) {
		return false
	}
	if hasEnhancement && !isDigits(enhancement) {
		return false
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
