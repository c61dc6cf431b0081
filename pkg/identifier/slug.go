package identifier

import "strings"

// Slug converts a full node title into a hyphen-joined identifier, the
// alternate ID style for group and category nodes in catalogs whose source
// sheets carry no abbreviations. Periods and parentheses become hyphens,
// commas are removed, runs of hyphens collapse, and edge hyphens are
// trimmed: "Access Control (AC)" -> "access-control-ac". A catalog uses
// either abbreviation IDs or slug IDs; the two styles are never mixed
// within one catalog.
func Slug(title string) string {
	text, _, _ := strings.Cut(title, ":")
	text = strings.ToLower(strings.TrimSpace(text))

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ',':
			// dropped entirely
		default:
			// spaces, periods, parentheses and anything else separate tokens
			b.WriteByte('-')
		}
	}

	slug := b.String()
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}
