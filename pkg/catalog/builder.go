package catalog

import (
	"strings"

	"github.com/coolbeans/crossmap/pkg/identifier"
)

// Row is one record of a framework sheet reduced to the four cells the
// builder reads. Sheets use merged-cell semantics: a non-empty cell opens
// a new node at that level, an empty cell means the row still belongs to
// the most recently opened node.
type Row struct {
	Function    string
	Category    string
	Subcategory string
	Examples    string
}

// Stats reports what a build consumed and what it had to drop. A Category
// or Subcategory cell that arrives before any parent node has been opened
// is dropped silently from the tree — malformed input degrades rather
// than failing — but the drop is counted here so callers can surface it.
type Stats struct {
	Functions         int
	Categories        int
	Controls          int
	DroppedCategories int
	DroppedControls   int
}

// IDStyle selects how group and category identifiers are minted from
// titles. The two styles are never mixed within one catalog.
type IDStyle int

const (
	// StyleAbbrev extracts the parenthesized abbreviation from the title:
	// "GOVERN (GV)" -> "gv". Frameworks that publish abbreviations use
	// this style.
	StyleAbbrev IDStyle = iota

	// StyleSlug slugifies the full title into a hyphen-joined token list:
	// "Access Control (AC)" -> "access-control-ac". Used for frameworks
	// whose sheets carry no abbreviations.
	StyleSlug
)

// Builder accumulates a catalog tree from an ordered row stream. The
// carry-forward pointers to the current function and category reconstruct
// the hierarchy that the flattened sheet encodes through column sparsity.
// A Builder is single-use and not safe for concurrent use.
type Builder struct {
	catalog         *Catalog
	style           IDStyle
	stats           Stats
	currentFunction *Group
	currentCategory *Group
}

// NewBuilder creates a builder that fills the given catalog using
// abbreviation-style group identifiers. The catalog's Groups are appended
// to; metadata is left untouched.
func NewBuilder(c *Catalog) *Builder {
	return &Builder{catalog: c}
}

// NewSlugBuilder creates a builder that mints slug-style group and
// category identifiers instead of abbreviations. Control identifiers
// always come from the subcategory cell's own notation.
func NewSlugBuilder(c *Catalog) *Builder {
	return &Builder{catalog: c, style: StyleSlug}
}

// groupID mints a group or category identifier from its title cell.
func (b *Builder) groupID(title string) string {
	if b.style == StyleSlug {
		return identifier.Slug(title)
	}
	return identifier.Canonicalize(title, identifier.NotationDotted)
}

// Add consumes one row. Cells are processed in hierarchy order: Function
// first, then Category, then Subcategory, so a single row may open a
// function, a category under it, and a control under that.
func (b *Builder) Add(row Row) {
	if row.Function != "" {
		b.currentFunction = &Group{
			ID:    b.groupID(row.Function),
			Class: ClassFunction,
			Title: row.Function,
		}
		b.catalog.Groups = append(b.catalog.Groups, b.currentFunction)
		b.stats.Functions++
	}

	if row.Category != "" {
		category := &Group{
			ID:    b.groupID(row.Category),
			Class: ClassCategory,
			Title: row.Category,
		}
		if b.currentFunction == nil {
			b.stats.DroppedCategories++
		} else {
			b.currentFunction.Groups = append(b.currentFunction.Groups, category)
			b.currentCategory = category
			b.stats.Categories++
		}
	}

	if row.Subcategory != "" {
		control := buildControl(row.Subcategory, row.Examples)
		if b.currentCategory == nil {
			b.stats.DroppedControls++
		} else {
			b.currentCategory.Controls = append(b.currentCategory.Controls, control)
			b.stats.Controls++
		}
	}
}

// Build consumes the remaining rows and returns the finished catalog with
// its build statistics.
func (b *Builder) Build(rows []Row) (*Catalog, Stats) {
	for _, row := range rows {
		b.Add(row)
	}
	return b.catalog, b.stats
}

// buildControl turns a subcategory cell into a Control. The cell text is
// "ID: statement prose"; the portion before the first colon becomes the
// title and the remainder the mandatory statement part. A non-empty
// examples cell becomes an additional example part.
func buildControl(subcategory, examples string) *Control {
	id := identifier.Canonicalize(subcategory, identifier.NotationDotted)

	title, prose, _ := strings.Cut(subcategory, ":")
	control := &Control{
		ID:    id,
		Title: strings.TrimSpace(title),
		Parts: []Part{{
			ID:    id + "_smt",
			Name:  PartStatement,
			Prose: strings.TrimSpace(prose),
		}},
	}

	if examples != "" {
		control.Parts = append(control.Parts, Part{
			ID:    id + "_eg",
			Name:  PartExample,
			Prose: examples,
		})
	}

	return control
}
