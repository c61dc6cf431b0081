// Package relationship classifies free-text change descriptions from
// framework comparison workbooks into a fixed taxonomy of formal
// relationship kinds. The taxonomy encodes a set relationship between two
// framework revisions — does the newer control text contain, omit, or
// overlap the older — with withdrawal and restoration as a lifecycle
// dimension that overrides substantive-change analysis entirely.
package relationship

// Kind is one value of the relationship taxonomy. Exactly one Kind is
// assigned to every classified row.
type Kind string

const (
	// KindEqualTo marks a control with no changes at all.
	KindEqualTo Kind = "equal-to"

	// KindEquivalentTo marks cosmetic or discussion-only changes with the
	// same substance.
	KindEquivalentTo Kind = "equivalent-to"

	// KindSupersetOf marks a control that gained requirements.
	KindSupersetOf Kind = "superset-of"

	// KindSubsetOf marks a control that lost requirements.
	KindSubsetOf Kind = "subset-of"

	// KindIntersectsWith marks overlapping changes in both directions.
	KindIntersectsWith Kind = "intersects-with"

	// KindNoRelationship marks a new control with no counterpart in the
	// other revision.
	KindNoRelationship Kind = "no-relationship"

	// KindWithdrawn marks a control withdrawn in both revisions.
	KindWithdrawn Kind = "withdrawn"

	// KindWithdrawnInSourceOnly marks a control previously withdrawn in
	// the source revision and absent from the target.
	KindWithdrawnInSourceOnly Kind = "withdrawn-in-source-only"

	// KindRestoredInTarget marks a control withdrawn in the source
	// revision and explicitly restored in the target.
	KindRestoredInTarget Kind = "restored-in-target"

	// KindWithdrawnInTargetOnly marks a control active in the source
	// revision and withdrawn in the target.
	KindWithdrawnInTargetOnly Kind = "withdrawn-in-target-only"

	// KindWithdrawnError flags a withdrawal combination the taxonomy
	// considers impossible. Rows with this kind always require manual
	// review; they are never coerced to another kind.
	KindWithdrawnError Kind = "withdrawn-error"
)

// AllKinds lists every taxonomy value in presentation order.
var AllKinds = []Kind{
	KindEqualTo,
	KindEquivalentTo,
	KindSupersetOf,
	KindSubsetOf,
	KindIntersectsWith,
	KindNoRelationship,
	KindWithdrawn,
	KindWithdrawnInSourceOnly,
	KindRestoredInTarget,
	KindWithdrawnInTargetOnly,
	KindWithdrawnError,
}

// String returns the taxonomy label.
func (k Kind) String() string { return string(k) }

// WithdrawnFamily reports whether the kind belongs to the withdrawal
// lifecycle dimension. Withdrawn-family rows are excluded from crosswalk
// output entirely; restoration is not part of the family because restored
// controls re-enter the mapping as source gaps.
func (k Kind) WithdrawnFamily() bool {
	switch k {
	case KindWithdrawn, KindWithdrawnInSourceOnly, KindWithdrawnInTargetOnly, KindWithdrawnError:
		return true
	}
	return false
}

// SourceGap reports whether the kind marks a source control with no
// active counterpart in the target revision: new controls and controls
// restored after withdrawal.
func (k Kind) SourceGap() bool {
	return k == KindNoRelationship || k == KindRestoredInTarget
}

// reviewColors are the ARGB fills used when annotating workbooks for
// manual review. Unknown kinds fall back to white.
var reviewColors = map[Kind]string{
	KindEqualTo:               "C6EFCE",
	KindEquivalentTo:          "FFEB9C",
	KindSubsetOf:              "BDD7EE",
	KindSupersetOf:            "FCE4D6",
	KindIntersectsWith:        "E2EFDA",
	KindNoRelationship:        "F2DCDB",
	KindWithdrawn:             "808080",
	KindWithdrawnInSourceOnly: "D9D9D9",
	KindRestoredInTarget:      "E2CFDD",
	KindWithdrawnInTargetOnly: "C9C9C9",
	KindWithdrawnError:        "FF0000",
}

// ReviewColor returns the hex fill color used for this kind in annotated
// review workbooks.
func (k Kind) ReviewColor() string {
	if color, ok := reviewColors[k]; ok {
		return color
	}
	return "FFFFFF"
}
