package relationship

import "strings"

// Classifier assigns a relationship Kind to a comparison row from its
// free-text change signals. Classification is deterministic and total:
// rules are evaluated in strict precedence order and the first match
// wins, so a later rule can never override an earlier one.
type Classifier struct {
	phrases PhraseSet
	rules   []rule
}

// rule pairs a predicate with its resulting kind. Keeping the cascade as
// an ordered list makes the precedence explicit and each rule
// independently testable.
type rule struct {
	name  string
	match func(*signals) bool
	kind  Kind
}

// signals holds the normalized row text and the derived values shared by
// the later cascade rules, computed once per row.
type signals struct {
	changedElements string
	changeDetails   string

	withdrawnInSource   bool
	restoredInTarget    bool
	previouslyWithdrawn bool
	withdrawnMarker     bool

	substantiveLines []string
	hasAdds          bool
	hasRemoves       bool
	hasChangesCtrl   bool
}

// NewClassifier creates a classifier over the given phrase set.
func NewClassifier(phrases PhraseSet) *Classifier {
	c := &Classifier{phrases: phrases}
	c.rules = []rule{
		{
			name: "restored-in-target",
			match: func(s *signals) bool {
				return s.withdrawnInSource && s.restoredInTarget
			},
			kind: KindRestoredInTarget,
		},
		{
			name: "withdrawn-in-source-only",
			match: func(s *signals) bool {
				return s.previouslyWithdrawn
			},
			kind: KindWithdrawnInSourceOnly,
		},
		{
			name: "withdrawn-both",
			match: func(s *signals) bool {
				return s.withdrawnInSource && s.withdrawnMarker && !s.restoredInTarget
			},
			kind: KindWithdrawn,
		},
		{
			name: "withdrawn-in-target-only",
			match: func(s *signals) bool {
				return s.withdrawnMarker
			},
			kind: KindWithdrawnInTargetOnly,
		},
		{
			// A withdrawal note that fits none of the combinations above
			// is a data condition the taxonomy considers impossible; it
			// is surfaced for manual review, never silently resolved.
			name: "withdrawn-error",
			match: func(s *signals) bool {
				return s.withdrawnInSource
			},
			kind: KindWithdrawnError,
		},
		{
			name: "new-control",
			match: func(s *signals) bool {
				return containsAny(s.changedElements, phrases.New)
			},
			kind: KindNoRelationship,
		},
		{
			name: "no-change",
			match: func(s *signals) bool {
				return s.changedElements == phrases.NoChangeMarker
			},
			kind: KindEqualTo,
		},
		{
			name: "neutral-only",
			match: func(s *signals) bool {
				return len(s.substantiveLines) == 0
			},
			kind: KindEquivalentTo,
		},
		{
			name: "changes-control",
			match: func(s *signals) bool {
				return s.hasChangesCtrl
			},
			kind: KindIntersectsWith,
		},
		{
			name: "adds-and-removes",
			match: func(s *signals) bool {
				return s.hasAdds && s.hasRemoves
			},
			kind: KindIntersectsWith,
		},
		{
			name: "adds-only",
			match: func(s *signals) bool {
				return s.hasAdds
			},
			kind: KindSupersetOf,
		},
		{
			name: "removes-only",
			match: func(s *signals) bool {
				return s.hasRemoves
			},
			kind: KindSubsetOf,
		},
	}
	return c
}

// Classify maps a row's changed-elements and change-details text to one
// taxonomy value. Rows whose signals match no rule at all classify as
// intersects-with, the ambiguous-overlap fallback.
func (c *Classifier) Classify(changedElements, changeDetails string) Kind {
	s := c.prepare(changedElements, changeDetails)
	for _, r := range c.rules {
		if r.match(s) {
			return r.kind
		}
	}
	return KindIntersectsWith
}

// prepare normalizes the row text and computes the derived signals.
func (c *Classifier) prepare(changedElements, changeDetails string) *signals {
	s := &signals{
		changedElements: strings.ToLower(strings.TrimSpace(changedElements)),
		changeDetails:   strings.ToLower(strings.TrimSpace(changeDetails)),
	}

	s.withdrawnInSource = strings.Contains(s.changeDetails, c.phrases.WithdrawnInSource)
	s.restoredInTarget = strings.Contains(s.changeDetails, c.phrases.RestoredInTarget)
	s.previouslyWithdrawn = strings.Contains(s.changeDetails, c.phrases.PreviouslyWithdrawnInSource)
	s.withdrawnMarker = s.changedElements == c.phrases.WithdrawnMarker

	for _, line := range strings.Split(s.changedElements, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || startsWithAny(line, c.phrases.Neutral) {
			continue
		}
		s.substantiveLines = append(s.substantiveLines, line)
	}

	s.hasAdds = containsAny(s.changedElements, c.phrases.Adds)
	s.hasRemoves = containsAny(s.changedElements, c.phrases.Removes)
	s.hasChangesCtrl = containsAny(s.changedElements, c.phrases.ChangesControl)

	return s
}
