package relationship

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClassify_WithdrawalLifecycle(t *testing.T) {
	c := NewClassifier(DefaultPhraseSet())

	tests := []struct {
		name            string
		changedElements string
		changeDetails   string
		expected        Kind
	}{
		{
			name:            "restored in target",
			changedElements: "",
			changeDetails:   "Withdrawn in source; restored in target as a base control.",
			expected:        KindRestoredInTarget,
		},
		{
			name:            "previously withdrawn in source",
			changedElements: "",
			changeDetails:   "Previously withdrawn in source.",
			expected:        KindWithdrawnInSourceOnly,
		},
		{
			name:            "withdrawn in both revisions",
			changedElements: "Withdrawn",
			changeDetails:   "Withdrawn in source.",
			expected:        KindWithdrawn,
		},
		{
			name:            "withdrawn in target only",
			changedElements: "Withdrawn",
			changeDetails:   "Incorporated into AC-2.",
			expected:        KindWithdrawnInTargetOnly,
		},
		{
			name:            "impossible combination flags review",
			changedElements: "Changes control text",
			changeDetails:   "Withdrawn in source.",
			expected:        KindWithdrawnError,
		},
	}

	for _, tc := range tests {
		result := c.Classify(tc.changedElements, tc.changeDetails)
		if result != tc.expected {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.expected, result)
		}
	}
}

// Restoration outranks the bare withdrawn marker: a row carrying both must
// classify as restored-in-target, never withdrawn-in-target-only.
func TestClassify_RestorationOutranksWithdrawnMarker(t *testing.T) {
	c := NewClassifier(DefaultPhraseSet())

	result := c.Classify("withdrawn", "withdrawn in source; restored in target")
	if result != KindRestoredInTarget {
		t.Errorf("expected %s, got %s", KindRestoredInTarget, result)
	}
}

func TestClassify_SubstantiveChanges(t *testing.T) {
	c := NewClassifier(DefaultPhraseSet())

	tests := []struct {
		name            string
		changedElements string
		changeDetails   string
		expected        Kind
	}{
		{"explicit no change", "N", "", KindEqualTo},
		{"new base control", "New base control", "", KindNoRelationship},
		{"new enhancement", "New control enhancement", "", KindNoRelationship},
		{"discussion only", "Changes discussion", "", KindEquivalentTo},
		{"title only", "Changes title\nAdds discussion", "", KindEquivalentTo},
		{"empty signals", "", "", KindEquivalentTo},
		{"adds only", "Adds control text", "", KindSupersetOf},
		{"adds parameter only", "Adds parameter", "", KindSupersetOf},
		{"removes only", "Removes parameter", "", KindSubsetOf},
		{"adds and removes", "Adds control text\nRemoves parameter", "", KindIntersectsWith},
		{"changes control text", "Changes control text", "", KindIntersectsWith},
		{"changes control outranks adds", "Changes parameter\nAdds control text", "", KindIntersectsWith},
		{"ambiguous substantive line", "Restructured entirely", "", KindIntersectsWith},
	}

	for _, tc := range tests {
		result := c.Classify(tc.changedElements, tc.changeDetails)
		if result != tc.expected {
			t.Errorf("%s: Classify(%q, %q): expected %s, got %s",
				tc.name, tc.changedElements, tc.changeDetails, tc.expected, result)
		}
	}
}

// Neutral lines are dropped line-by-line before the substantive check, so
// a row mixing discussion edits with an added parameter still counts as a
// substantive addition.
func TestClassify_NeutralLinesDropped(t *testing.T) {
	c := NewClassifier(DefaultPhraseSet())

	result := c.Classify("Changes discussion\nAdds parameter", "")
	if result != KindSupersetOf {
		t.Errorf("expected %s, got %s", KindSupersetOf, result)
	}
}

func TestLoadPhraseSet_OverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phrases.yaml")
	content := "adds:\n  - introduces requirement\nwithdrawn_in_source: withdrawn in rev4\nrestored_in_target: restored in rev5\npreviously_withdrawn_in_source: previously withdrawn in rev4\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	ps, err := LoadPhraseSet(path)
	if err != nil {
		t.Fatalf("LoadPhraseSet returned error: %v", err)
	}

	if len(ps.Adds) != 1 || ps.Adds[0] != "introduces requirement" {
		t.Errorf("adds: expected override, got %v", ps.Adds)
	}
	// Unset fields keep defaults.
	if ps.NoChangeMarker != "n" {
		t.Errorf("no_change_marker: expected default %q, got %q", "n", ps.NoChangeMarker)
	}

	c := NewClassifier(ps)
	if result := c.Classify("Introduces requirement for MFA", ""); result != KindSupersetOf {
		t.Errorf("overridden adds phrase: expected %s, got %s", KindSupersetOf, result)
	}
	if result := c.Classify("", "control previously withdrawn in rev4"); result != KindWithdrawnInSourceOnly {
		t.Errorf("overridden lifecycle marker: expected %s, got %s", KindWithdrawnInSourceOnly, result)
	}
}

func TestLoadPhraseSet_MissingFile(t *testing.T) {
	if _, err := LoadPhraseSet(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing phrase set file")
	}
}

func TestKind_WithdrawnFamily(t *testing.T) {
	family := []Kind{KindWithdrawn, KindWithdrawnInSourceOnly, KindWithdrawnInTargetOnly, KindWithdrawnError}
	for _, k := range family {
		if !k.WithdrawnFamily() {
			t.Errorf("%s: expected WithdrawnFamily", k)
		}
	}
	for _, k := range []Kind{KindRestoredInTarget, KindEqualTo, KindNoRelationship} {
		if k.WithdrawnFamily() {
			t.Errorf("%s: expected not WithdrawnFamily", k)
		}
	}
}

func TestKind_ReviewColor(t *testing.T) {
	if color := KindWithdrawnError.ReviewColor(); color != "FF0000" {
		t.Errorf("withdrawn-error color: expected FF0000, got %s", color)
	}
	if color := Kind("unheard-of").ReviewColor(); color != "FFFFFF" {
		t.Errorf("unknown kind color: expected FFFFFF, got %s", color)
	}
}

func TestDistribution(t *testing.T) {
	d := make(Distribution)
	d.Observe(KindEqualTo)
	d.Observe(KindEqualTo)
	d.Observe(KindSubsetOf)

	if d.Total() != 3 {
		t.Errorf("total: expected 3, got %d", d.Total())
	}
	kinds := d.Kinds()
	if len(kinds) != 2 || kinds[0] != KindEqualTo || kinds[1] != KindSubsetOf {
		t.Errorf("kinds: expected [equal-to subset-of], got %v", kinds)
	}
}
