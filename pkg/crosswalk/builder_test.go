package crosswalk

import (
	"bytes"
	"strings"
	"testing"

	"github.com/coolbeans/crossmap/pkg/relationship"
)

func csfManifest() Manifest {
	m := DefaultManifest()
	m.SourceResource = "catalogs/csf/catalog.json"
	m.TargetResource = "catalogs/sp800-53/catalog.json"
	m.SourceNotation = "dotted"
	m.TargetNotation = "dash-enhancement"
	return m
}

func TestBuild_GroupsAndDeduplicates(t *testing.T) {
	rows := []Row{
		{SourceRaw: "GV.OC-01", TargetRaw: "AC-01"},
		{SourceRaw: "GV.OC-01", TargetRaw: "PM-1"},
		{SourceRaw: "GV.OC-01", TargetRaw: "AC-01"}, // duplicate target
		{SourceRaw: "GV.OC-02", TargetRaw: "AC-2(1)"},
		{SourceRaw: "GV.OC-03", TargetRaw: ""}, // no target: filtered
	}

	result := NewBuilder(csfManifest()).Build(rows, nil, nil)

	if len(result.Mapped) != 2 {
		t.Fatalf("expected 2 mapped records, got %d", len(result.Mapped))
	}

	first := result.Mapped[0]
	if first.SourceID != "gv.oc-01" {
		t.Errorf("record 0 source: expected %q, got %q", "gv.oc-01", first.SourceID)
	}
	if got := strings.Join(first.TargetIDs, " "); got != "ac-1 pm-1" {
		t.Errorf("record 0 targets: expected %q, got %q", "ac-1 pm-1", got)
	}
	if first.Relationship != "superset-of" {
		t.Errorf("record 0 relationship: expected default %q, got %q", "superset-of", first.Relationship)
	}
	if first.Confidence != "100%" {
		t.Errorf("record 0 confidence: expected %q, got %q", "100%", first.Confidence)
	}

	if result.Mapped[1].TargetIDs[0] != "ac-2.1" {
		t.Errorf("record 1 target: expected %q, got %q", "ac-2.1", result.Mapped[1].TargetIDs[0])
	}
}

func TestBuild_CategoryLevelSourcesFiltered(t *testing.T) {
	rows := []Row{
		{SourceRaw: "GV.OC", TargetRaw: "AC-01"},    // category-level
		{SourceRaw: "GV.OC-01", TargetRaw: "AC-01"}, // leaf
	}

	result := NewBuilder(csfManifest()).Build(rows, nil, nil)
	if len(result.Mapped) != 1 || result.Mapped[0].SourceID != "gv.oc-01" {
		t.Fatalf("expected only the leaf source mapped, got %+v", result.Mapped)
	}
}

func TestBuild_TargetValidationWarns(t *testing.T) {
	rows := []Row{
		{SourceRaw: "GV.OC-01", TargetRaw: "AC-01"},
		{SourceRaw: "GV.OC-02", TargetRaw: "ZZ-99"},
	}
	targetIDs := map[string]bool{"ac-1": true}

	result := NewBuilder(csfManifest()).Build(rows, targetIDs, nil)

	if len(result.UnknownTargets) != 1 || result.UnknownTargets[0] != "zz-99" {
		t.Fatalf("expected unknown target [zz-99], got %v", result.UnknownTargets)
	}
	// The mapping referencing the unknown target is kept, never dropped.
	if len(result.Mapped) != 2 {
		t.Errorf("expected 2 mapped records despite unknown target, got %d", len(result.Mapped))
	}
}

func TestBuild_SourceCatalogGaps(t *testing.T) {
	rows := []Row{
		{SourceRaw: "GV.OC-01", TargetRaw: "AC-01"},
	}
	sourceIDs := map[string]bool{
		"gv":       true, // function: excluded from gap analysis
		"gv.oc":    true, // category: excluded from gap analysis
		"gv.oc-01": true, // mapped
		"gv.oc-02": true, // gap
		"gv.rm-01": true, // gap
	}

	result := NewBuilder(csfManifest()).Build(rows, nil, sourceIDs)

	if len(result.SourceGaps) != 2 {
		t.Fatalf("expected 2 source gaps, got %d: %+v", len(result.SourceGaps), result.SourceGaps)
	}
	if result.SourceGaps[0].SourceID != "gv.oc-02" || result.SourceGaps[1].SourceID != "gv.rm-01" {
		t.Errorf("gap order: expected [gv.oc-02 gv.rm-01], got [%s %s]",
			result.SourceGaps[0].SourceID, result.SourceGaps[1].SourceID)
	}

	gap := result.SourceGaps[0]
	if len(gap.TargetIDs) != 0 || gap.Relationship != "" || gap.Confidence != "" {
		t.Errorf("gap record must have empty targets, relationship, and confidence: %+v", gap)
	}
}

// Every leaf source control appears in exactly one of mapped or source
// gaps, never both and never neither.
func TestBuild_MappedAndGapsPartition(t *testing.T) {
	rows := []Row{
		{SourceRaw: "GV.OC-01", TargetRaw: "AC-01"},
		{SourceRaw: "GV.OC-02", TargetRaw: "AC-02"},
	}
	sourceIDs := map[string]bool{
		"gv.oc-01": true, "gv.oc-02": true, "gv.oc-03": true, "gv.oc": true,
	}

	result := NewBuilder(csfManifest()).Build(rows, nil, sourceIDs)

	seen := make(map[string]int)
	for _, record := range result.Mapped {
		seen[record.SourceID]++
	}
	for _, record := range result.SourceGaps {
		seen[record.SourceID]++
	}
	for id := range sourceIDs {
		if id == "gv.oc" {
			if seen[id] != 0 {
				t.Errorf("category id %q must not appear in the partition", id)
			}
			continue
		}
		if seen[id] != 1 {
			t.Errorf("leaf id %q: expected exactly one partition entry, got %d", id, seen[id])
		}
	}
}

func comparisonManifest() Manifest {
	m := DefaultManifest()
	m.SourceResource = "catalogs/rev5/catalog.json"
	m.TargetResource = "catalogs/rev4/catalog.json"
	m.SourceNotation = "dash-enhancement"
	m.TargetNotation = "triple-segment"
	m.LeafSourcesOnly = false
	return m
}

func TestBuild_ClassifiedRows(t *testing.T) {
	rows := []Row{
		{SourceRaw: "AC-1", TargetRaw: "AC-01-00", Kind: relationship.KindEqualTo},
		{SourceRaw: "AC-2(1)", TargetRaw: "AC-02-01", Kind: relationship.KindSupersetOf},
		{SourceRaw: "AC-34", TargetRaw: "", Kind: relationship.KindNoRelationship},
		{SourceRaw: "PS-9", TargetRaw: "PS-09-00", Kind: relationship.KindRestoredInTarget},
		{SourceRaw: "AC-18(1)", TargetRaw: "AC-18-01", Kind: relationship.KindWithdrawnInTargetOnly},
		{SourceRaw: "SA-7", TargetRaw: "SA-07-00", Kind: relationship.KindWithdrawnInSourceOnly},
		{SourceRaw: "SI-30", TargetRaw: "SI-30-00", Kind: relationship.KindWithdrawnError},
	}

	result := NewBuilder(comparisonManifest()).Build(rows, nil, nil)

	if len(result.Mapped) != 2 {
		t.Fatalf("expected 2 mapped records, got %d", len(result.Mapped))
	}
	if result.Mapped[0].Relationship != "equal-to" {
		t.Errorf("mapped 0 relationship: expected equal-to, got %s", result.Mapped[0].Relationship)
	}
	if result.Mapped[1].SourceID != "ac-2.1" || result.Mapped[1].TargetIDs[0] != "ac-2.1" {
		t.Errorf("mapped 1: expected ac-2.1 -> ac-2.1, got %s -> %v",
			result.Mapped[1].SourceID, result.Mapped[1].TargetIDs)
	}

	// New and restored controls become source gaps even when the row
	// carried a target.
	if len(result.SourceGaps) != 2 {
		t.Fatalf("expected 2 source gaps, got %d", len(result.SourceGaps))
	}
	if result.SourceGaps[0].SourceID != "ac-34" || result.SourceGaps[1].SourceID != "ps-9" {
		t.Errorf("gaps: expected [ac-34 ps-9], got [%s %s]",
			result.SourceGaps[0].SourceID, result.SourceGaps[1].SourceID)
	}
	if result.Stats.NewControls != 1 || result.Stats.RestoredControls != 1 {
		t.Errorf("gap stats: expected 1 new, 1 restored, got %d/%d",
			result.Stats.NewControls, result.Stats.RestoredControls)
	}

	// Withdrawn-family rows are excluded from the output but counted,
	// and withdrawn-error rows are additionally flagged for review.
	if result.Stats.Excluded != 3 {
		t.Errorf("excluded: expected 3, got %d", result.Stats.Excluded)
	}
	if len(result.NeedsReview) != 1 || result.NeedsReview[0] != "si-30" {
		t.Errorf("needs review: expected [si-30], got %v", result.NeedsReview)
	}
}

func TestWriteCSV_TemplateShape(t *testing.T) {
	rows := []Row{
		{SourceRaw: "GV.OC-01", TargetRaw: "AC-01"},
	}
	sourceIDs := map[string]bool{"gv.oc-01": true, "gv.oc-02": true}
	result := NewBuilder(csfManifest()).Build(rows, nil, sourceIDs)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, result); err != nil {
		t.Fatalf("WriteCSV returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 CSV lines (header, descriptions, 1 mapped, 1 gap), got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "$$Source_Resource,$$Target_Resource,$$Map_Source_ID_Ref_list") {
		t.Errorf("header row: got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "A reference to a resource") {
		t.Errorf("description row: got %q", lines[1])
	}
	if !strings.Contains(lines[2], "gv.oc-01,ac-1,superset-of,100%") {
		t.Errorf("mapped row: got %q", lines[2])
	}
	if !strings.Contains(lines[3], "gv.oc-02,,,,") {
		t.Errorf("gap row: got %q", lines[3])
	}
}

func TestSummary_Content(t *testing.T) {
	dist := relationship.Distribution{
		relationship.KindEqualTo:  2,
		relationship.KindSubsetOf: 1,
	}
	stats := Stats{Mapped: 3, SourceGaps: 1, NewControls: 1, Excluded: 2}

	report := Summary("Rev5 to Rev4 Comparison", dist, stats)

	for _, want := range []string{
		"# Rev5 to Rev4 Comparison",
		"Total controls analyzed: **3**",
		"| equal-to | 2 | 66.7% |",
		"| subset-of | 1 | 33.3% |",
		"- **Mapped controls**: 3",
		"- **Excluded**: 2",
		"| withdrawn-error | #FF0000 | Unexpected withdrawal combination; requires manual review |",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}

func TestLoadManifest_Validation(t *testing.T) {
	m := DefaultManifest()
	m.SourceNotation = "hieroglyphic"
	if err := m.Validate(); err == nil {
		t.Error("expected error for unknown notation")
	}

	m = DefaultManifest()
	m.SourceNotation = "dotted"
	m.TargetNotation = "dash-enhancement"
	if err := m.Validate(); err != nil {
		t.Errorf("valid manifest rejected: %v", err)
	}
}
