package crosswalk

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/coolbeans/crossmap/pkg/relationship"
)

// kindDefinitions documents each taxonomy value in the summary report.
var kindDefinitions = map[relationship.Kind]string{
	relationship.KindEqualTo:               "No changes at all between the revisions",
	relationship.KindEquivalentTo:          "Cosmetic or discussion-only changes; same substance",
	relationship.KindSupersetOf:            "The source revision added requirements",
	relationship.KindSubsetOf:              "The source revision removed requirements",
	relationship.KindIntersectsWith:        "Overlapping changes in both directions",
	relationship.KindNoRelationship:        "New control; no counterpart in the other revision",
	relationship.KindWithdrawn:             "Withdrawn in both revisions",
	relationship.KindWithdrawnInSourceOnly: "Withdrawn in the source revision, absent from the target",
	relationship.KindRestoredInTarget:      "Withdrawn in the source revision, restored in the target",
	relationship.KindWithdrawnInTargetOnly: "Active in the source revision, withdrawn in the target",
	relationship.KindWithdrawnError:        "Unexpected withdrawal combination; requires manual review",
}

// Summary renders a markdown report covering the classification
// distribution and the crosswalk partition statistics.
func Summary(title string, dist relationship.Distribution, stats Stats) string {
	var b strings.Builder
	total := dist.Total()

	fmt.Fprintf(&b, "# %s\n\n", title)
	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "Total controls analyzed: **%d**\n\n", total)

	b.WriteString("## Relationship Distribution\n\n")
	b.WriteString("| Relationship | Count | Percentage |\n")
	b.WriteString("|--------------|-------|------------|\n")
	for _, kind := range dist.Kinds() {
		count := dist[kind]
		pct := 0.0
		if total > 0 {
			pct = float64(count) / float64(total) * 100
		}
		fmt.Fprintf(&b, "| %s | %d | %.1f%% |\n", kind, count, pct)
	}

	b.WriteString("\n## Mapping Statistics\n\n")
	fmt.Fprintf(&b, "- **Mapped controls**: %d (controls with active relationships)\n", stats.Mapped)
	fmt.Fprintf(&b, "- **Source gaps**: %d (new or restored controls)\n", stats.SourceGaps)
	fmt.Fprintf(&b, "  - New controls (no-relationship): %d\n", stats.NewControls)
	fmt.Fprintf(&b, "  - Restored controls (restored-in-target): %d\n", stats.RestoredControls)
	fmt.Fprintf(&b, "- **Excluded**: %d (withdrawn-family controls not in the output)\n", stats.Excluded)
	fmt.Fprintf(&b, "- **Total output rows**: %d\n", stats.Mapped+stats.SourceGaps)

	b.WriteString("\n## Relationship Definitions\n\n")
	b.WriteString("| Relationship | Review Color | Definition |\n")
	b.WriteString("|--------------|--------------|------------|\n")
	for _, kind := range relationship.AllKinds {
		fmt.Fprintf(&b, "| %s | #%s | %s |\n", kind, kind.ReviewColor(), kindDefinitions[kind])
	}

	b.WriteString("\n## Notes\n\n")
	b.WriteString("- Restored controls are included in the output as source gaps\n")
	b.WriteString("- Withdrawn-family controls are excluded from the output entirely\n")

	return b.String()
}

// SaveSummary writes the markdown summary to path, creating parent
// directories.
func SaveSummary(title string, dist relationship.Distribution, stats Stats, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(Summary(title, dist, stats)), 0644); err != nil {
		return fmt.Errorf("writing summary %s: %w", path, err)
	}
	return nil
}
