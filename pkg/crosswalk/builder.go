package crosswalk

import (
	"sort"

	"github.com/coolbeans/crossmap/pkg/identifier"
	"github.com/coolbeans/crossmap/pkg/relationship"
)

// Row is one raw comparison record: a source identifier, the target
// identifier it maps to, and an optional relationship classification.
// An empty Kind means the row reached the builder unclassified and takes
// the manifest's default relationship.
type Row struct {
	SourceRaw string
	TargetRaw string
	Kind      relationship.Kind
}

// MappingRecord is one assembled crosswalk entry. TargetIDs is empty for
// gap records, and Relationship is empty whenever TargetIDs is empty:
// a gap record states "this control exists but has no counterpart".
type MappingRecord struct {
	SourceResource string
	TargetResource string
	SourceID       string
	TargetIDs      []string
	Relationship   string
	Confidence     string
	Coverage       string
}

// Stats summarizes one build for reporting.
type Stats struct {
	Mapped           int
	SourceGaps       int
	NewControls      int
	RestoredControls int
	Excluded         int
}

// Result partitions a build's outcome. Every leaf source control lands in
// exactly one of Mapped or SourceGaps; withdrawn-family rows are excluded
// from both and only counted. UnknownTargets lists canonical target
// identifiers that are absent from the target catalog — the mappings that
// reference them are kept, never dropped or corrected, but flagged for
// review. NeedsReview lists source identifiers whose rows classified as
// withdrawn-error.
type Result struct {
	Mapped     []MappingRecord
	SourceGaps []MappingRecord
	TargetGaps []MappingRecord

	UnknownTargets []string
	NeedsReview    []string
	Stats          Stats
}

// Builder assembles crosswalk results under one manifest. Safe to reuse
// across builds; each Build call is independent.
type Builder struct {
	manifest Manifest
}

// NewBuilder creates a builder over the given manifest.
func NewBuilder(m Manifest) *Builder {
	return &Builder{manifest: m}
}

// Build assembles the crosswalk from raw comparison rows.
//
// targetCatalogIDs is the identifier set of the target catalog, used only
// for validation; nil skips validation. sourceCatalogIDs is the
// identifier set of the source catalog, used to find source controls
// absent from every mapping group; nil skips catalog gap analysis.
//
// Rows sharing one canonical source identifier collapse into a single
// record whose target list is the deduplicated, insertion-ordered union
// of their targets.
func (b *Builder) Build(rows []Row, targetCatalogIDs, sourceCatalogIDs map[string]bool) *Result {
	sourceNotation, targetNotation := b.manifest.notations()
	result := &Result{}

	type group struct {
		targets []string
		seen    map[string]bool
		kind    relationship.Kind
	}
	groups := make(map[string]*group)
	var groupOrder []string

	gapSeen := make(map[string]bool)
	var gapOrder []MappingRecord

	for _, row := range rows {
		sourceID := identifier.Canonicalize(row.SourceRaw, sourceNotation)
		if sourceID == "" {
			continue
		}
		if b.manifest.LeafSourcesOnly && !identifier.IsLeafControl(sourceID) {
			continue
		}

		if row.Kind == relationship.KindWithdrawnError {
			result.NeedsReview = append(result.NeedsReview, sourceID)
		}
		if row.Kind.WithdrawnFamily() {
			result.Stats.Excluded++
			continue
		}
		if row.Kind.SourceGap() {
			if !gapSeen[sourceID] {
				gapSeen[sourceID] = true
				gapOrder = append(gapOrder, b.gapRecord(sourceID))
				if row.Kind == relationship.KindRestoredInTarget {
					result.Stats.RestoredControls++
				} else {
					result.Stats.NewControls++
				}
			}
			continue
		}

		targetID := identifier.Canonicalize(row.TargetRaw, targetNotation)
		if targetID == "" {
			continue
		}

		g, ok := groups[sourceID]
		if !ok {
			g = &group{seen: make(map[string]bool)}
			groups[sourceID] = g
			groupOrder = append(groupOrder, sourceID)
		}
		if !g.seen[targetID] {
			g.seen[targetID] = true
			g.targets = append(g.targets, targetID)
		}
		if g.kind == "" {
			g.kind = row.Kind
		}
	}

	for _, sourceID := range groupOrder {
		g := groups[sourceID]
		rel := string(g.kind)
		if rel == "" {
			rel = b.manifest.DefaultRelationship
		}
		result.Mapped = append(result.Mapped, MappingRecord{
			SourceResource: b.manifest.SourceResource,
			TargetResource: b.manifest.TargetResource,
			SourceID:       sourceID,
			TargetIDs:      g.targets,
			Relationship:   rel,
			Confidence:     b.manifest.Confidence,
		})
	}
	result.Stats.Mapped = len(result.Mapped)

	result.UnknownTargets = b.validateTargets(result.Mapped, targetCatalogIDs)

	// Source controls present in the catalog but absent from every
	// mapping group are gaps too. Category-level identifiers are skipped:
	// only leaf controls participate in mappings.
	if sourceCatalogIDs != nil {
		var unmapped []string
		for id := range sourceCatalogIDs {
			if !identifier.IsLeafControl(id) {
				continue
			}
			if _, ok := groups[id]; ok {
				continue
			}
			if gapSeen[id] {
				continue
			}
			unmapped = append(unmapped, id)
		}
		sort.Strings(unmapped)
		for _, id := range unmapped {
			gapOrder = append(gapOrder, b.gapRecord(id))
		}
	}

	result.SourceGaps = gapOrder
	result.Stats.SourceGaps = len(gapOrder)
	return result
}

// gapRecord builds a source-gap record: empty target list, empty
// relationship and confidence.
func (b *Builder) gapRecord(sourceID string) MappingRecord {
	return MappingRecord{
		SourceResource: b.manifest.SourceResource,
		TargetResource: b.manifest.TargetResource,
		SourceID:       sourceID,
	}
}

// validateTargets returns the sorted, deduplicated canonical target
// identifiers that do not appear in the target catalog's identifier set.
func (b *Builder) validateTargets(mapped []MappingRecord, targetCatalogIDs map[string]bool) []string {
	if targetCatalogIDs == nil {
		return nil
	}

	seen := make(map[string]bool)
	var unknown []string
	for _, record := range mapped {
		for _, targetID := range record.TargetIDs {
			if targetCatalogIDs[targetID] || seen[targetID] {
				continue
			}
			seen[targetID] = true
			unknown = append(unknown, targetID)
		}
	}
	sort.Strings(unknown)
	return unknown
}
