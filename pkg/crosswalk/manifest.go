// Package crosswalk assembles mapping records stating how controls in a
// source framework relate to controls in a target framework, validates
// them against a known catalog, and partitions the result into mapped
// entries, source gaps, and target gaps.
package crosswalk

import (
	"fmt"
	"os"

	"github.com/coolbeans/crossmap/pkg/identifier"
	"gopkg.in/yaml.v3"
)

// Manifest configures one crosswalk build: which catalog resources the
// mapping joins, the identifier notation on each side, and the defaults
// attached to mapping records that carry no per-row classification.
type Manifest struct {
	// SourceResource and TargetResource are the resource references
	// written into every mapping record, conventionally the catalog
	// artifact paths.
	SourceResource string `yaml:"source_resource"`
	TargetResource string `yaml:"target_resource"`

	// SourceNotation and TargetNotation name the identifier notations of
	// the two sides ("dotted", "dash-enhancement", "triple-segment").
	SourceNotation string `yaml:"source_notation"`
	TargetNotation string `yaml:"target_notation"`

	// DefaultRelationship is attached to mapping records built from rows
	// with no classification.
	DefaultRelationship string `yaml:"default_relationship"`

	// Confidence is the fixed confidence value for mapped records.
	Confidence string `yaml:"confidence"`

	// LeafSourcesOnly drops rows whose source identifier is
	// category-level before grouping; only leaf controls participate in
	// mappings.
	LeafSourcesOnly bool `yaml:"leaf_sources_only"`
}

// DefaultManifest returns a manifest with the conventional defaults:
// full confidence and a superset-of relationship for unclassified rows.
func DefaultManifest() Manifest {
	return Manifest{
		DefaultRelationship: "superset-of",
		Confidence:          "100%",
		LeafSourcesOnly:     true,
	}
}

// LoadManifest reads a manifest from a YAML file, filling unset fields
// from DefaultManifest.
func LoadManifest(path string) (Manifest, error) {
	m := DefaultManifest()

	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return m, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// Validate checks the notation names.
func (m Manifest) Validate() error {
	if m.SourceNotation != "" {
		if _, ok := identifier.ParseNotation(m.SourceNotation); !ok {
			return fmt.Errorf("unknown source notation %q", m.SourceNotation)
		}
	}
	if m.TargetNotation != "" {
		if _, ok := identifier.ParseNotation(m.TargetNotation); !ok {
			return fmt.Errorf("unknown target notation %q", m.TargetNotation)
		}
	}
	return nil
}

// notations returns the parsed notation kinds, defaulting each side to
// the dotted notation when unset.
func (m Manifest) notations() (source, target identifier.NotationKind) {
	source = identifier.NotationDotted
	target = identifier.NotationDotted
	if kind, ok := identifier.ParseNotation(m.SourceNotation); ok {
		source = kind
	}
	if kind, ok := identifier.ParseNotation(m.TargetNotation); ok {
		target = kind
	}
	return source, target
}
