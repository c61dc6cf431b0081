package relationship

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PhraseSet holds the phrase lists the classifier matches against. The
// lists are configuration data, not constants: framework revisions phrase
// their change notes differently, and extending a list must never require
// touching the classification algorithm. The zero value matches nothing;
// start from DefaultPhraseSet or a loaded file.
type PhraseSet struct {
	// Adds phrases signal added requirements.
	Adds []string `yaml:"adds"`

	// Removes phrases signal removed requirements.
	Removes []string `yaml:"removes"`

	// ChangesControl phrases signal edits to control text or parameters,
	// which always classify as intersects-with.
	ChangesControl []string `yaml:"changes_control"`

	// Neutral phrases open lines that carry no substantive change:
	// discussion or title edits and the bare no-change marker.
	Neutral []string `yaml:"neutral"`

	// New phrases signal a control introduced in the source revision with
	// no target counterpart.
	New []string `yaml:"new"`

	// NoChangeMarker is the exact changed-elements value meaning "no
	// change at all".
	NoChangeMarker string `yaml:"no_change_marker"`

	// WithdrawnInSource, PreviouslyWithdrawnInSource, and
	// RestoredInTarget are the lifecycle markers searched for in the
	// change-details text.
	WithdrawnInSource           string `yaml:"withdrawn_in_source"`
	PreviouslyWithdrawnInSource string `yaml:"previously_withdrawn_in_source"`
	RestoredInTarget            string `yaml:"restored_in_target"`

	// WithdrawnMarker is the exact changed-elements value marking a
	// control withdrawn in the target revision.
	WithdrawnMarker string `yaml:"withdrawn_marker"`
}

// DefaultPhraseSet returns the phrase lists used by the NIST SP 800-53
// rev4-to-rev5 comparison workbook.
func DefaultPhraseSet() PhraseSet {
	return PhraseSet{
		Adds:           []string{"adds control text", "adds parameter"},
		Removes:        []string{"removes parameter", "removes control text"},
		ChangesControl: []string{"changes control text", "changes parameter"},
		Neutral:        []string{"changes discussion", "adds discussion", "changes title", "adds to", "n"},
		New:            []string{"new base control", "new control enhancement"},
		NoChangeMarker: "n",

		WithdrawnInSource:           "withdrawn in source",
		PreviouslyWithdrawnInSource: "previously withdrawn in source",
		RestoredInTarget:            "restored in target",
		WithdrawnMarker:             "withdrawn",
	}
}

// LoadPhraseSet reads a phrase set from a YAML file. Fields absent from
// the file keep the default value, so a file can override a single list.
func LoadPhraseSet(path string) (PhraseSet, error) {
	ps := DefaultPhraseSet()

	data, err := os.ReadFile(path)
	if err != nil {
		return ps, fmt.Errorf("reading phrase set %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &ps); err != nil {
		return ps, fmt.Errorf("parsing phrase set %s: %w", path, err)
	}
	if err := ps.Validate(); err != nil {
		return ps, fmt.Errorf("phrase set %s: %w", path, err)
	}
	return ps, nil
}

// Validate checks that the markers the cascade depends on are present.
func (ps PhraseSet) Validate() error {
	if ps.NoChangeMarker == "" {
		return fmt.Errorf("no_change_marker must not be empty")
	}
	if ps.WithdrawnMarker == "" {
		return fmt.Errorf("withdrawn_marker must not be empty")
	}
	if ps.WithdrawnInSource == "" || ps.RestoredInTarget == "" || ps.PreviouslyWithdrawnInSource == "" {
		return fmt.Errorf("withdrawal lifecycle markers must not be empty")
	}
	return nil
}

// containsAny reports whether text contains any of the phrases.
func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if phrase != "" && strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

// startsWithAny reports whether line begins with any of the phrases.
func startsWithAny(line string, phrases []string) bool {
	for _, phrase := range phrases {
		if phrase != "" && strings.HasPrefix(line, phrase) {
			return true
		}
	}
	return false
}
