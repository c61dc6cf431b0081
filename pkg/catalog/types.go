// Package catalog models a security-control framework as a strict
// three-level tree of Function, Category, and Control nodes, and builds
// that tree from the ordered, sparsely-filled row streams found in
// framework spreadsheets.
package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Node classes for Group.Class.
const (
	ClassFunction = "function"
	ClassCategory = "category"
)

// Part names for Part.Name.
const (
	PartStatement = "statement"
	PartExample   = "example"
)

// Document is the top-level catalog artifact as stored on disk.
type Document struct {
	Catalog *Catalog `json:"catalog"`
}

// Catalog is one framework's control tree with its metadata.
type Catalog struct {
	UUID     string   `json:"uuid"`
	Metadata Metadata `json:"metadata"`
	Groups   []*Group `json:"groups"`
}

// Metadata describes the catalog artifact.
type Metadata struct {
	Title        string `json:"title"`
	LastModified string `json:"last-modified"`
	Version      string `json:"version"`
	OSCALVersion string `json:"oscal-version"`
}

// Group is a Function or Category node. Function groups hold category
// Groups; category groups hold Controls. The Class field carries the tag.
type Group struct {
	ID       string     `json:"id"`
	Class    string     `json:"class"`
	Title    string     `json:"title"`
	Groups   []*Group   `json:"groups,omitempty"`
	Controls []*Control `json:"controls,omitempty"`
}

// Control is a leaf node holding the control statement and any
// implementation example as ordered parts.
type Control struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Parts []Part `json:"parts"`
}

// Part is one prose component of a control.
type Part struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Prose string `json:"prose"`
}

// NewCatalog creates an empty catalog with a fresh UUID and the metadata
// timestamp set to now.
func NewCatalog(title, version string) *Catalog {
	return &Catalog{
		UUID: uuid.NewString(),
		Metadata: Metadata{
			Title:        title,
			LastModified: time.Now().UTC().Format(time.RFC3339),
			Version:      version,
			OSCALVersion: "1.1.2",
		},
	}
}

// ControlIDs returns the identifiers of every node in the catalog that
// carries both an id and a title — functions, categories, and controls —
// as a set. Crosswalk validation resolves target identifiers against this
// set, and gap analysis filters it down to leaf controls.
func (c *Catalog) ControlIDs() map[string]bool {
	ids := make(map[string]bool)
	for _, function := range c.Groups {
		collectGroupIDs(function, ids)
	}
	return ids
}

func collectGroupIDs(g *Group, ids map[string]bool) {
	if g.ID != "" && g.Title != "" {
		ids[g.ID] = true
	}
	for _, child := range g.Groups {
		collectGroupIDs(child, ids)
	}
	for _, control := range g.Controls {
		if control.ID != "" && control.Title != "" {
			ids[control.ID] = true
		}
	}
}
