package annotate

import (
	"iter"

	"github.com/matzehuels/calloutgen/pkg/core/geom"
)

// Property is a pinned inspection property on an annotation, e.g. "width" or
// "fills".
type Property struct {
	Type string `json:"type" yaml:"type"`
}

// Annotation is the read-only annotation payload attached to a design node.
type Annotation struct {
	Label         string     `json:"label,omitempty" yaml:"label,omitempty"`
	LabelMarkdown string     `json:"labelMarkdown,omitempty" yaml:"labelMarkdown,omitempty"`
	Properties    []Property `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Content returns the text a callout displays: LabelMarkdown when set,
// otherwise Label, otherwise the empty string.
func (a Annotation) Content() string {
	if a.LabelMarkdown != "" {
		return a.LabelMarkdown
	}
	return a.Label
}

// NodeRef identifies the node an element was collected from.
type NodeRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Node is the capability view the collector needs from a host node. A node
// without annotations returns nil, one without a bounding box returns false,
// and a leaf yields no children.
type Node interface {
	Ref() NodeRef
	Annotations() []Annotation
	BoundingBox() (geom.Rect, bool)
	Children() iter.Seq[Node]
}

// Element is one annotation anchored to the bounds of its node.
type Element struct {
	Bounds     geom.Rect
	Annotation Annotation
	Source     NodeRef
}
