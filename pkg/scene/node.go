package scene

import (
	"iter"

	"github.com/google/uuid"

	"github.com/matzehuels/calloutgen/pkg/core/annotate"
	"github.com/matzehuels/calloutgen/pkg/core/geom"
)

// NodeType is the host node type, spelled the way design tools export it.
type NodeType string

// Node types.
const (
	TypeFrame     NodeType = "FRAME"
	TypeGroup     NodeType = "GROUP"
	TypeComponent NodeType = "COMPONENT"
	TypeInstance  NodeType = "INSTANCE"
	TypeSection   NodeType = "SECTION"
	TypeRectangle NodeType = "RECTANGLE"
	TypeEllipse   NodeType = "ELLIPSE"
	TypeText      NodeType = "TEXT"
	TypeVector    NodeType = "VECTOR"
)

// IsContainer reports whether nodes of this type are valid generation targets
// when they are selected.
func (t NodeType) IsContainer() bool {
	switch t {
	case TypeFrame, TypeGroup, TypeComponent, TypeInstance:
		return true
	}
	return false
}

// AutoResize is how a text node sizes itself around its characters.
type AutoResize string

// Text resize modes. With AutoResizeHeight the width is fixed and lines wrap
// at word boundaries when drawn; the characters themselves carry no breaks.
const (
	AutoResizeNone   AutoResize = "NONE"
	AutoResizeWidth  AutoResize = "WIDTH_AND_HEIGHT"
	AutoResizeHeight AutoResize = "HEIGHT"
)

// Color is an RGB colour with channels in [0, 1].
type Color struct {
	R float64 `json:"r" yaml:"r"`
	G float64 `json:"g" yaml:"g"`
	B float64 `json:"b" yaml:"b"`
}

// Paint is a solid fill or stroke.
type Paint struct {
	Type  string `json:"type" yaml:"type"`
	Color Color  `json:"color" yaml:"color"`
}

// Solid returns a single solid paint of c.
func Solid(c Color) []Paint {
	return []Paint{{Type: "SOLID", Color: c}}
}

// FontName identifies a font face.
type FontName struct {
	Family string `json:"family" yaml:"family"`
	Style  string `json:"style" yaml:"style"`
}

// Padding is the inner spacing of an auto-layout container.
type Padding struct {
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
}

// VectorPath is one path of a vector node, in absolute coordinates.
type VectorPath struct {
	WindingRule string `json:"windingRule" yaml:"windingRule"`
	Data        string `json:"data" yaml:"data"`
}

// Node is a scene graph node. Imported design nodes usually only carry the
// structural fields; nodes created by calloutgen also carry styling.
type Node struct {
	ID                  string                `json:"id" yaml:"id"`
	Name                string                `json:"name,omitempty" yaml:"name,omitempty"`
	Type                NodeType              `json:"type" yaml:"type"`
	AbsoluteBoundingBox *geom.Rect            `json:"absoluteBoundingBox,omitempty" yaml:"absoluteBoundingBox,omitempty"`
	Annotations         []annotate.Annotation `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	Children            []*Node               `json:"children,omitempty" yaml:"children,omitempty"`

	Fills        []Paint      `json:"fills,omitempty" yaml:"fills,omitempty"`
	Strokes      []Paint      `json:"strokes,omitempty" yaml:"strokes,omitempty"`
	StrokeWeight float64      `json:"strokeWeight,omitempty" yaml:"strokeWeight,omitempty"`
	StrokeCap    string       `json:"strokeCap,omitempty" yaml:"strokeCap,omitempty"`
	DashPattern  []float64    `json:"dashPattern,omitempty" yaml:"dashPattern,omitempty"`
	CornerRadius float64      `json:"cornerRadius,omitempty" yaml:"cornerRadius,omitempty"`
	LayoutMode   string       `json:"layoutMode,omitempty" yaml:"layoutMode,omitempty"`
	Padding      *Padding     `json:"padding,omitempty" yaml:"padding,omitempty"`
	ItemSpacing  float64      `json:"itemSpacing,omitempty" yaml:"itemSpacing,omitempty"`
	Characters   string       `json:"characters,omitempty" yaml:"characters,omitempty"`
	FontSize     float64      `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	FontName     *FontName    `json:"fontName,omitempty" yaml:"fontName,omitempty"`
	AutoResize   AutoResize   `json:"textAutoResize,omitempty" yaml:"textAutoResize,omitempty"`
	VectorPaths  []VectorPath `json:"vectorPaths,omitempty" yaml:"vectorPaths,omitempty"`

	parent *Node
}

// NewNode creates a detached node with a fresh ID.
func NewNode(t NodeType, name string) *Node {
	return &Node{ID: uuid.NewString(), Type: t, Name: name}
}

// Bounds returns the absolute bounding box, if the node has one.
func (n *Node) Bounds() (geom.Rect, bool) {
	if n.AbsoluteBoundingBox == nil {
		return geom.Rect{}, false
	}
	return *n.AbsoluteBoundingBox, true
}

// SetBounds sets the absolute bounding box.
func (n *Node) SetBounds(r geom.Rect) {
	n.AbsoluteBoundingBox = &r
}

// Parent returns the containing node, or nil for page-level nodes.
func (n *Node) Parent() *Node { return n.parent }

// AppendChild attaches child as the last child of n.
func (n *Node) AppendChild(child *Node) {
	child.parent = n
	n.Children = append(n.Children, child)
}

// Walk visits n and its descendants depth-first until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// Annotated exposes n through the collector's capability interface.
func (n *Node) Annotated() annotate.Node {
	return annotatedNode{n}
}

type annotatedNode struct{ n *Node }

func (a annotatedNode) Ref() annotate.NodeRef {
	return annotate.NodeRef{ID: a.n.ID, Name: a.n.Name}
}

func (a annotatedNode) Annotations() []annotate.Annotation { return a.n.Annotations }

func (a annotatedNode) BoundingBox() (geom.Rect, bool) { return a.n.Bounds() }

func (a annotatedNode) Children() iter.Seq[annotate.Node] {
	return func(yield func(annotate.Node) bool) {
		for _, c := range a.n.Children {
			if !yield(annotatedNode{c}) {
				return
			}
		}
	}
}
