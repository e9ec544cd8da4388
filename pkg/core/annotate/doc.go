// Package annotate extracts annotations from a host node tree.
//
// # Overview
//
// Design tools attach "Dev Mode" annotations to nodes. They are invisible in
// exported artwork, so calloutgen turns them into visible callouts. This
// package is the first stage of that pipeline: [Collect] walks a node tree and
// returns every annotation together with the absolute bounds of the node it
// belongs to.
//
// # Node capabilities
//
// Host nodes are heterogeneous. Some carry annotations, some have children,
// some have no bounding box at all. Instead of probing concrete types, the
// collector works against the [Node] interface, where every capability has an
// accessor with a "not present" answer:
//
//	Annotations() []Annotation          // nil when the node has none
//	BoundingBox() (geom.Rect, bool)     // false when the node has no bounds
//	Children() iter.Seq[Node]           // empty for leaves
//
// # Content precedence
//
// [Annotation.Content] returns LabelMarkdown when present, then Label, then
// the empty string. The text is returned verbatim.
package annotate
