package scene

import (
	"slices"

	"github.com/matzehuels/calloutgen/pkg/core/geom"
	"github.com/matzehuels/calloutgen/pkg/errors"
)

// Page is a canvas holding top-level nodes and the current selection.
type Page struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Selection []string `json:"selection,omitempty" yaml:"selection,omitempty"`
	Children  []*Node  `json:"children,omitempty" yaml:"children,omitempty"`
}

// AppendChild adds n to the top level of the page. It fails when n already
// belongs to another container.
func (p *Page) AppendChild(n *Node) error {
	if n == nil {
		return errors.New(errors.ErrCodeHostRejected, "cannot append nil node")
	}
	if n.parent != nil || p.indexOf(n) >= 0 {
		return errors.New(errors.ErrCodeHostRejected, "node %q is already attached", n.ID)
	}
	p.Children = append(p.Children, n)
	return nil
}

// ChildByName returns the first top-level node named name.
func (p *Page) ChildByName(name string) *Node {
	for _, c := range p.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// FindByName returns the first node named name, searching depth-first.
func (p *Page) FindByName(name string) *Node {
	return p.FindOne(func(n *Node) bool { return n.Name == name })
}

// FindOne returns the first node, depth-first, for which match is true.
func (p *Page) FindOne(match func(*Node) bool) *Node {
	var found *Node
	for _, c := range p.Children {
		c.Walk(func(n *Node) bool {
			if match(n) {
				found = n
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// NodeByID returns the node with the given ID anywhere on the page.
func (p *Page) NodeByID(id string) *Node {
	return p.FindOne(func(n *Node) bool { return n.ID == id })
}

// Remove detaches n and its subtree from the page. It reports whether n was
// found.
func (p *Page) Remove(n *Node) bool {
	if n == nil {
		return false
	}
	if parent := n.parent; parent != nil {
		i := slices.Index(parent.Children, n)
		if i < 0 {
			return false
		}
		parent.Children = slices.Delete(parent.Children, i, i+1)
		n.parent = nil
		p.dropSelection(n)
		return true
	}
	i := p.indexOf(n)
	if i < 0 {
		return false
	}
	p.Children = slices.Delete(p.Children, i, i+1)
	p.dropSelection(n)
	return true
}

// Group moves top-level nodes into a new GROUP node named name, inserted at
// the position of the first grouped node. The group's bounds are the union of
// its children's bounds.
func (p *Page) Group(nodes []*Node, name string) (*Node, error) {
	if len(nodes) == 0 {
		return nil, errors.New(errors.ErrCodeHostRejected, "cannot group zero nodes")
	}

	first := len(p.Children)
	for _, n := range nodes {
		i := p.indexOf(n)
		if i < 0 {
			return nil, errors.New(errors.ErrCodeHostRejected, "node %q is not on the page", n.ID)
		}
		first = min(first, i)
	}

	group := NewNode(TypeGroup, name)
	var bounds geom.Rect
	for _, n := range nodes {
		p.Children = slices.DeleteFunc(p.Children, func(c *Node) bool { return c == n })
		group.AppendChild(n)
		if b, ok := n.Bounds(); ok {
			bounds = bounds.Union(b)
		}
	}
	group.SetBounds(bounds)
	p.Children = slices.Insert(p.Children, first, group)
	return group, nil
}

// SelectedNodes returns the selected nodes in selection order, ignoring IDs
// that no longer resolve.
func (p *Page) SelectedNodes() []*Node {
	var out []*Node
	for _, id := range p.Selection {
		if n := p.NodeByID(id); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Count returns the number of nodes on the page.
func (p *Page) Count() int {
	total := 0
	for _, c := range p.Children {
		total += c.Count()
	}
	return total
}

// Bounds returns the union of all top-level bounding boxes.
func (p *Page) Bounds() geom.Rect {
	var r geom.Rect
	for _, c := range p.Children {
		if b, ok := c.Bounds(); ok {
			r = r.Union(b)
		}
	}
	return r
}

func (p *Page) indexOf(n *Node) int {
	return slices.Index(p.Children, n)
}

func (p *Page) dropSelection(removed *Node) {
	if len(p.Selection) == 0 {
		return
	}
	gone := make(map[string]bool)
	removed.Walk(func(n *Node) bool {
		gone[n.ID] = true
		return true
	})
	p.Selection = slices.DeleteFunc(p.Selection, func(id string) bool { return gone[id] })
}

// link restores parent pointers after decoding.
func (p *Page) link() {
	var visit func(parent, n *Node)
	visit = func(parent, n *Node) {
		n.parent = parent
		for _, c := range n.Children {
			visit(n, c)
		}
	}
	for _, c := range p.Children {
		visit(nil, c)
	}
}
