package scene

import (
	"github.com/google/uuid"

	"github.com/matzehuels/calloutgen/pkg/errors"
)

// Document is a design file: a named list of pages.
type Document struct {
	Name  string  `json:"name,omitempty" yaml:"name,omitempty"`
	Pages []*Page `json:"pages" yaml:"pages"`
}

// Page returns the page called name. An empty name selects the first page.
func (d *Document) Page(name string) (*Page, error) {
	if len(d.Pages) == 0 {
		return nil, errors.New(errors.ErrCodePageNotFound, "document has no pages")
	}
	if name == "" {
		return d.Pages[0], nil
	}
	for _, p := range d.Pages {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, errors.New(errors.ErrCodePageNotFound, "page %q not found", name)
}

// Normalize prepares a freshly decoded document for use: missing IDs are
// filled in and parent links are rebuilt. Duplicate IDs and nodes without a
// type are rejected.
func (d *Document) Normalize() error {
	seen := make(map[string]bool)
	for i, p := range d.Pages {
		if p == nil {
			return errors.New(errors.ErrCodeInvalidDocument, "page %d is null", i)
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		for j, c := range p.Children {
			if c == nil {
				return errors.New(errors.ErrCodeInvalidDocument, "page %d child %d is null", i, j)
			}
			var err error
			c.Walk(func(n *Node) bool {
				err = normalizeNode(n, seen)
				return err == nil
			})
			if err != nil {
				return err
			}
		}
		p.link()
	}
	return nil
}

func normalizeNode(n *Node, seen map[string]bool) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if seen[n.ID] {
		return errors.New(errors.ErrCodeInvalidDocument, "duplicate node id %q", n.ID)
	}
	seen[n.ID] = true
	if n.Type == "" {
		return errors.New(errors.ErrCodeInvalidDocument, "node %q has no type", n.ID)
	}
	for i, c := range n.Children {
		if c == nil {
			return errors.New(errors.ErrCodeInvalidDocument, "node %q child %d is null", n.ID, i)
		}
	}
	return nil
}
