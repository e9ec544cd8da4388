package annotate

import (
	"github.com/matzehuels/calloutgen/pkg/errors"
)

// Collect walks root depth-first and returns one Element per annotation on
// every node that has both annotations and a bounding box. Nodes without a
// bounding box are skipped silently.
//
// Nodes whose bounding box holds NaN or infinite values are left out and
// reported in the returned error with code [errors.ErrCodeInvalidBounds]. The
// elements collected from valid nodes are returned either way.
func Collect(root Node) ([]Element, error) {
	if root == nil {
		return nil, nil
	}

	var (
		out  []Element
		errs []error
	)

	var visit func(n Node)
	visit = func(n Node) {
		if anns := n.Annotations(); len(anns) > 0 {
			if bounds, ok := n.BoundingBox(); ok {
				if bounds.IsFinite() {
					ref := n.Ref()
					for _, a := range anns {
						out = append(out, Element{Bounds: bounds, Annotation: a, Source: ref})
					}
				} else {
					errs = append(errs, errors.New(errors.ErrCodeInvalidBounds,
						"node %q has non-finite bounds %v", n.Ref().ID, bounds))
				}
			}
		}
		for child := range n.Children() {
			visit(child)
		}
	}
	visit(root)

	return out, errors.Join(errs...)
}
