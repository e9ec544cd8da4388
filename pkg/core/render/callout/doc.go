// Package callout draws layout items as scene nodes.
//
// A [Drawer] produces three node shapes per annotation:
//
//   - Marker n: a circular frame holding the number
//   - Callout n: a card with a "#n" header, the annotation body and one
//     "• type" line per pinned property
//   - Connector: a dashed bezier vector from the marker to the card
//
// Body text is wrapped to the card's inner width using the metrics of the
// embedded Go fonts, and the card height is the sum of its stacked children.
// With [TextPlain] markdown content is rendered and reduced to text first.
package callout
