// Package layout computes callout placement for annotated elements.
//
// # Overview
//
// Given the annotated elements of one frame, [Config.LayoutFrame] numbers
// them, picks a side for each callout and returns positioned items ready for
// drawing. Every function in this package is pure: the same elements and
// frame always produce the same items.
//
// # Numbering
//
// [SortElements] orders elements top to bottom. Elements within
// [Config.RowTolerance] of the first element of a row share that row and are
// numbered left to right. Rows are formed in one greedy pass, so clusters that
// chain across the tolerance (0, 40, 80 with tolerance 50) still get a single
// deterministic order.
//
// # Geometry
//
// For element bounds B, frame F, marker size M, callout width W and gap G:
//
//   - Side: left when B's centre x < F's centre x, right otherwise (ties go right)
//   - Marker: a square of size M centred on B's top-left (left) or top-right
//     (right) corner
//   - Callout: x = F.X - W - G (left) or F.X + F.Width + G (right), y = B.Y
//   - Connector: a cubic Bezier from the marker's outer edge to the callout's
//     inner edge, [Config.ConnectorOffset] below the callout's top
//
// Callout height is not fixed here; it depends on the rendered text.
//
// # Integration
//
//	annotate.Collect → layout.Config.LayoutFrame → callout.Drawer → scene.Page
package layout
