// Package scene is an in-memory model of a design document: pages holding
// trees of frames, groups, shapes and text, each with an absolute bounding
// box and optional annotations.
//
// # Documents
//
// Documents are exported from a design tool as JSON or YAML:
//
//	{
//	  "name": "Checkout",
//	  "pages": [{
//	    "name": "Flows",
//	    "selection": ["1:2"],
//	    "children": [{
//	      "id": "1:2", "type": "FRAME", "name": "Cart",
//	      "absoluteBoundingBox": {"x": 0, "y": 0, "width": 400, "height": 300},
//	      "children": [{
//	        "id": "1:3", "type": "RECTANGLE", "name": "Pay",
//	        "absoluteBoundingBox": {"x": 300, "y": 100, "width": 40, "height": 20},
//	        "annotations": [{"label": "Primary action", "properties": [{"type": "fills"}]}]
//	      }]
//	    }]
//	  }]
//	}
//
// Use [Load] and [Save] for files, or [Read] and [Write] for streams. Decoded
// documents are normalized: nodes without an ID get a random UUID and
// duplicate IDs are rejected with an INVALID_DOCUMENT error.
//
// # Editing
//
// [Page] supports the handful of edits callout generation needs: appending
// top-level nodes, grouping them, finding nodes by name and removing
// subtrees. [Node.Annotated] adapts a node to the annotation collector.
package scene
