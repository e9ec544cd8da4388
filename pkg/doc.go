// Package pkg provides the core libraries for calloutgen.
//
// # Overview
//
// Calloutgen turns the annotations attached to design nodes into numbered
// callouts: a marker over each annotated node, a card beside the frame holding
// the annotation text, and a connector between the two. The pkg directory is
// organized into these areas:
//
//  1. [core] - Domain logic (annotation collection, layout, callout drawing)
//  2. [scene] - The document model the callouts are written into
//  3. [render] - Drawing pages to SVG, PNG and PDF, and node-tree diagrams
//  4. [pipeline] - Orchestration (load → apply → render) with caching
//  5. [config], [cache], [observability] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	Scene document (JSON/YAML)
//	         ↓
//	    [core/annotate] package (collect annotations per frame)
//	         ↓
//	    [core/layout] package (sort, place markers, callouts and connectors)
//	         ↓
//	    [core/render/callout] package (build scene nodes)
//	         ↓
//	    [core/callouts] package (append, group, replace previous callouts)
//	         ↓
//	    Updated document, SVG/PNG/PDF output
//
// # Quick Start
//
// Generate callouts for every top-level frame and render the page:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/calloutgen/pkg/core/callouts"
//	    "github.com/matzehuels/calloutgen/pkg/render/sink"
//	    "github.com/matzehuels/calloutgen/pkg/scene"
//	)
//
//	// 1. Load the document
//	doc, _ := scene.Load("checkout.yaml")
//	page, _ := doc.Page("")
//
//	// 2. Generate callouts
//	note := callouts.New().Run(context.Background(), page, callouts.CommandGenerate)
//
//	// 3. Render to SVG
//	svg := sink.RenderSVG(page)
//
// # Main Packages
//
// ## Core Domain Logic
//
// [core/annotate] - Walks a frame's subtree and flattens every annotation into
// an element anchored to its node's bounds. Nodes without bounds are skipped.
//
// [core/layout] - Orders elements in reading order (rows, then left to right)
// and computes marker, callout and connector geometry on the side of the frame
// nearest each element.
//
// [core/render/callout] - Turns layout items into styled scene nodes.
//
// [core/callouts] - The generate and remove commands, target selection and
// user-facing notifications.
//
// ## Output
//
// [render/sink] - Page rendering: SVG via svgo, PNG via gg, PDF via
// rsvg-convert.
//
// [render/nodelink] - Graphviz diagrams of a page's node tree.
//
// ## Orchestration
//
// [pipeline] - Shared by the CLI and the HTTP server. Caches applied
// documents and rendered artifacts by content hash.
package pkg
