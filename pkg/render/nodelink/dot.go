package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/calloutgen/pkg/errors"
	"github.com/matzehuels/calloutgen/pkg/render"
	"github.com/matzehuels/calloutgen/pkg/scene"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds bounds and annotation labels to node labels.
	// When false, only the type and name are shown.
	Detailed bool

	// Hide lists top-level node names to leave out, with their subtrees.
	Hide []string
}

// pageID is the DOT ID of the synthetic root node.
const pageID = "__page__"

// ToDOT converts a page's node tree to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPDF].
//
// Annotated nodes are filled so they stand out. Nodes without bounds, which
// the generator skips, are drawn dashed.
func ToDOT(page *scene.Page, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	name := page.Name
	if name == "" {
		name = "Page"
	}
	fmt.Fprintf(&buf, "  %q [label=%q, shape=folder];\n", pageID, name)

	var edges []string
	var visit func(parent string, n *scene.Node)
	visit = func(parent string, n *scene.Node) {
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
		edges = append(edges, fmt.Sprintf("  %q -> %q;\n", parent, n.ID))
		for _, c := range n.Children {
			visit(n.ID, c)
		}
	}
	for _, n := range page.Children {
		if slices.Contains(opts.Hide, n.Name) {
			continue
		}
		visit(pageID, n)
	}

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *scene.Node, detailed bool) string {
	label := string(n.Type)
	if n.Name != "" {
		label += "\n" + n.Name
	}
	if !detailed {
		return label
	}

	var parts []string
	if b, ok := n.Bounds(); ok {
		parts = append(parts, b.String())
	}
	for _, a := range n.Annotations {
		if l := strings.TrimSpace(a.Content()); l != "" {
			parts = append(parts, "• "+firstLine(l))
		}
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}

func fmtAttrs(n *scene.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if _, ok := n.Bounds(); !ok {
		attrs = append(attrs, "style=\"rounded,dashed\"", "fontcolor=grey40")
		return attrs
	}
	if k := len(n.Annotations); k > 0 {
		attrs = append(attrs, "fillcolor=\"#fbe3d1\"", "color=\"#e84d3d\"", "penwidth=2",
			fmt.Sprintf("xlabel=%q", strconv.Itoa(k)))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with a
// zero-origin viewBox so the diagram scales when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}
