package callouts

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/calloutgen/pkg/core/annotate"
	"github.com/matzehuels/calloutgen/pkg/core/layout"
	"github.com/matzehuels/calloutgen/pkg/core/render/callout"
	"github.com/matzehuels/calloutgen/pkg/errors"
	"github.com/matzehuels/calloutgen/pkg/observability"
	"github.com/matzehuels/calloutgen/pkg/scene"
)

// GroupName is the reserved name of the group holding every generated node.
const GroupName = "__ANNOTATION_CALLOUTS__"

// Canvas is the part of a page the generator edits. *scene.Page implements it.
type Canvas interface {
	AppendChild(n *scene.Node) error
	Group(nodes []*scene.Node, name string) (*scene.Node, error)
	FindByName(name string) *scene.Node
	Remove(n *scene.Node) bool
}

// Generator lays out and draws callouts for the annotations inside frames.
type Generator struct {
	Layout layout.Config
	Drawer *callout.Drawer
	Logger *log.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLayout sets the layout constants.
func WithLayout(cfg layout.Config) Option {
	return func(g *Generator) { g.Layout = cfg }
}

// WithDrawer sets the node drawer.
func WithDrawer(d *callout.Drawer) Option {
	return func(g *Generator) { g.Drawer = d }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(g *Generator) { g.Logger = l }
}

// New returns a generator with the default layout and drawer.
func New(opts ...Option) *Generator {
	g := &Generator{
		Layout: layout.DefaultConfig(),
		Drawer: callout.NewDrawer(),
		Logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate draws callouts for every annotation inside frames and groups all
// created nodes under [GroupName]. It returns the number of annotations
// drawn; when that is zero nothing is added to the canvas.
//
// Frames without a bounding box are skipped. Numbering restarts at 1 for each
// frame. On failure, nodes already appended stay on the canvas.
func (g *Generator) Generate(ctx context.Context, c Canvas, frames []*scene.Node) (int, error) {
	hooks := observability.Generate()
	start := time.Now()
	hooks.OnGenerateStart(ctx, len(frames))

	count, err := g.generate(ctx, c, frames)

	hooks.OnGenerateComplete(ctx, count, time.Since(start), err)
	return count, err
}

func (g *Generator) generate(ctx context.Context, c Canvas, frames []*scene.Node) (int, error) {
	if err := g.Drawer.LoadFonts(ctx); err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "load fonts")
	}

	var created []*scene.Node
	total := 0
	for _, frame := range frames {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		bounds, ok := frame.Bounds()
		if !ok || !bounds.IsFinite() {
			g.Logger.Debug("skipping frame without usable bounds", "frame", frame.Name)
			continue
		}

		elems, err := annotate.Collect(frame.Annotated())
		if err != nil {
			g.Logger.Warn("skipped annotations", "frame", frame.Name, "err", err)
		}
		if len(elems) == 0 {
			continue
		}

		for _, it := range g.Layout.LayoutFrame(elems, bounds) {
			n := g.Drawer.Draw(it)
			if err := c.AppendChild(n); err != nil {
				return total, errors.Wrap(errors.ErrCodeHostRejected, err, "append %s", n.Name)
			}
			created = append(created, n)
		}
		total += len(elems)

		observability.Generate().OnFrameLaidOut(ctx, frame.ID, len(elems))
		g.Logger.Debug("frame laid out", "frame", frame.Name, "annotations", len(elems))
	}

	if len(created) > 0 {
		if _, err := c.Group(created, GroupName); err != nil {
			return total, errors.Wrap(errors.ErrCodeHostRejected, err, "group callouts")
		}
	}
	return total, nil
}

// Remove deletes every generated group on the page, wherever it is nested,
// along with everything in it. It reports whether any group was found.
func Remove(c Canvas) bool {
	removed := false
	for group := c.FindByName(GroupName); group != nil; group = c.FindByName(GroupName) {
		if !c.Remove(group) {
			break
		}
		removed = true
	}
	return removed
}
