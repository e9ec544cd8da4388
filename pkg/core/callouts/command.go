package callouts

import (
	"context"
	"fmt"

	"github.com/matzehuels/calloutgen/pkg/errors"
	"github.com/matzehuels/calloutgen/pkg/observability"
	"github.com/matzehuels/calloutgen/pkg/scene"
)

// Command is a user action.
type Command string

const (
	CommandGenerate Command = "generate"
	CommandRemove   Command = "remove"
)

// User-facing messages.
const (
	MsgNoTargets     = "Please select frames or have at least one frame on the page"
	MsgNoAnnotations = "No annotations found. Add annotations in Dev Mode first."
	MsgFailed        = "Error generating callouts. Check logs for details."
	MsgRemoved       = "Callouts removed"
	MsgNothingToDrop = "No callouts to remove"
)

// Notification is the outcome of a command, phrased for the user.
type Notification struct {
	Message string `json:"message"`
	Error   bool   `json:"error"`
	Code    string `json:"code,omitempty"`
	Count   int    `json:"count"`
	Frames  int    `json:"frames"`
}

// Err converts an error notification into a coded error, or returns nil.
func (n Notification) Err() error {
	if !n.Error {
		return nil
	}
	return errors.New(errors.Code(n.Code), "%s", n.Message)
}

// Targets picks the nodes to annotate. Selected frames, groups, components
// and instances win; a selection with none of those is used as is; with no
// selection every top-level frame on the page is used.
func Targets(page *scene.Page) []*scene.Node {
	if selected := page.SelectedNodes(); len(selected) > 0 {
		var containers []*scene.Node
		for _, n := range selected {
			if n.Type.IsContainer() {
				containers = append(containers, n)
			}
		}
		if len(containers) == 0 {
			return selected
		}
		return containers
	}

	var frames []*scene.Node
	for _, n := range page.Children {
		if n.Type == scene.TypeFrame && n.Name != GroupName {
			frames = append(frames, n)
		}
	}
	return frames
}

// Run executes cmd against page and reports the outcome. It never returns an
// error: failures become error notifications and are logged.
func (g *Generator) Run(ctx context.Context, page *scene.Page, cmd Command) Notification {
	switch cmd {
	case CommandGenerate:
		return g.runGenerate(ctx, page, Targets(page))
	case CommandRemove:
		removed := Remove(page)
		observability.Generate().OnRemove(ctx, removed)
		if removed {
			return Notification{Message: MsgRemoved}
		}
		return Notification{Message: MsgNothingToDrop}
	}
	return Notification{
		Message: fmt.Sprintf("Unknown command %q", cmd),
		Error:   true,
		Code:    string(errors.ErrCodeUnsupported),
	}
}

// RunFrames regenerates callouts for an explicit list of frames, bypassing
// selection-based targeting.
func (g *Generator) RunFrames(ctx context.Context, page *scene.Page, frames []*scene.Node) Notification {
	return g.runGenerate(ctx, page, frames)
}

func (g *Generator) runGenerate(ctx context.Context, page *scene.Page, targets []*scene.Node) Notification {
	if len(targets) == 0 {
		return Notification{Message: MsgNoTargets, Error: true, Code: string(errors.ErrCodeNoTargets)}
	}

	Remove(page)

	count, err := g.Generate(ctx, page, targets)
	if err != nil {
		g.Logger.Error("generating callouts failed", "frames", len(targets), "err", err)
		return Notification{Message: MsgFailed, Error: true, Code: string(errors.ErrCodeInternal), Count: count, Frames: len(targets)}
	}
	if count == 0 {
		return Notification{Message: MsgNoAnnotations, Error: true, Code: string(errors.ErrCodeNoAnnotations), Frames: len(targets)}
	}

	g.Logger.Info("generated callouts", "annotations", count, "frames", len(targets))
	return Notification{
		Message: fmt.Sprintf("Generated %d %s across %d %s",
			count, plural(count, "callout"), len(targets), plural(len(targets), "frame")),
		Count:  count,
		Frames: len(targets),
	}
}

func plural(n int, word string) string {
	if n > 1 {
		return word + "s"
	}
	return word
}
