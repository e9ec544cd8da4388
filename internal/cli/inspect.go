package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/calloutgen/pkg/core/callouts"
	"github.com/matzehuels/calloutgen/pkg/errors"
	"github.com/matzehuels/calloutgen/pkg/render/nodelink"
	"github.com/matzehuels/calloutgen/pkg/scene"
)

// Inspect output formats.
const (
	inspectTable = "table"
	inspectDOT   = "dot"
	inspectSVG   = "svg"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		page, format, output string
		detailed             bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [document]",
		Short: "Show a page's frames and annotations",
		Long: `Show what generate would work with.

The table format lists every top-level node with its annotation count and
whether it is a generation target. The dot and svg formats draw the page's
node tree with annotated nodes highlighted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := scene.Load(args[0])
			if err != nil {
				return err
			}
			p, err := doc.Page(page)
			if err != nil {
				return err
			}
			opts := nodelink.Options{Detailed: detailed, Hide: []string{callouts.GroupName}}
			switch format {
			case inspectTable:
				fmt.Println(pageTable(p))
				return nil
			case inspectDOT:
				return writeOrPrint(output, []byte(nodelink.ToDOT(p, opts)))
			case inspectSVG:
				svg, err := nodelink.RenderSVG(cmd.Context(), nodelink.ToDOT(p, opts))
				if err != nil {
					return err
				}
				return writeOrPrint(output, svg)
			}
			return errors.New(errors.ErrCodeInvalidFormat, "invalid inspect format: %q (must be one of: table, dot, svg)", format)
		},
	}

	cmd.Flags().StringVar(&page, "page", "", "page name (default: first page)")
	cmd.Flags().StringVarP(&format, "format", "f", inspectTable, "output format: table, dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file for dot/svg (default: stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include bounds and annotation text (dot/svg)")

	return cmd
}

// pageTable renders the top-level nodes of p as a table followed by a summary.
func pageTable(p *scene.Page) string {
	targets := make(map[*scene.Node]bool)
	for _, n := range callouts.Targets(p) {
		targets[n] = true
	}

	rows := [][]string{}
	total, frames := 0, 0
	for _, n := range p.Children {
		if n.Name == callouts.GroupName {
			continue
		}
		count := countAnnotations(n)
		total += count
		target := ""
		if targets[n] {
			target = "✓"
			if count > 0 {
				frames++
			}
		}
		bounds := "—"
		if b, ok := n.Bounds(); ok {
			bounds = b.String()
		}
		rows = append(rows, []string{n.ID, n.Name, string(n.Type), bounds, strconv.Itoa(count), target})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Type", "Bounds", "Annotations", "Target").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 4 && rows[row][4] != "0" {
				return StyleAnnotated
			}
			return lipgloss.NewStyle()
		})

	summary := fmt.Sprintf("%d annotations on %d target frames", total, frames)
	if g := p.ChildByName(callouts.GroupName); g != nil {
		summary += fmt.Sprintf(" · %d callouts present", len(g.Children)/3)
	}
	return t.Render() + "\n" + StyleDim.Render(summary)
}

// writeOrPrint writes data to path, or to stdout when path is empty.
func writeOrPrint(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	printFile(path)
	return nil
}
