package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/calloutgen/pkg/core/callouts"
	"github.com/matzehuels/calloutgen/pkg/pipeline"
)

// removeCommand creates the remove command.
func (c *CLI) removeCommand() *cobra.Command {
	var output, page string

	cmd := &cobra.Command{
		Use:   "remove [document]",
		Short: "Remove generated callouts from a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRemove(cmd.Context(), args[0], page, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output document (default: overwrite input)")
	cmd.Flags().StringVar(&page, "page", "", "page name (default: first page)")

	return cmd
}

func (c *CLI) runRemove(ctx context.Context, input, page, output string) error {
	runner, err := c.newRunner(true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	out, err := documentOutput(output, input)
	if err != nil {
		return err
	}
	doc, err := runner.Load(ctx, input)
	if err != nil {
		return err
	}
	doc, note, err := runner.Apply(ctx, doc, pipeline.Options{
		Page:    page,
		Command: callouts.CommandRemove,
		Logger:  c.Logger,
	})
	if err != nil {
		return err
	}

	printNotification(note)
	if note.Message == callouts.MsgNothingToDrop && out == input {
		return nil
	}
	return saveDocument(doc, out)
}
