// Command occursheet loads a grid, quarantines cyclic formulas,
// evaluates it, applies a stream of edits, and writes the resulting
// view and changelog.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vogtb/occursheet/internal/engine"
	"github.com/vogtb/occursheet/internal/ioformat"
	"github.com/vogtb/occursheet/internal/snapshot"
	"github.com/vogtb/occursheet/internal/telemetry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "occursheet <data.csv> <user.txt> <view.csv> <changes.txt>",
		Short: "Evaluate an occurrence-counting grid and apply a stream of edits",
		Args:  cobra.ArbitraryArgs,
		RunE:  run,
		// The pipeline reports its own file errors via RunE; no usage
		// output is wanted for every argument slip.
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// run wires ioformat -> engine -> snapshot for one full pass over the
// four positional files. An argument-count mismatch is not treated as
// a command-line error: it is reported on stderr and the process exits
// 0, since it signals nothing about the grid itself.
func run(cmd *cobra.Command, args []string) error {
	if len(args) != 4 {
		fmt.Fprintln(cmd.ErrOrStderr(), "usage: occursheet <data.csv> <user.txt> <view.csv> <changes.txt>")
		return nil
	}
	dataPath, editPath, viewPath, changesPath := args[0], args[1], args[2], args[3]

	logger := telemetry.New(cmd.ErrOrStderr())
	ctx := telemetry.WithLogger(context.Background(), logger)

	changeLog, err := ioformat.NewChangeLog(changesPath)
	if err != nil {
		return err
	}
	defer changeLog.Close()

	rows, err := ioformat.ReadGrid(dataPath)
	if err != nil {
		return err
	}

	sheet, err := engine.Load(ctx, rows)
	if err != nil {
		return err
	}

	engine.Quarantine(ctx, sheet)
	engine.EvaluateAll(ctx, sheet)

	if err := ioformat.WriteGrid(viewPath, snapshot.Render(sheet)); err != nil {
		return err
	}

	edits, err := ioformat.ReadEdits(ctx, editPath)
	if err != nil {
		return err
	}

	for _, edit := range edits {
		changed := engine.ApplyEdit(ctx, sheet, edit.At, edit.Desc)
		if err := changeLog.Append(edit.Line, changed); err != nil {
			return err
		}
	}

	return nil
}
