package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/tagnav/internal/task"
)

var (
	rebuildDirFlag      string
	rebuildProgressFlag string
)

// rebuildCmd represents the rebuild command
var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Regenerate the tag index",
	Long: `Run gtags in the workspace root to regenerate GTAGS, GRTAGS and GPATH.

Examples:
  # Rebuild the workspace above the current directory
  tagnav rebuild

  # Rebuild a specific directory, creating its index
  tagnav rebuild --dir ~/src/project`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := commandOptions(cmd)
		if rebuildDirFlag != "" {
			opts.Root = rebuildDirFlag
		}
		a, err := newApp(opts)
		if err != nil {
			return err
		}
		defer a.Close()

		indicator, err := newIndicator(rebuildProgressFlag, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return executeRebuild(cmd.Context(), a, cmd.OutOrStdout(), indicator)
	},
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
	rebuildCmd.Flags().StringVarP(&rebuildDirFlag, "dir", "d", "", "Directory to index (default is the workspace root)")
	rebuildCmd.Flags().StringVar(&rebuildProgressFlag, "progress", progressAuto, "Progress display: auto, spinner, text or none")
}

// executeRebuild runs the builder as a task and waits for it. A failed
// build returns *tags.RebuildError carrying the builder's stderr, a missing
// builder tags.ErrToolUnavailable.
func executeRebuild(ctx context.Context, a *app, out io.Writer, indicator task.Indicator) error {
	client, root, err := a.client()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "rebuild tags on dir: %s\n", root)

	var rebuildErr error
	t := task.New("rebuild", task.RunCommand(a.runner, client.RebuildCommand()), task.Options{
		Interval:       a.cfg.ProgressInterval(),
		Indicator:      indicator,
		SuccessMessage: "build success on dir: " + root,
		FailureMessage: "build failed on dir: " + root,
		OnDone: func(o task.Outcome) {
			rebuildErr = client.CompleteRebuild(o.Result, o.Err)
		},
	})
	if err := t.Start(ctx); err != nil {
		return err
	}
	if _, err := t.Wait(ctx); err != nil {
		return err
	}
	return rebuildErr
}
