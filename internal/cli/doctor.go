package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/tagnav/internal/process"
)

// errDoctorFailed is returned when a required tool is missing.
var errDoctorFailed = errors.New("doctor found problems")

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the tagging tools and a tag index can be found",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(commandOptions(cmd))
		if err != nil {
			return err
		}
		defer a.Close()
		return executeDoctor(a, cmd.OutOrStdout(), process.LookPath)
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// executeDoctor reports tool locations, the workspace root and auxiliary
// index paths. A missing workspace is reported but is not a failure.
func executeDoctor(a *app, out io.Writer, lookPath func(string) (string, error)) error {
	failed := false
	for _, tool := range []string{a.cfg.Tool.Global, a.cfg.Tool.Gtags} {
		path, err := lookPath(tool)
		if err != nil {
			failed = true
			fmt.Fprintf(out, "✗ %s: not found\n", tool)
			continue
		}
		fmt.Fprintf(out, "✓ %s: %s\n", tool, path)
	}

	if _, root, err := a.client(); err != nil {
		fmt.Fprintf(out, "✗ workspace: %v\n", err)
	} else {
		fmt.Fprintf(out, "✓ workspace: %s\n", root)
	}

	for _, p := range a.cfg.AuxiliaryIndexPaths() {
		fmt.Fprintf(out, "  library path: %s\n", p)
	}

	if failed {
		return errDoctorFailed
	}
	return nil
}
