package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/tagnav/internal/history"
	"github.com/mvp-joe/tagnav/internal/tags"
)

type queryOptions struct {
	Reference bool
	JSON      bool
	First     bool
}

var (
	queryJSONFlag  bool
	queryFirstFlag bool
)

var rootDirCmd = &cobra.Command{
	Use:   "root [path]",
	Short: "Print the workspace root that holds the tag index",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := commandOptions(cmd)
		if len(args) == 1 {
			opts.File = args[0]
		}
		a, err := newApp(opts)
		if err != nil {
			return err
		}
		defer a.Close()
		return executeRoot(a, cmd.OutOrStdout())
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete [prefix]",
	Short: "List symbols that start with prefix",
	Long: `List every symbol in the tag index that starts with prefix, one per line.
Without a prefix every symbol is listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := ""
		if len(args) == 1 {
			prefix = args[0]
		}
		a, err := newApp(commandOptions(cmd))
		if err != nil {
			return err
		}
		defer a.Close()
		return executeComplete(cmd.Context(), a, cmd.OutOrStdout(), prefix)
	},
}

var defCmd = &cobra.Command{
	Use:   "def <symbol>",
	Short: "Find where a symbol is defined",
	Long: `Print every definition of symbol as "path:line:0<TAB>signature".

Examples:
  # All definitions
  tagnav def main

  # Jump target for an editor
  tagnav def --first main

  # Machine readable
  tagnav def --json main`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, args[0], false)
	},
}

var refCmd = &cobra.Command{
	Use:   "ref <symbol>",
	Short: "Find every reference to a symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, args[0], true)
	},
}

func init() {
	for _, c := range []*cobra.Command{defCmd, refCmd} {
		c.Flags().BoolVar(&queryJSONFlag, "json", false, "Print matches as JSON")
		c.Flags().BoolVar(&queryFirstFlag, "first", false, "Print only the first match's navigation target")
	}
	rootCmd.AddCommand(rootDirCmd, completeCmd, defCmd, refCmd)
}

// commandOptions are the global options with output bound to cmd.
func commandOptions(cmd *cobra.Command) appOptions {
	opts := globalOptions()
	opts.Out = cmd.OutOrStdout()
	opts.LogOutput = cmd.ErrOrStderr()
	return opts
}

func runQuery(cmd *cobra.Command, symbol string, reference bool) error {
	a, err := newApp(commandOptions(cmd))
	if err != nil {
		return err
	}
	defer a.Close()
	return executeQuery(cmd.Context(), a, cmd.OutOrStdout(), symbol, queryOptions{
		Reference: reference,
		JSON:      queryJSONFlag,
		First:     queryFirstFlag,
	})
}

func executeRoot(a *app, out io.Writer) error {
	_, root, err := a.client()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, root)
	return nil
}

func executeComplete(ctx context.Context, a *app, out io.Writer, prefix string) error {
	client, _, err := a.client()
	if err != nil {
		return err
	}
	symbols, err := client.Completions(ctx, prefix)
	if err != nil {
		return err
	}
	for _, s := range symbols {
		fmt.Fprintln(out, s)
	}
	return nil
}

// executeQuery prints matches for symbol. An empty result is reported on
// out and is not an error.
func executeQuery(ctx context.Context, a *app, out io.Writer, symbol string, opts queryOptions) error {
	client, _, err := a.client()
	if err != nil {
		return err
	}
	matches, err := a.nav.Resolve(ctx, client, tags.RawQuery(symbol), opts.Reference)
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		if opts.JSON {
			fmt.Fprintln(out, "[]")
			return nil
		}
		fmt.Fprintln(out, notFoundMessage(symbol, opts.Reference))
		return nil
	}

	if opts.First {
		matches = matches[:1]
	}

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	}

	if opts.First {
		// The print opener writes the target.
		_, err := a.nav.Jump(ctx, history.Location{}, matches[0])
		return err
	}

	for _, m := range matches {
		fmt.Fprintf(out, "%s\t%s\n", m.Target(), m.Signature)
	}
	return nil
}

func notFoundMessage(symbol string, reference bool) string {
	if reference {
		return fmt.Sprintf("'%s' is not found on rtag.", symbol)
	}
	return fmt.Sprintf("'%s' is not found on tag.", symbol)
}
