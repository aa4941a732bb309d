package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	verbose   bool
	startFile string
	rootFlag  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tagnav",
	Short: "Symbol navigation on top of GNU GLOBAL",
	Long: `tagnav queries a GNU GLOBAL tag index for definitions, references and
symbol names, rebuilds the index, and serves the same operations to coding
assistants over MCP.

The workspace is the nearest directory above --file (default: the current
directory) that holds a GTAGS file. Use --root to name it directly.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <root>/.tagnav/config.yml, then ~/.tagnav/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&startFile, "file", "f", "", "file or directory to start the workspace search from (default is the current directory)")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "workspace root; skips the GTAGS search")
}

// globalOptions collects the persistent flags.
func globalOptions() appOptions {
	return appOptions{
		ConfigFile: cfgFile,
		Verbose:    verbose,
		File:       startFile,
		Root:       rootFlag,
	}
}
