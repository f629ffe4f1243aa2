package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"retailclean/internal/logging"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// globals are the persistent flags shared by every subcommand.
type globals struct {
	cfgFile   string
	verbose   bool
	logFormat string
}

func (g *globals) logger() (*zap.Logger, error) {
	return logging.New(g.verbose, g.logFormat)
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "retailclean",
		Short: "Clean and segment a retail customer table",
		Long: `retailclean loads a retail customer table, repairs and normalizes its
fields, drops invalid rows, imputes gaps, derives tenure and recency features
and segment flags, then writes the cleaned table, the segment table, charts
and a run manifest.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	root.PersistentFlags().StringVar(&g.cfgFile, "config", "", "config file (default: ./retailclean.yaml if present)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "console", "log format (console|json)")
	_ = root.RegisterFlagCompletionFunc("log-format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"console", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(newRunCmd(g))
	root.AddCommand(newValidateCmd(g))
	root.AddCommand(newVersionCmd())
	return root
}
