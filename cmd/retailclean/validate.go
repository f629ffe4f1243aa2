package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"retailclean/internal/config"
)

func newValidateCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, used, err := config.Load(g.cfgFile, nil)
			if err != nil {
				return err
			}
			if used == "" {
				used = "(defaults)"
			}
			issues := config.ValidatePipeline(*cfg)
			if len(issues) > 0 {
				renderIssues(cmd.OutOrStdout(), issues)
			}
			if config.HasErrors(issues) {
				return fmt.Errorf("configuration is invalid: %s", used)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration is valid: %s\n", used)
			return nil
		},
	}
}

func renderIssues(w io.Writer, issues []config.Issue) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Severity", "Path", "Message"})
	for _, iss := range issues {
		t.AppendRow(table.Row{iss.Severity, iss.Path, iss.Message})
	}
	t.Render()
}
