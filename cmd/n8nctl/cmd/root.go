package cmd

import (
	"github.com/spf13/cobra"
)

var version = "0.2.0"

var rootCmd = &cobra.Command{
	Use:   "n8nctl",
	Short: "Operational tooling for an n8n workflow server",
	Long: `n8nctl automates operator interactions with an n8n server.

Commands:
  n8nctl delete <name>       Delete a workflow by name
  n8nctl save-key <key>      Persist the n8n API key
  n8nctl login               Store admin credentials for session auth
  n8nctl workflows           Generate, import, list, and fetch workflows
  n8nctl serve               Run the HTTP tool server
  n8nctl health              Check n8n and Redis connectivity`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate("n8nctl version {{.Version}}\n")
}
