package cmd

import (
	"github.com/spf13/cobra"

	"github.com/n8nops/n8nctl/internal/config"
	"github.com/n8nops/n8nctl/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP tool server",
	Long: `Start the tool server that exposes the workflow operations for
remote invocation:

  POST /tools/generate_workflow
  POST /tools/save_api_key
  POST /tools/import_workflow
  GET  /tools/list_workflows
  POST /tools/get_workflow
  GET  /tools/list_saved_workflows

Examples:
  n8nctl serve               # Start on default port 8012
  n8nctl serve --port 9000   # Start on custom port`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if servePort != 0 {
			cfg.ToolPort = servePort
		}

		return server.New(cfg).Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (default from config)")
}
