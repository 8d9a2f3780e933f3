package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/n8nops/n8nctl/internal/config"
	"github.com/n8nops/n8nctl/internal/credentials"
)

var saveKeyCmd = &cobra.Command{
	Use:   "save-key <api-key>",
	Short: "Persist the n8n API key",
	Long: `Save the n8n API key to the config directory with owner-only
permissions. Every authenticated call reads this file until the key is
replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if err := credentials.SaveKey(cfg, args[0]); err != nil {
			return fmt.Errorf("save API key: %w", err)
		}

		fmt.Printf("✓ API key saved to: %s\n", cfg.KeyFile())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(saveKeyCmd)
}
