package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/n8nops/n8nctl/internal/cachecheck"
	"github.com/n8nops/n8nctl/internal/config"
	"github.com/n8nops/n8nctl/internal/credentials"
	"github.com/n8nops/n8nctl/internal/n8n"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check n8n and Redis connectivity",
	Long:  `Verify that the n8n server and the Redis cache service are reachable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		ctx := context.Background()

		fmt.Println("n8nctl Health Check")
		fmt.Println("===================")
		fmt.Println()

		failures := 0

		fmt.Printf("n8n (%s)\n", cfg.ServerURL)
		if key := credentials.LoadKey(cfg); key == "" {
			fmt.Println("  ✗ no API key configured (run 'n8nctl save-key <key>')")
			failures++
		} else {
			client := n8n.NewKeyClient(cfg.ServerURL, key)
			if err := client.Ping(ctx); err != nil {
				fmt.Printf("  ✗ %v\n", err)
				failures++
			} else {
				fmt.Println("  ✓ reachable and authenticated")
			}
		}

		fmt.Println()
		fmt.Printf("Redis (%s)\n", cfg.RedisAddr)
		steps, err := cachecheck.Run(ctx, cfg.RedisAddr)
		for _, step := range steps {
			fmt.Printf("  ✓ %s\n", step)
		}
		if err != nil {
			fmt.Printf("  ✗ %v\n", err)
			fmt.Println()
			fmt.Println("  Troubleshooting:")
			fmt.Println("    1. Check the Redis container is running")
			fmt.Printf("    2. Check network connectivity to %s\n", cfg.RedisAddr)
			fmt.Println("    3. Check Redis is listening: redis-cli ping")
			failures++
		} else {
			fmt.Println("  ✓ fully functional")
		}

		fmt.Println()
		if failures > 0 {
			return fmt.Errorf("%d check(s) failed", failures)
		}
		fmt.Println("All checks passed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
