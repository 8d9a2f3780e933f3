package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/n8nops/n8nctl/internal/config"
	"github.com/n8nops/n8nctl/internal/credentials"
	"github.com/n8nops/n8nctl/internal/n8n"
)

var (
	deleteURL   string
	deleteForce bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete <workflow-name>",
	Short: "Delete a workflow by name",
	Long: `Find a workflow on the n8n server by its exact name and delete it.

Authentication tries the admin session first (secret file), then falls
back to the API key (key file or ` + credentials.KeyEnv + `).

Examples:
  n8nctl delete "My Workflow"
  n8nctl delete "My Workflow" --force
  n8nctl delete "My Workflow" --url http://n8n:5678`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().StringVar(&deleteURL, "url", "", "n8n server URL (default from config/env)")
	deleteCmd.Flags().BoolVar(&deleteForce, "force", false, "skip confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	workflowName := args[0]
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if deleteURL != "" {
		cfg.ServerURL = deleteURL
	}

	client, err := authenticate(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Connecting to n8n at %s...\n", cfg.ServerURL)
	if err := client.Ping(ctx); err != nil {
		fmt.Printf("✗ Cannot connect to n8n: %v\n", err)
		fmt.Printf("  Make sure n8n is running at %s\n", cfg.ServerURL)
		return err
	}

	fmt.Printf("Searching for workflow: %q...\n", workflowName)
	wf, err := client.FindByName(ctx, workflowName)
	if err != nil {
		switch {
		case errors.Is(err, n8n.ErrNotFound):
			fmt.Printf("✗ Workflow %q not found\n", workflowName)
		case errors.Is(err, n8n.ErrMissingID):
			fmt.Printf("✗ Workflow %q found but has no ID\n", workflowName)
		default:
			fmt.Printf("✗ Error finding workflow: %v\n", err)
		}
		return err
	}

	if !deleteForce {
		fmt.Println()
		fmt.Println("⚠ WARNING: You are about to delete workflow:")
		fmt.Printf("   Name: %s\n", workflowName)
		fmt.Printf("   ID:   %s\n", wf.ID())
		fmt.Println()
		fmt.Println("This action cannot be undone!")

		var confirm bool
		prompt := &survey.Confirm{
			Message: "Are you sure you want to delete this workflow?",
			Default: false,
		}
		if err := survey.AskOne(prompt, &confirm); err != nil {
			return err
		}
		if !confirm {
			fmt.Println("Deletion cancelled.")
			return nil
		}
	}

	if err := client.Delete(ctx, wf.ID()); err != nil {
		fmt.Printf("✗ Error deleting workflow %q: %v\n", workflowName, err)
		return err
	}

	fmt.Printf("✓ Workflow %q (ID: %s) deleted successfully\n", workflowName, wf.ID())
	return nil
}

// authenticate resolves a credential and builds a client. A failed
// session login falls back to the API key before giving up.
func authenticate(ctx context.Context, cfg *config.Config) (*n8n.Client, error) {
	cred, err := credentials.Resolve(cfg)
	if err != nil {
		printCredentialHelp(cfg)
		return nil, err
	}

	if session, ok := cred.(credentials.Session); ok {
		fmt.Println("Using session authentication")
		client, err := n8n.New(ctx, cfg.ServerURL, session)
		if err == nil {
			fmt.Printf("✓ Logged in as %s\n", session.Email)
			return client, nil
		}
		fmt.Printf("⚠ Session login failed (%v), trying API key...\n", err)

		cred, err = credentials.ResolveKey(cfg)
		if err != nil {
			printCredentialHelp(cfg)
			return nil, err
		}
	}

	fmt.Println("Using API key authentication")
	return n8n.New(ctx, cfg.ServerURL, cred)
}

func printCredentialHelp(cfg *config.Config) {
	fmt.Println("✗ No authentication method available!")
	fmt.Println("Please either:")
	fmt.Printf("  1. Run 'n8nctl login' (or add %s and %s to %s)\n",
		credentials.EmailKey, credentials.PasswordKey, cfg.SecretFile())
	fmt.Printf("  2. Or generate an API key in n8n Settings > API and run 'n8nctl save-key <key>'\n")
}
