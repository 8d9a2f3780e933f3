package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/n8nops/n8nctl/internal/config"
	"github.com/n8nops/n8nctl/internal/credentials"
	"github.com/n8nops/n8nctl/internal/n8n"
)

var (
	loginEmail string
	loginURL   string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store admin credentials for session authentication",
	Long: `Verify the n8n admin email and password against the login endpoint
and store them in the secret file for later invocations.

Examples:
  n8nctl login                          # Interactive login
  n8nctl login --email admin@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if loginURL != "" {
			cfg.ServerURL = loginURL
		}

		email := loginEmail
		reader := bufio.NewReader(os.Stdin)

		if email == "" {
			fmt.Print("Email: ")
			email, _ = reader.ReadString('\n')
			email = strings.TrimSpace(email)
		}
		if email == "" {
			return fmt.Errorf("email is required")
		}

		fmt.Print("Password: ")
		passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		password := string(passwordBytes)
		if password == "" {
			return fmt.Errorf("password is required")
		}

		fmt.Println("Logging in...")
		session := credentials.Session{Email: email, Password: password}
		if _, err := n8n.New(context.Background(), cfg.ServerURL, session); err != nil {
			return err
		}

		if err := credentials.SaveSecret(cfg, email, password); err != nil {
			return err
		}

		fmt.Printf("✓ Logged in as %s\n", email)
		fmt.Printf("✓ Credentials saved to: %s\n", cfg.SecretFile())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "admin email address")
	loginCmd.Flags().StringVar(&loginURL, "url", "", "n8n server URL (default from config/env)")
}
