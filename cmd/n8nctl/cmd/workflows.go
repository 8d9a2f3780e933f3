package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/n8nops/n8nctl/internal/config"
	"github.com/n8nops/n8nctl/internal/tools"
)

var (
	workflowsGetSave      bool
	workflowsImportSave   bool
	workflowsGenerateSave bool
	workflowsName         string
)

var workflowsCmd = &cobra.Command{
	Use:     "workflows",
	Aliases: []string{"wf"},
	Short:   "Generate, import, list, and fetch workflows",
	Long: `Work with workflows on the n8n server and in the local workflows
directory.

Commands:
  n8nctl workflows list                      List server workflows
  n8nctl workflows get <id> [--save]         Fetch one workflow
  n8nctl workflows import <file|-> [--save]  Import a workflow JSON file
  n8nctl workflows generate <requirements>   Generate a placeholder workflow
  n8nctl workflows saved                     List locally saved workflow files`,
}

func toolService() (*tools.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return tools.New(cfg), nil
}

var workflowsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List server workflows",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := toolService()
		if err != nil {
			return err
		}
		fmt.Println(svc.ListWorkflows(context.Background()))
		return nil
	},
}

var workflowsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetch one workflow by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := toolService()
		if err != nil {
			return err
		}
		fmt.Println(svc.GetWorkflow(context.Background(), args[0], workflowsGetSave))
		return nil
	},
}

var workflowsImportCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Import a workflow JSON file to the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := toolService()
		if err != nil {
			return err
		}

		var data []byte
		if args[0] == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("read workflow input: %w", err)
		}

		fmt.Println(svc.ImportWorkflow(context.Background(), string(data), workflowsImportSave))
		return nil
	},
}

var workflowsGenerateCmd = &cobra.Command{
	Use:   "generate <requirements>",
	Short: "Generate a placeholder workflow from requirements",
	Long: `Generate a minimal workflow skeleton (a single start node). The
requirements text is recorded but not translated into nodes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := toolService()
		if err != nil {
			return err
		}
		fmt.Println(svc.GenerateWorkflow(args[0], workflowsName, workflowsGenerateSave))
		return nil
	},
}

var workflowsSavedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List locally saved workflow files",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := toolService()
		if err != nil {
			return err
		}

		entries, err := svc.Store().ListSaved()
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("No saved workflows found.")
			fmt.Printf("\nDirectory: %s\n", svc.Store().Dir())
			return nil
		}

		fmt.Println("Saved workflows")
		fmt.Println("===============")
		fmt.Println()
		for _, e := range entries {
			fmt.Printf("  %-40s  %-8s  %s  %s\n",
				e.Name, humanize.Bytes(uint64(e.Size)),
				e.Modified.Format("2006-01-02 15:04"), e.Filename)
		}
		fmt.Printf("\nTotal: %d workflows in %s\n", len(entries), svc.Store().Dir())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workflowsCmd)
	workflowsCmd.AddCommand(workflowsListCmd)
	workflowsCmd.AddCommand(workflowsGetCmd)
	workflowsCmd.AddCommand(workflowsImportCmd)
	workflowsCmd.AddCommand(workflowsGenerateCmd)
	workflowsCmd.AddCommand(workflowsSavedCmd)

	workflowsGetCmd.Flags().BoolVar(&workflowsGetSave, "save", false, "save the workflow to the workflows directory")
	workflowsImportCmd.Flags().BoolVar(&workflowsImportSave, "save", false, "also save the workflow locally before importing")
	workflowsGenerateCmd.Flags().BoolVar(&workflowsGenerateSave, "save", true, "save the generated workflow")
	workflowsGenerateCmd.Flags().StringVar(&workflowsName, "name", "", "workflow name (default: Generated Workflow)")
}
