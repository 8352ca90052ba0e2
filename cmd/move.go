package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mediasort/mediasort/internal/library"
)

var moveCmd = &cobra.Command{
	Use:   "move <action>",
	Short: "Move items out of the library",
	Long: `Move items to the directory implied by the action and remove them
from the store. Actions:

  save_date    output dir under a dated, named folder
  save_no_date output dir under a named folder
  delete       the delete dir

Example:
  mediasort move save_date --id 01J5... --id 01J6... --name "Lake Trip"`,
	Args: cobra.ExactArgs(1),
	RunE: runMove,
}

func init() {
	rootCmd.AddCommand(moveCmd)

	moveCmd.Flags().StringSlice("id", nil, "Item id to move (repeatable)")
	moveCmd.Flags().String("name", "", "Destination folder name (required for save actions)")
	moveCmd.Flags().Bool("dry-run", false, "Compute destinations without touching files")
}

func runMove(cmd *cobra.Command, args []string) error {
	action := args[0]
	itemIDs := mustGetStringSlice(cmd, "id")
	name := mustGetString(cmd, "name")
	dryRunFlag := mustGetBool(cmd, "dry-run")

	cfg, svc, st, err := openService()
	if err != nil {
		return err
	}
	defer st.Close()

	dryRun := cfg.DryRun || dryRunFlag
	if dryRun {
		fmt.Println("Mode: DRY RUN (no files will be moved)")
	}

	ctx := context.Background()
	dir, err := svc.Move(ctx, action, itemIDs, name, dryRun)
	if err != nil {
		return fmt.Errorf("move failed: %w", err)
	}

	if library.IsSaveAction(action) && name != "" {
		if err := svc.AddSuggestion(ctx, name); err != nil {
			fmt.Printf("Warning: could not record name suggestion: %v\n", err)
		}
	}

	fmt.Printf("Done! %d item(s) -> %s\n", len(itemIDs), dir)
	return nil
}
