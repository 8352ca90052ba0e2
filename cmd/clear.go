package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all sets and items from the store",
	Long: `Remove all sets and items from the store. Media files on disk are
not touched. Name suggestions and the location cache survive the clear
unless configured otherwise.

Example:
  mediasort clear --yes`,
	RunE: runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)

	clearCmd.Flags().Bool("yes", false, "Skip confirmation prompt")
}

func confirmAction(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

func runClear(cmd *cobra.Command, args []string) error {
	skipConfirm := mustGetBool(cmd, "yes")

	_, svc, st, err := openService()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()

	items, sets, err := svc.Counts(ctx)
	if err != nil {
		return fmt.Errorf("reading counts: %w", err)
	}
	if items == 0 && sets == 0 {
		fmt.Println("Store is already empty.")
		return nil
	}

	fmt.Printf("Items: %d\n", items)
	fmt.Printf("Sets:  %d\n", sets)

	if !skipConfirm && !confirmAction("\nRemove all sets and items? [y/N]: ") {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := svc.Clear(ctx); err != nil {
		return fmt.Errorf("clearing store: %w", err)
	}

	fmt.Println("Done! Store cleared.")
	return nil
}
