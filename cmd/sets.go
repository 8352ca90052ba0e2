package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "List sets ordered by start time",
	Long: `List sets ordered by start time, earliest first.

Example:
  mediasort sets --limit 50`,
	RunE: runSets,
}

func init() {
	rootCmd.AddCommand(setsCmd)

	setsCmd.Flags().Int("limit", 0, "Maximum number of sets to list (0 = configured default)")
}

func runSets(cmd *cobra.Command, args []string) error {
	limit := mustGetInt(cmd, "limit")

	_, svc, st, err := openService()
	if err != nil {
		return err
	}
	defer st.Close()

	sets, err := svc.ListSets(context.Background(), limit)
	if err != nil {
		return fmt.Errorf("listing sets: %w", err)
	}

	if len(sets) == 0 {
		fmt.Println("No sets found. Run 'mediasort load' first.")
		return nil
	}

	for _, s := range sets {
		name := s.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("%s  %s - %s  %4d item(s)  %s\n",
			s.ID,
			s.Start.Format(time.DateTime),
			s.End.Format(time.DateTime),
			s.Length,
			name,
		)
	}
	fmt.Printf("\n%d set(s)\n", len(sets))
	return nil
}
