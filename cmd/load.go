package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mediasort/mediasort/internal/media"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Scan the input directory and build sets",
	Long: `Scan the input directory for media files and group them into
temporal sets. The load runs synchronously and reports progress; use the
web API's reload endpoint for background loads.

Example:
  mediasort load --input /mnt/camera`,
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().String("input", "", "Directory to scan (defaults to configured input dir)")
}

// progressSource wraps a media source and advances a progress bar for
// every item it yields.
type progressSource struct {
	src media.Source
	bar *progressbar.ProgressBar
}

func (p *progressSource) Next() (media.Item, error) {
	item, err := p.src.Next()
	if err == nil {
		_ = p.bar.Add(1)
	}
	return item, err
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, svc, st, err := openService()
	if err != nil {
		return err
	}
	defer st.Close()

	inputDir := mustGetString(cmd, "input")
	if inputDir == "" {
		inputDir = cfg.InputDir
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal...")
		cancel()
	}()

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("Loading"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWriter(os.Stderr),
	)

	fmt.Printf("Scanning %s\n", inputDir)
	src := &progressSource{src: media.NewDirSource(inputDir, nil), bar: bar}

	if err := svc.Populate(ctx, src); err != nil {
		return fmt.Errorf("load failed: %w", err)
	}
	_ = bar.Finish()
	fmt.Println()

	items, sets, err := svc.Counts(ctx)
	if err != nil {
		return fmt.Errorf("reading counts: %w", err)
	}
	fmt.Printf("Done! %d item(s) in %d set(s)\n", items, sets)
	return nil
}
