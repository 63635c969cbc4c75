package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/calyx-labs/duet-cli/internal/connectors/filesystem"
	"github.com/calyx-labs/duet-cli/internal/core/ports/driving"
)

var (
	ingestRebuild bool
	ingestWatch   bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [paths...]",
	Short: "Index documents for retrieval",
	Long: `Reads the given files or directories, splits them into chunks,
embeds each chunk, and adds them to the search index.

Supported formats: plain text, Markdown, CSV, PDF, and DOCX.

Re-ingesting a path replaces its previous version in the index.
Use --rebuild to clear the whole index first, or --watch to keep
running and pick up file changes as they happen.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestRebuild, "rebuild", false, "clear the index before ingesting")
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "watch paths for changes after the initial scan")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := cmd.Context()

	report, err := ingestService.IngestPaths(ctx, args, driving.IngestOptions{
		Rebuild: ingestRebuild,
	})
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	outputIngestReport(cmd, report)

	if !ingestWatch {
		return nil
	}

	// Watch each path until interrupted.
	cmd.Println("Watching for changes (Ctrl-C to stop)...")
	errCh := make(chan error, len(args))
	for _, path := range args {
		conn := filesystem.New(path)
		go func() {
			errCh <- ingestService.Watch(ctx, conn)
		}()
	}

	for range args {
		if err := <-errCh; err != nil && !errors.Is(err, ctx.Err()) {
			return fmt.Errorf("watch failed: %w", err)
		}
	}
	return nil
}

func outputIngestReport(cmd *cobra.Command, report *driving.IngestReport) {
	cmd.Printf("Indexed %d documents (%d chunks).\n", report.Documents, report.Chunks)

	if len(report.Skipped) == 0 {
		return
	}

	paths := make([]string, 0, len(report.Skipped))
	for path := range report.Skipped {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	cmd.Printf("Skipped %d:\n", len(paths))
	for _, path := range paths {
		cmd.Printf("  %s: %v\n", path, report.Skipped[path])
	}
}
