package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
)

const statusPingTimeout = 5 * time.Second

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check index and model connectivity",
	Long: `Reports the state of the index and whether the embedding and chat
models are reachable. Run this first when answers stop working.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if documentStore == nil || vectorIndex == nil {
		return errors.New("services not configured")
	}

	ctx := cmd.Context()

	docs, err := documentStore.ListDocuments(ctx)
	if err != nil {
		return err
	}
	chunks, err := documentStore.CountChunks(ctx)
	if err != nil {
		return err
	}
	vectors, err := vectorIndex.Count(ctx)
	if err != nil {
		return err
	}

	cmd.Println("Index:")
	cmd.Printf("  documents: %d\n", len(docs))
	cmd.Printf("  chunks:    %d\n", chunks)
	cmd.Printf("  vectors:   %d\n", vectors)
	cmd.Println()

	cmd.Println("Models:")
	embedOK := reportPing(cmd, "embedding", func(ctx context.Context) error {
		return embedder.Ping(ctx)
	})
	chatOK := reportPing(cmd, "chat", func(ctx context.Context) error {
		return llm.Ping(ctx)
	})

	if !embedOK || !chatOK {
		return errors.New("one or more models are unreachable")
	}
	return nil
}

func reportPing(cmd *cobra.Command, name string, ping func(context.Context) error) bool {
	ctx, cancel := context.WithTimeout(cmd.Context(), statusPingTimeout)
	defer cancel()

	if err := ping(ctx); err != nil {
		cmd.Printf("  %s: unreachable (%v)\n", name, err)
		return false
	}
	cmd.Printf("  %s: ok\n", name)
	return true
}
