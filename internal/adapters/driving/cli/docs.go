package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calyx-labs/duet-cli/internal/connectors/filesystem"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage indexed documents",
	Long:  `List and remove documents from the index.`,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed documents",
	RunE:  runDocsList,
}

var docsRemoveCmd = &cobra.Command{
	Use:   "remove [uri]",
	Short: "Remove a document from the index",
	Long:  `Removes the document with the given URI, along with its chunks and vectors.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsRemove,
}

func init() {
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsRemoveCmd)
	rootCmd.AddCommand(docsCmd)
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	if documentStore == nil {
		return errors.New("document store not configured")
	}

	docs, err := documentStore.ListDocuments(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents indexed. Run 'duet ingest <path>' first.")
		return nil
	}

	for i := range docs {
		title := docs[i].Title
		if title == "" {
			title = docs[i].ID
		}
		cmd.Printf("  %s  [%s]\n", title, docs[i].Format)
		cmd.Printf("    %s\n", filesystem.DisplayPath(docs[i].URI))
	}
	cmd.Printf("\n%d documents.\n", len(docs))
	return nil
}

func runDocsRemove(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	uri := args[0]
	if err := ingestService.Remove(cmd.Context(), uri); err != nil {
		return fmt.Errorf("removing %s: %w", uri, err)
	}

	cmd.Printf("Removed %s.\n", uri)
	return nil
}
