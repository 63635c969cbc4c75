package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calyx-labs/duet-cli/internal/adapters/driving/web"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web interface",
	Long: `Starts an HTTP server with a browser chat page and a JSON API.

Endpoints:
  GET  /                     Chat page
  POST /api/chat             Ask a question
  POST /api/retrieve         Retrieval only
  POST /api/documents        Upload a document
  GET  /api/history/:session Conversation history

The server binds to localhost by default.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "listen address")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", web.DefaultPort, "listen port")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	if configStore != nil {
		if port := configStore.GetInt("server.port"); port > 0 && !cmd.Flags().Changed("port") {
			servePort = port
		}
	}

	server, err := web.NewServer(web.Config{
		Host: serveHost,
		Port: servePort,
	}, &web.Services{
		Pipeline:      pipelineService,
		Ingest:        ingestService,
		DocumentStore: documentStore,
		VectorIndex:   vectorIndex,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	cmd.Printf("Serving on http://%s\n", server.Addr())
	return server.Run(cmd.Context())
}
