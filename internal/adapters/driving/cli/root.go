// Package cli implements the duet command-line interface.
// It is a driving adapter: commands translate flags and arguments into
// calls on the core services and render the results.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/calyx-labs/duet-cli/internal/core/ports/driven"
	"github.com/calyx-labs/duet-cli/internal/core/ports/driving"
	"github.com/calyx-labs/duet-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services the commands depend on. Wired by the composition root
// before Execute.
var (
	pipelineService driving.PipelineService
	ingestService   driving.IngestService
	configStore     driven.ConfigStore
	embedder        driven.EmbeddingService
	llm             driven.LLMService
	documentStore   driven.DocumentStore
	vectorIndex     driven.VectorIndex
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "duet",
	Short: "Local retrieval-augmented question answering",
	Long: `Duet answers questions from your own documents using a pair of
local agents: a reasoner that distils retrieved passages into notes,
and a responder that turns those notes into an answer.

Everything runs locally against an Ollama server - no data leaves
your machine.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

// Services bundles everything the commands need.
type Services struct {
	Pipeline      driving.PipelineService
	Ingest        driving.IngestService
	Config        driven.ConfigStore
	Embedder      driven.EmbeddingService
	LLM           driven.LLMService
	DocumentStore driven.DocumentStore
	VectorIndex   driven.VectorIndex
}

// SetServices wires the core services into the command tree.
func SetServices(s *Services) {
	pipelineService = s.Pipeline
	ingestService = s.Ingest
	configStore = s.Config
	embedder = s.Embedder
	llm = s.LLM
	documentStore = s.DocumentStore
	vectorIndex = s.VectorIndex
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command. The context carries signal
// cancellation to long-running commands such as serve and watch.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
