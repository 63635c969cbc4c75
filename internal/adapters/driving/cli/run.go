package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/calyx-labs/duet-cli/internal/connectors/filesystem"
	"github.com/calyx-labs/duet-cli/internal/core/domain"
)

var (
	runQuestion      string
	runSession       string
	runShowReasoning bool
	runShowPassages  bool
	runJSON          bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Ask a single question",
	Long: `Runs questions through the full pipeline: retrieve relevant
passages, reason over them, then respond.

The question can be given as arguments or via --question:

  duet run "what does the contract say about termination?"
  duet run --question "what does the contract say about termination?"

With no question, run reads questions from stdin one per line until
"exit" or end of input. Use --session to continue an existing
conversation.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runQuestion, "question", "q", "", "question to ask")
	runCmd.Flags().StringVarP(&runSession, "session", "s", "default", "conversation session ID")
	runCmd.Flags().BoolVar(&runShowReasoning, "show-reasoning", false, "print the reasoner's notes")
	runCmd.Flags().BoolVar(&runShowPassages, "show-passages", false, "print the retrieved passages")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "output the full exchange as JSON")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	question := runQuestion
	if question == "" {
		question = strings.Join(args, " ")
	}
	if strings.TrimSpace(question) == "" {
		return runInteractive(cmd)
	}

	exchange, err := pipelineService.Ask(cmd.Context(), runSession, question)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if runJSON {
		return outputExchangeJSON(cmd, exchange)
	}

	outputExchange(cmd, exchange)
	return nil
}

// runInteractive reads questions from stdin until "exit", "quit", or
// end of input. A failed question is reported and the loop continues.
func runInteractive(cmd *cobra.Command) error {
	cmd.Println(`Ask questions about your documents. Type "exit" to quit.`)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			cmd.Println()
			break
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		exchange, err := pipelineService.Ask(cmd.Context(), runSession, question)
		if err != nil {
			cmd.PrintErrf("Error: %v\n", err)
			continue
		}
		outputExchange(cmd, exchange)
		cmd.Println()
	}
	return scanner.Err()
}

func outputExchange(cmd *cobra.Command, exchange *domain.Exchange) {
	if runShowPassages {
		outputPassages(cmd, exchange.Retrieved)
	}

	if runShowReasoning {
		cmd.Println("Reasoning:")
		cmd.Println(indent(exchange.Reasoning, "  "))
		cmd.Println()
	}

	cmd.Println(exchange.Answer)
}

func outputPassages(cmd *cobra.Command, result domain.RetrievalResult) {
	if result.Empty() {
		cmd.Println("No passages retrieved.")
		cmd.Println()
		return
	}

	cmd.Println("Passages:")
	for i, p := range result.Passages {
		title := p.DocumentTitle
		if title == "" {
			title = filesystem.DisplayPath(p.DocumentURI)
		}
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, title, p.Score)
		cmd.Printf("      %s\n", snippet(p.Chunk.Content, 120))
	}
	cmd.Println()
}

func outputExchangeJSON(cmd *cobra.Command, exchange *domain.Exchange) error {
	data, err := json.MarshalIndent(exchange, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal exchange: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// snippet shortens text to at most n runes on a single line.
func snippet(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

// indent prefixes every line of text.
func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
