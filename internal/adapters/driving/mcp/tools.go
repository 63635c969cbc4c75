package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// askSession scopes conversations started by MCP clients.
const askSession = "mcp"

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed documents"`
	Session  string `json:"session,omitempty" jsonschema:"conversation session ID (defaults to a shared MCP session)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer    string          `json:"answer"`
	Reasoning string          `json:"reasoning"`
	Passages  []PassageOutput `json:"passages"`
}

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Question string `json:"question" jsonschema:"the query to match against indexed chunks"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"maximum number of passages to return (default 4)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Passages []PassageOutput `json:"passages"`
	Count    int             `json:"count"`
}

// PassageOutput represents a single retrieved passage.
type PassageOutput struct {
	DocumentTitle string  `json:"document_title"`
	DocumentURI   string  `json:"document_uri"`
	Content       string  `json:"content"`
	Score         float64 `json:"score"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the indexed documents using the full retrieve-reason-respond pipeline",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Return the most relevant indexed passages for a query without generating an answer",
	}, s.handleRetrieve)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	session := input.Session
	if session == "" {
		session = askSession
	}

	exchange, err := s.ports.Pipeline.Ask(ctx, session, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:    exchange.Answer,
		Reasoning: exchange.Reasoning,
		Passages:  make([]PassageOutput, len(exchange.Retrieved.Passages)),
	}
	for i, p := range exchange.Retrieved.Passages {
		output.Passages[i] = PassageOutput{
			DocumentTitle: p.DocumentTitle,
			DocumentURI:   p.DocumentURI,
			Content:       p.Chunk.Content,
			Score:         p.Score,
		}
	}

	return nil, output, nil
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	result, err := s.ports.Pipeline.Retrieve(ctx, input.Question, input.TopK)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Passages: make([]PassageOutput, len(result.Passages)),
		Count:    len(result.Passages),
	}
	for i, p := range result.Passages {
		output.Passages[i] = PassageOutput{
			DocumentTitle: p.DocumentTitle,
			DocumentURI:   p.DocumentURI,
			Content:       p.Chunk.Content,
			Score:         p.Score,
		}
	}

	return nil, output, nil
}
