package mcp

import (
	"github.com/calyx-labs/duet-cli/internal/core/ports/driven"
	"github.com/calyx-labs/duet-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Pipeline runs questions through retrieve -> reason -> respond.
	Pipeline driving.PipelineService

	// Documents exposes the indexed corpus as MCP resources.
	// Optional: resources degrade gracefully when nil.
	Documents driven.DocumentStore
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Pipeline == nil {
		return ErrMissingPipelineService
	}
	return nil
}
