// Package tui provides the interactive chat terminal interface for duet.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/calyx-labs/duet-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Pipeline runs questions through retrieve -> reason -> respond
	// and owns conversation history.
	Pipeline driving.PipelineService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Pipeline == nil {
		return ErrMissingPipelineService
	}
	return nil
}
