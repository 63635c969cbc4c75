// Package mcp provides an MCP (Model Context Protocol) server adapter for duet.
// It lets AI assistants query the local document index through the pipeline.
package mcp

import "errors"

// ErrMissingPipelineService is returned when the pipeline service is not provided.
var ErrMissingPipelineService = errors.New("mcp: pipeline service is required")
