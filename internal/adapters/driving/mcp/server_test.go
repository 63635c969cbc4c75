package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_RequiresPipeline(t *testing.T) {
	_, err := NewServer(&Ports{})
	assert.ErrorIs(t, err, ErrMissingPipelineService)
}

func TestNewServer_Succeeds(t *testing.T) {
	server, err := NewServer(&Ports{Pipeline: &mockPipeline{}})

	require.NoError(t, err)
	assert.NotNil(t, server)
}

func TestNewServer_DocumentsOptional(t *testing.T) {
	server, err := NewServer(&Ports{
		Pipeline:  &mockPipeline{},
		Documents: &mockDocStore{},
	})

	require.NoError(t, err)
	assert.NotNil(t, server)
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{"missing pipeline", &Ports{}, ErrMissingPipelineService},
		{"pipeline only", &Ports{Pipeline: &mockPipeline{}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
