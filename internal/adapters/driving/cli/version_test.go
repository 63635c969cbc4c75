package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "duet version")
}

func TestSetVersion(t *testing.T) {
	old := version
	defer func() { version = old }()

	SetVersion("1.2.3")
	out, err := executeCommand(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "duet version 1.2.3")
}

func TestSetVersion_EmptyIgnored(t *testing.T) {
	old := version
	defer func() { version = old }()

	SetVersion("")
	assert.Equal(t, old, version)
}
