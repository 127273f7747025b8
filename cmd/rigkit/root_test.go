package rigkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/rigkit/pkg/errors"
)

func TestNoCommand(t *testing.T) {
	_, err := execute(t)
	assert.EqualError(t, err, "no command specified")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "rigkit version dev\n", out)
}

func TestHelpTopics(t *testing.T) {
	out, err := execute(t, "help", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "visibility")
	assert.Contains(t, out, "--format")

	out, err = execute(t, "help", "scene-documents")
	require.NoError(t, err)
	assert.Contains(t, out, "Node libraries")
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "rigkit")

	_, err = execute(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestUsageTemplate(t *testing.T) {
	out, err := execute(t, "set", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "USAGE:")
	assert.Contains(t, out, "--dry-run")
}

func TestTopicsCommand(t *testing.T) {
	out, err := execute(t, "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "Available help topics:")

	out, err = execute(t, "topics", "visibility")
	require.NoError(t, err)
	assert.Contains(t, out, "Mask rules")

	_, err = execute(t, "topics", "weather")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}
