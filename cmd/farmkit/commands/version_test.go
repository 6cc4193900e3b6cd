package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetVersionInfo(t *testing.T) {
	origVersion, origCommit, origDate := version, commit, date
	defer SetVersionInfo(origVersion, origCommit, origDate)

	SetVersionInfo("1.2.3", "abc123", "2024-06-15")
	assert.Equal(t, "1.2.3", version)
	assert.Equal(t, "abc123", commit)
	assert.Equal(t, "2024-06-15", date)
}

func TestVersion_Command(t *testing.T) {
	cmd := Version()
	assert.Equal(t, "version", cmd.Name())
	assert.NotNil(t, cmd.Run)
}
