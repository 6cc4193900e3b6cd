package wizard

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/farmkit/internal/config"
)

func TestWriteConfig_Roundtrip(t *testing.T) {
	cfg := config.Default()
	cfg.Region = "us-west-2"
	cfg.TableName = "farm-tracking"
	cfg.AuditBucket = "farm-audit"

	path := filepath.Join(t.TempDir(), "farmkit.yaml")
	require.NoError(t, WriteConfig(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# farmkit configuration"))

	loaded, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.TableName, loaded.TableName)
	assert.Equal(t, cfg.AuditBucket, loaded.AuditBucket)
	assert.Equal(t, cfg.ImportRetry, loaded.ImportRetry)
}

func TestConfirmOverwrite_Injection(t *testing.T) {
	original := confirmOverwrite
	defer func() { confirmOverwrite = original }()

	confirmOverwrite = func(string) (bool, error) { return true, nil }
	ok, err := ConfirmOverwrite("some/path")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exists.yaml")
	assert.False(t, FileExists(path))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	assert.True(t, FileExists(path))
}

func TestValidators(t *testing.T) {
	assert.NoError(t, validateTableName("farm-tracking"))
	assert.Error(t, validateTableName("no"))
	assert.Error(t, validateTableName("bad name"))

	assert.NoError(t, validateAttempts("5"))
	assert.Error(t, validateAttempts("0"))
	assert.Error(t, validateAttempts("many"))
}
