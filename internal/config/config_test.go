package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FullConfig(t *testing.T) {
	t.Parallel()
	cfg, err := Load([]byte(`
region: us-west-2
table_name: farm-tracking
audit_bucket: farm-audit
profile: render
import_retry:
  max_attempts: 7
  base_delay: 100ms
  max_delay: 10s
delete_wait:
  max_attempts: 20
log_level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, "us-west-2", cfg.Region)
	assert.Equal(t, "farm-tracking", cfg.TableName)
	assert.Equal(t, "farm-audit", cfg.AuditBucket)
	assert.Equal(t, "render", cfg.Profile)
	assert.Equal(t, 7, cfg.ImportRetry.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.ImportRetry.BaseDelay)
	assert.Equal(t, 10*time.Second, cfg.ImportRetry.MaxDelay)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()
	cfg, err := Load([]byte(`
region: us-west-2
table_name: farm-tracking
`))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5, cfg.ImportRetry.MaxAttempts)
	assert.Equal(t, 200*time.Millisecond, cfg.ImportRetry.BaseDelay)
	assert.Equal(t, 30*time.Second, cfg.ImportRetry.MaxDelay)
	assert.Equal(t, 10, cfg.DeleteWait.MaxAttempts)
	assert.Empty(t, cfg.AuditBucket)
}

func TestLoad_PartialRetryBlockKeepsOtherDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := Load([]byte(`
region: us-west-2
table_name: farm-tracking
delete_wait:
  max_attempts: 3
`))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.DeleteWait.MaxAttempts)
	assert.Equal(t, 200*time.Millisecond, cfg.DeleteWait.BaseDelay)
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"missing region":       "table_name: t\n",
		"missing table":        "region: us-west-2\n",
		"bad log level":        "region: us-west-2\ntable_name: t\nlog_level: chatty\n",
		"negative attempts":    "region: us-west-2\ntable_name: t\nimport_retry:\n  max_attempts: -1\n",
		"max below base delay": "region: us-west-2\ntable_name: t\nimport_retry:\n  base_delay: 5s\n  max_delay: 1s\n",
		"not yaml":             "{{",
		"bad duration":         "region: us-west-2\ntable_name: t\nimport_retry:\n  base_delay: soon\n",
		"half credentials":     "region: us-west-2\ntable_name: t\ncredentials:\n  access_key_id: AKIA\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := Load([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "farmkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("region: us-west-2\ntable_name: farm-tracking\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "farm-tracking", cfg.TableName)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefault_Validates(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.Region = "us-west-2"
	cfg.TableName = "farm-tracking"
	assert.NoError(t, cfg.Validate())
}
