package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.False(t, cfg.Logging.AddSource)
	assert.Equal(t, "合同PDF附件", cfg.Matching.AttachmentDir)
	assert.Equal(t, "last", cfg.Matching.CollisionPolicy)
	assert.Equal(t, "机构", cfg.Columns.Institution)
	assert.Equal(t, "合同原件", cfg.Columns.Attachment)
	assert.Empty(t, cfg.Metrics.Textfile)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_SOURCE", "true")
	t.Setenv("CONTRACT_COLLISION_POLICY", "first")
	t.Setenv("CONTRACT_COL_TYPE", "Contract Type")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Logging.AddSource)
	assert.Equal(t, "first", cfg.Matching.CollisionPolicy)
	assert.Equal(t, "Contract Type", cfg.Columns.ContractType)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CONTRACT_ATTACHMENT_DIR=attachments\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CONTRACT_ATTACHMENT_DIR") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "attachments", cfg.Matching.AttachmentDir)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("CONTRACT_COLLISION_POLICY", "random")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
