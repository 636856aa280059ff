package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileAbsent(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	require.True(t, cfg.LLM.UseMocks)
	require.True(t, cfg.Memory.Enabled)
	require.Equal(t, filepath.Join(".agentops", "ltm"), cfg.Memory.Dir)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".agentops"), 0o755))

	doc := `{"llm": {"model": "from-file", "use_mocks": false}, "memory": {"enabled": false}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".agentops", "config.json"), []byte(doc), 0o644))

	t.Setenv("AGENTOPS_LLM_MODEL", "from-env")
	t.Setenv("AGENTOPS_LLM_API_KEY", "sk-test")

	cfg, err := Load(dir)
	require.NoError(t, err)

	// Env wins over file, file wins over defaults.
	require.Equal(t, "from-env", cfg.LLM.Model)
	require.Equal(t, "sk-test", cfg.LLM.APIKey)
	require.False(t, cfg.LLM.UseMocks)
	require.False(t, cfg.Memory.Enabled)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".agentops"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".agentops", "config.json"), []byte("{nope"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}
