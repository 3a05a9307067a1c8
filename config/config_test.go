package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFileLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: anthropic\ncolors:\n  user: CYAN\n"), 0644))

	cfg := Default()
	require.NoError(t, loadFromFile(path, cfg))

	assert.Equal(t, "anthropic", cfg.LLMClient)
	assert.Equal(t, "CYAN", cfg.Colors.User)
	// untouched keys keep their defaults
	assert.Equal(t, "GREEN", cfg.Colors.Assistant)
	assert.Equal(t, int64(2048), cfg.MaxTokens)
}

func TestLoadFromFileRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [unterminated"), 0644))
	assert.Error(t, loadFromFile(path, Default()))
}

func TestLoadConfigProjectOverride(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	t.Setenv("HOME", home)

	require.NoError(t, os.MkdirAll(filepath.Join(home, DirName), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(home, DirName, "config.yaml"),
		[]byte("llm: gemini\nmodel: gemini-1.5-flash\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(project, DirName), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(project, DirName, "config.yaml"),
		[]byte("model: gemini-1.5-pro\n"), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(project))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLMClient)
	assert.Equal(t, "gemini-1.5-pro", cfg.Model)
	assert.Equal(t, filepath.Join(home, DirName, "conversations"), cfg.ConversationsDir)
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, home, ExpandHome("~"))
	assert.Equal(t, filepath.Join(home, "x", "y"), ExpandHome("~/x/y"))
	assert.Equal(t, "/abs/path", ExpandHome("/abs/path"))
	assert.Equal(t, "~other", ExpandHome("~other"))
	assert.Equal(t, "", ExpandHome(""))
}
