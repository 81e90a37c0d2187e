package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/gematria/internal/errors"
	"github.com/f3rmion/gematria/internal/gematria"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	cfg := Default(dir)
	cfg.DefaultLanguage = gematria.Greek
	cfg.DefaultMethods = []gematria.Method{gematria.GreekStandard, gematria.GreekOrdinal}
	cfg.Lexicons = []string{filepath.Join(dir, "words.jsonl")}
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	yml := "database: data/gem.db\nlexicons:\n  - words.jsonl\n  - /abs/words.jsonl\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data", "gem.db"), cfg.Database)
	assert.Equal(t, []string{filepath.Join(dir, "words.jsonl"), "/abs/words.jsonl"}, cfg.Lexicons)
	assert.Equal(t, filepath.Join(dir, "ciphers"), cfg.CiphersDir, "missing fields keep defaults")
	assert.Equal(t, gematria.Hebrew, cfg.DefaultLanguage)
}

func TestLoadRejectsUnknownValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	for _, yml := range []string{
		"default_language: klingon\n",
		"default_methods: [hebrew-nonexistent]\n",
		"display:\n  format: html\n",
	} {
		require.NoError(t, os.WriteFile(path, []byte(yml), 0644))
		_, err := Load(path)
		require.Error(t, err, yml)
		assert.True(t, errors.IsInvalidArgument(err), yml)
	}
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadOrDefault(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(dir), cfg)

	require.NoError(t, EnsureDir(dir))
	assert.DirExists(t, filepath.Join(dir, "ciphers"))
}
