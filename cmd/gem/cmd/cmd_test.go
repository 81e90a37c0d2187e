package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/gematria/internal/config"
	"github.com/f3rmion/gematria/internal/report"
)

// resetFlags puts every flag back to its default; cobra keeps parsed values
// between Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes gem with args against the config directory dir and returns stdout.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	out, _, err := runStderr(t, dir, args...)
	return out, err
}

func runStderr(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, stderr bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config", dir}, args...))
	err := rootCmd.Execute()
	return out.String(), stderr.String(), err
}

func TestUnreadableEnvFileIsReported(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".env"), 0o755))

	out, stderr, err := runStderr(t, dir, "calc", "abc", "-m", "english-ordinal")
	require.NoError(t, err)
	assert.Contains(t, out, "6")
	assert.Contains(t, stderr, "Warning: could not read")

	require.NoError(t, os.Remove(filepath.Join(dir, ".env")))
	_, stderr, err = runStderr(t, dir, "calc", "abc", "-m", "english-ordinal")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "Warning")
}

func TestInitWritesConfig(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, dir, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized!")

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "gematria.db"), cfg.Database)
	assert.DirExists(t, filepath.Join(dir, "ciphers"))
	assert.FileExists(t, cfg.Database)

	_, err = run(t, dir, "init")
	assert.Error(t, err)
}

func TestCalcDetectsLanguage(t *testing.T) {
	out, err := run(t, t.TempDir(), "calc", "שלום")
	require.NoError(t, err)
	assert.Contains(t, out, "Hebrew")
	assert.Contains(t, out, "376")
}

func TestCalcJSONWithMethods(t *testing.T) {
	out, err := run(t, t.TempDir(), "calc", "--format", "json", "-m", "english-ordinal", "-m", "english-reduced", "Hello")
	require.NoError(t, err)

	var got report.Calculation
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Results, 2)
	assert.Equal(t, 52, got.Results[0].Value)
	assert.Equal(t, "english-reduced", got.Results[1].Method)
}

func TestCalcUnknownMethod(t *testing.T) {
	_, err := run(t, t.TempDir(), "calc", "-m", "hebrew-nonexistent", "שלום")
	assert.Error(t, err)
}

func TestCalcSaveAndHistory(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "calc", "--save", "--tag", "truth", "-m", "hebrew-standard", "אמת")
	require.NoError(t, err)

	out, err := run(t, dir, "history", "list", "--tag", "truth")
	require.NoError(t, err)
	assert.Contains(t, out, "אמת")
	assert.Contains(t, out, "441")
	assert.Contains(t, out, "[truth]")

	out, err = run(t, dir, "tag", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "truth")
}

func TestKamea(t *testing.T) {
	out, err := run(t, t.TempDir(), "kamea", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "000012")
	assert.Contains(t, out, "000021")

	_, err = run(t, t.TempDir(), "kamea", "729")
	assert.Error(t, err)
}

func TestCipherCreateAndCalc(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, dir, "cipher", "create", "abc", "--lang", "english", "--values", "a=1,b=2,c=3", "--aggregation", "squared")
	require.NoError(t, err)
	assert.Contains(t, out, "Created cipher abc")

	out, err = run(t, dir, "cipher", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "abc")

	out, err = run(t, dir, "calc", "--custom", "abc", "-m", "english-ordinal", "abc")
	require.NoError(t, err)
	assert.Contains(t, out, "14")

	entries, err := os.ReadDir(filepath.Join(dir, "ciphers"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".json"))
}

func TestMethodsList(t *testing.T) {
	out, err := run(t, t.TempDir(), "methods", "--lang", "greek")
	require.NoError(t, err)
	assert.Contains(t, out, "greek-standard")
	assert.NotContains(t, out, "hebrew-standard")
}
