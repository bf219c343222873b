package signals

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeOverrides(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "signals.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverrides(t *testing.T) {
	path := writeOverrides(t, `
signals:
  big_tech:
    - databricks
  building_phrases:
    - cooking something up
`)

	o, err := LoadOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"databricks"}, o.BigTech)
	assert.Equal(t, []string{"cooking something up"}, o.BuildingPhrases)
}

func TestLoadOverridesMissingFile(t *testing.T) {
	o, err := LoadOverrides(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, o.BigTech)

	o, err = LoadOverrides("")
	require.NoError(t, err)
	assert.Empty(t, o.BuildingPhrases)
}

func TestLoadOverridesMalformedYAML(t *testing.T) {
	_, err := LoadOverrides(writeOverrides(t, "signals: [not: a: map"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse overrides")
}

func TestExtendedBigTech(t *testing.T) {
	// "databricks" is already built in, so only "stripe" adds an entry.
	o := &Overrides{BigTech: []string{"stripe", "databricks"}}

	extended := o.ExtendedBigTech()
	assert.Len(t, extended, len(BigTech)+1)
	assert.Contains(t, extended, "stripe")

	// No overrides returns the built-in list untouched.
	assert.Equal(t, BigTech, (&Overrides{}).ExtendedBigTech())
}

func TestOverridePhraseMatchers(t *testing.T) {
	o := &Overrides{BuildingPhrases: []string{"cooking something up"}}

	_, ok := o.ClassifierPhraseMatcher().FindFirst("cooking something up in SF")
	assert.True(t, ok)
	_, ok = o.OrchestratorPhraseMatcher().FindFirst("cooking something up in SF")
	assert.True(t, ok)

	// Without overrides the shared matchers are reused.
	assert.Same(t, ClassifierMatcher(), (&Overrides{}).ClassifierPhraseMatcher())
	assert.Same(t, OrchestratorMatcher(), (&Overrides{}).OrchestratorPhraseMatcher())
}
