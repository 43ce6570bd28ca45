package preset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/magic-gear/calcifer/internal/errors"
	"github.com/magic-gear/calcifer/internal/prompt"
)

func TestParse_YAML(t *testing.T) {
	answers, err := Parse([]byte(`
features: [ts, linter, unit]
eslintConfig: prettier
unit: jest
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"ts", "linter", "unit"}, answers.Features())
	assert.Equal(t, "prettier", answers.String("eslintConfig"))
	assert.Equal(t, DefaultConfigPlacement, answers.String(prompt.UseConfigFilesKey))
}

func TestParse_JSON(t *testing.T) {
	answers, err := Parse([]byte(`{"features": ["router"], "router": "react-router-dom", "useConfigFiles": "pkg"}`))
	require.NoError(t, err)

	assert.True(t, answers.HasFeature("router"))
	assert.Equal(t, "pkg", answers.String(prompt.UseConfigFilesKey))
}

func TestParse_EmptyFeatureList(t *testing.T) {
	answers, err := Parse([]byte("features: []\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{}, answers[prompt.FeaturesKey])
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{"missing features", "unit: jest\n", "features"},
		{"features not a list", "features: ts\n", "/features"},
		{"feature not a string", "features: [ts, 3]\n", "/features/1"},
		{"duplicate features", "features: [ts, ts]\n", "/features"},
		{"bad placement", "features: []\nuseConfigFiles: inline\n", "/useConfigFiles"},
		{"unknown choice", "features: [unit]\nunit: mocha\n", "/unit"},
		{"not a mapping", "- ts\n- unit\n", "object"},
		{"empty", "", "empty"},
		{"malformed", "features: [ts\n", "not valid YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, cerrors.ErrConfiguration)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "react.yml")
	require.NoError(t, os.WriteFile(path, []byte("features: [e2e]\ne2e: cypress\n"), 0644))

	answers, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cypress", answers.String("e2e"))

	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("features: nope\n"), 0644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad, "error names the preset file")

	_, err = Load(filepath.Join(dir, "missing.yml"))
	assert.ErrorIs(t, err, cerrors.ErrConfiguration)
}

func TestSchemaCompiles(t *testing.T) {
	s, err := getSchema()
	require.NoError(t, err)
	assert.NotNil(t, s)
}
