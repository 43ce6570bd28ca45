package feature

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/magic-gear/calcifer/internal/errors"
	"github.com/magic-gear/calcifer/internal/prompt"
)

func TestDefault_RegistrationOrder(t *testing.T) {
	var keys []string
	for _, m := range Default().Modules() {
		keys = append(keys, m.Describe().Value)
	}
	assert.Equal(t, []string{"ts", "router", "ui", "css-preprocessor", "css-in-js", "linter", "unit", "e2e"}, keys)

	m, ok := Default().Lookup("unit")
	require.True(t, ok)
	assert.Equal(t, "Unit Testing", m.Describe().Name)

	_, ok = Default().Lookup("vue")
	assert.False(t, ok)
}

func TestRegister_PromptSequence(t *testing.T) {
	c := prompt.NewComposer()
	Default().Register(c)

	prompts, err := c.ResolveFinalPrompts()
	require.NoError(t, err)

	var names []string
	for _, p := range prompts {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{
		"features", "router", "uiLib", "cssPreprocessor", "cssInJs", "eslintConfig", "unit", "e2e", "useConfigFiles",
	}, names)

	assert.Equal(t, []string{"linter"}, prompt.Default(prompts[0]))
}

func TestRegister_DuplicateKey(t *testing.T) {
	c := prompt.NewComposer()
	NewRegistry(Router{}, Unit{}, Router{}).Register(c)

	_, err := c.ResolveFinalPrompts()
	assert.ErrorIs(t, err, cerrors.ErrConfiguration)
}

func TestSession_OnlySelectedFeaturesAsk(t *testing.T) {
	c := prompt.NewComposer()
	Default().Register(c)
	prompts, err := c.ResolveFinalPrompts()
	require.NoError(t, err)

	raw, err := prompt.Run(context.Background(), prompts, prompt.Scripted{
		"features": []string{"router", "unit"},
	})
	require.NoError(t, err)

	assert.Equal(t, "react-router-dom", raw["router"])
	assert.Equal(t, "jest", raw["unit"])
	assert.NotContains(t, raw, "eslintConfig")
	assert.NotContains(t, raw, "e2e")
	assert.Equal(t, "files", raw["useConfigFiles"])
}

func TestFinalize_FillsMissingChoices(t *testing.T) {
	c := prompt.NewComposer()
	Default().Register(c)

	final := c.Resolve(prompt.Answers{"features": []string{"linter", "e2e"}, "useConfigFiles": "pkg"})

	assert.Equal(t, "prettier", final["eslintConfig"])
	assert.Equal(t, "cypress", final["e2e"])
	assert.NotContains(t, final, "unit")
}
