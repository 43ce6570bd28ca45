package feature

import (
	"github.com/magic-gear/calcifer/internal/project"
	"github.com/magic-gear/calcifer/internal/prompt"
	"github.com/magic-gear/calcifer/internal/value"
)

// Linter sets up ESLint with Prettier, plus husky and lint-staged so
// staged files are formatted on commit. Selected by default.
type Linter struct{}

func (Linter) Describe() prompt.FeatureDescriptor {
	return prompt.FeatureDescriptor{
		Name:        "Linter / Formatter",
		Value:       "linter",
		Short:       "Linter",
		Description: "Check and enforce code quality with ESLint or Prettier",
		Checked:     true,
	}
}

func (Linter) question() *prompt.Prompt {
	return &prompt.Prompt{
		Name:    "eslintConfig",
		Type:    prompt.List,
		Message: "Pick a linter / formatter config:",
		Choices: []prompt.Choice{{Name: "ESLint + Prettier", Value: "prettier", Short: "Prettier"}},
		When:    prompt.WhenFeature("linter"),
	}
}

func (l Linter) Prompts() []*prompt.Prompt { return []*prompt.Prompt{l.question()} }

func (l Linter) Finalize(answers prompt.Answers) { defaultChoice(answers, "linter", l.question()) }

func (Linter) Contribute(g *project.Generation, answers prompt.Answers) {
	if answers.String("eslintConfig") != "prettier" {
		return
	}

	g.ExtendPackage(value.Of(
		"scripts", value.Of("format", "prettier --write ."),
		"husky", value.Of("hooks", value.Of("pre-commit", "lint-staged")),
		"lint-staged", value.Of(
			"*.{js,jsx,ts,tsx,md,html,css,less}", "prettier --write",
			"*.{js,jsx,ts,tsx}", "eslint --fix",
		),
		"devDependencies", value.Of(
			"eslint", "^7.18.0",
			"eslint-config-prettier", "^7.2.0",
			"eslint-plugin-react", "^7.22.0",
			"eslint-plugin-react-hooks", "^4.2.0",
			"prettier", "^2.2.1",
			"husky", "^4.3.8",
			"lint-staged", "^10.5.3",
		),
	))
	g.Config(project.ConfigESLint).Append("extends", "prettier")
	g.EnableConfig(project.ConfigPrettier)
	g.AddConfigFile(".prettierignore", "lines", []string{"dist", "public"})
}
