package feature

import (
	"github.com/magic-gear/calcifer/internal/project"
	"github.com/magic-gear/calcifer/internal/prompt"
	"github.com/magic-gear/calcifer/internal/value"
)

// E2E adds Cypress with the Testing Library commands and ESLint rules.
type E2E struct{}

func (E2E) Describe() prompt.FeatureDescriptor {
	return prompt.FeatureDescriptor{
		Name:        "E2E Testing",
		Value:       "e2e",
		Short:       "E2E",
		Description: "Add an End-to-End testing solution to the app",
	}
}

func (E2E) question() *prompt.Prompt {
	return &prompt.Prompt{
		Name:    "e2e",
		Type:    prompt.List,
		Message: "Pick an E2E testing solution:",
		Choices: []prompt.Choice{{
			Name:  "Cypress (Test in Chrome, Firefox, MS Edge, and Electron)",
			Value: "cypress",
			Short: "Cypress",
		}},
		When: prompt.WhenFeature("e2e"),
	}
}

func (e E2E) Prompts() []*prompt.Prompt { return []*prompt.Prompt{e.question()} }

func (e E2E) Finalize(answers prompt.Answers) { defaultChoice(answers, "e2e", e.question()) }

func (E2E) Contribute(g *project.Generation, answers prompt.Answers) {
	if answers.String("e2e") != "cypress" {
		return
	}
	g.ExtendPackage(value.Of(
		"scripts", value.Of("test:e2e", "cypress open"),
		"devDependencies", value.Of(
			"cypress", "^6.3.0",
			"eslint-plugin-cypress", "^2.11.2",
			"@testing-library/cypress", "^7.0.3",
		),
	))
	g.Config(project.ConfigESLint).Append("extends", "plugin:cypress/recommended")
}
