package feature

import (
	"github.com/magic-gear/calcifer/internal/project"
	"github.com/magic-gear/calcifer/internal/prompt"
	"github.com/magic-gear/calcifer/internal/value"
)

type Unit struct{}

func (Unit) Describe() prompt.FeatureDescriptor {
	return prompt.FeatureDescriptor{
		Name:        "Unit Testing",
		Value:       "unit",
		Short:       "Unit",
		Description: "Add a Unit Testing solution like Jest or Mocha",
	}
}

func (Unit) question() *prompt.Prompt {
	return &prompt.Prompt{
		Name:    "unit",
		Type:    prompt.List,
		Message: "Pick a unit testing solution:",
		Choices: []prompt.Choice{{Name: "Jest", Value: "jest", Short: "Jest"}},
		When:    prompt.WhenFeature("unit"),
	}
}

func (u Unit) Prompts() []*prompt.Prompt { return []*prompt.Prompt{u.question()} }

func (u Unit) Finalize(answers prompt.Answers) { defaultChoice(answers, "unit", u.question()) }

// Contribute wires Jest with Testing Library. The setup file follows the
// project language and is registered with both jest and tsconfig.
func (Unit) Contribute(g *project.Generation, answers prompt.Answers) {
	if answers.String("unit") != "jest" {
		return
	}

	g.ExtendPackage(value.Of(
		"scripts", value.Of("test:unit", "jest"),
		"devDependencies", value.Of(
			"jest", "^26.6.3",
			"babel-jest", "^26.6.3",
			"eslint-plugin-jest", "^24.1.3",
			"@testing-library/react", "^11.2.3",
			"@testing-library/jest-dom", "^5.11.9",
		),
	))
	g.Config(project.ConfigESLint).Append("plugins", "jest")

	setupFile := "jest.setup.js"
	if g.HasFeature("ts") {
		setupFile = "jest.setup.ts"
		g.ExtendPackage(value.Of("devDependencies", value.Of("@types/jest", "^26.0.20")))
	}
	g.AddFile(setupFile, "import '@testing-library/jest-dom'\n")
	g.Config(project.ConfigTypeScript).Append("include", "./"+setupFile)
	g.Config(project.ConfigJest).Set("setupFilesAfterEnv", []string{"<rootDir>/" + setupFile})
	g.EnableConfig(project.ConfigJest)
}
