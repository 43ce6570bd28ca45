package feature

import (
	"github.com/magic-gear/calcifer/internal/project"
	"github.com/magic-gear/calcifer/internal/prompt"
	"github.com/magic-gear/calcifer/internal/value"
)

// UILibrary adds a component library.
type UILibrary struct{}

func (UILibrary) Describe() prompt.FeatureDescriptor {
	return prompt.FeatureDescriptor{Name: "UI Library", Value: "ui", Description: "Add UI library"}
}

func (UILibrary) question() *prompt.Prompt {
	return &prompt.Prompt{
		Name:    "uiLib",
		Type:    prompt.List,
		Message: "Pick a UI library:",
		Choices: []prompt.Choice{{Name: "antd", Value: "antd"}},
		When:    prompt.WhenFeature("ui"),
	}
}

func (u UILibrary) Prompts() []*prompt.Prompt { return []*prompt.Prompt{u.question()} }

func (u UILibrary) Finalize(answers prompt.Answers) { defaultChoice(answers, "ui", u.question()) }

func (UILibrary) Contribute(g *project.Generation, answers prompt.Answers) {
	if answers.String("uiLib") == "antd" {
		g.ExtendPackage(value.Of("dependencies", value.Of("antd", "^4.11.1")))
	}
}
