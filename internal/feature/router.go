package feature

import (
	"github.com/magic-gear/calcifer/internal/project"
	"github.com/magic-gear/calcifer/internal/prompt"
	"github.com/magic-gear/calcifer/internal/value"
)

type Router struct{}

func (Router) Describe() prompt.FeatureDescriptor {
	return prompt.FeatureDescriptor{Name: "Router", Value: "router"}
}

func (Router) question() *prompt.Prompt {
	return &prompt.Prompt{
		Name:    "router",
		Type:    prompt.List,
		Message: "Pick a router library:",
		Choices: []prompt.Choice{{Name: "react-router-dom", Value: "react-router-dom"}},
		When:    prompt.WhenFeature("router"),
	}
}

func (r Router) Prompts() []*prompt.Prompt { return []*prompt.Prompt{r.question()} }

func (r Router) Finalize(answers prompt.Answers) { defaultChoice(answers, "router", r.question()) }

func (Router) Contribute(g *project.Generation, answers prompt.Answers) {
	if answers.String("router") == "react-router-dom" {
		g.ExtendPackage(value.Of(
			"dependencies", value.Of("react-router-dom", "^5.2.0"),
		))
	}
}
