package feature

import (
	"github.com/magic-gear/calcifer/internal/project"
	"github.com/magic-gear/calcifer/internal/prompt"
	"github.com/magic-gear/calcifer/internal/value"
)

// TypeScript adds the TypeScript babel preset and a tsconfig.json.
type TypeScript struct{}

func (TypeScript) Describe() prompt.FeatureDescriptor {
	return prompt.FeatureDescriptor{
		Name:        "TypeScript",
		Value:       "ts",
		Short:       "TS",
		Description: "Add support for the TypeScript language",
	}
}

func (TypeScript) Prompts() []*prompt.Prompt { return nil }

func (TypeScript) Contribute(g *project.Generation, _ prompt.Answers) {
	g.ExtendPackage(value.Of(
		"devDependencies", value.Of("@babel/preset-typescript", "^7.12.7"),
	))
	g.Config(project.ConfigBabel).Append("presets", "@babel/preset-typescript")
	g.EnableConfig(project.ConfigTypeScript)
}
