package feature

import (
	"github.com/magic-gear/calcifer/internal/project"
	"github.com/magic-gear/calcifer/internal/prompt"
	"github.com/magic-gear/calcifer/internal/value"
)

const preprocessorNotice = "PostCSS, Autoprefixer and CSS Modules are supported by default"

// CSSPreprocessor adds a stylesheet pre-processor and its webpack loader.
type CSSPreprocessor struct{}

func (CSSPreprocessor) Describe() prompt.FeatureDescriptor {
	return prompt.FeatureDescriptor{
		Name:        "CSS Pre-processors",
		Value:       "css-preprocessor",
		Description: "Add support for CSS pre-processors like Sass, Less or Stylus",
	}
}

func (CSSPreprocessor) question() *prompt.Prompt {
	return &prompt.Prompt{
		Name:        "cssPreprocessor",
		Type:        prompt.List,
		Message:     "Pick a CSS pre-processor (" + preprocessorNotice + "):",
		Description: preprocessorNotice + ".",
		Choices:     []prompt.Choice{{Name: "Less", Value: "less"}},
		When:        prompt.WhenFeature("css-preprocessor"),
	}
}

func (c CSSPreprocessor) Prompts() []*prompt.Prompt { return []*prompt.Prompt{c.question()} }

func (c CSSPreprocessor) Finalize(answers prompt.Answers) {
	defaultChoice(answers, "css-preprocessor", c.question())
}

func (CSSPreprocessor) Contribute(g *project.Generation, answers prompt.Answers) {
	if answers.String("cssPreprocessor") == "less" {
		g.ExtendPackage(value.Of(
			"dependencies", value.Of("less", "^4.1.0", "less-loader", "^7.3.0"),
		))
	}
}

// CSSInJS adds a CSS-in-JS library. Emotion also needs its babel preset for
// the css prop.
type CSSInJS struct{}

func (CSSInJS) Describe() prompt.FeatureDescriptor {
	return prompt.FeatureDescriptor{
		Name:        "CSS In JS",
		Value:       "css-in-js",
		Description: "Add support for writing css in JavaScript",
	}
}

func (CSSInJS) question() *prompt.Prompt {
	return &prompt.Prompt{
		Name:    "cssInJs",
		Type:    prompt.List,
		Message: "Pick a CSS In JS solution:",
		Choices: []prompt.Choice{{Name: "Emotion", Value: "emotion"}},
		When:    prompt.WhenFeature("css-in-js"),
	}
}

func (c CSSInJS) Prompts() []*prompt.Prompt { return []*prompt.Prompt{c.question()} }

func (c CSSInJS) Finalize(answers prompt.Answers) { defaultChoice(answers, "css-in-js", c.question()) }

func (CSSInJS) Contribute(g *project.Generation, answers prompt.Answers) {
	if answers.String("cssInJs") != "emotion" {
		return
	}
	g.Config(project.ConfigBabel).Append("presets", "@emotion/babel-preset-css-prop")
	g.ExtendPackage(value.Of(
		"dependencies", value.Of(
			"@emotion/core", "^10.0.27",
			"@emotion/styled", "^10.0.27",
		),
		"devDependencies", value.Of("@emotion/babel-preset-css-prop", "^10.0.27"),
	))
}
