package prompt

import (
	"context"
	"fmt"

	cerrors "github.com/magic-gear/calcifer/internal/errors"
)

// Asker presents one prompt and returns its answer: a string for List and
// Input, []string for Checkbox and bool for Confirm.
type Asker interface {
	Ask(ctx context.Context, p *Prompt) (any, error)
}

// Run asks each visible prompt in order. A prompt's predicate sees a
// snapshot of the answers given before it; hidden prompts leave no answer.
func Run(ctx context.Context, prompts []*Prompt, asker Asker) (Answers, error) {
	answers := Answers{}
	for _, p := range prompts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		visible, err := Visible(p, answers.Clone())
		if err != nil {
			return nil, err
		}
		if !visible {
			continue
		}

		v, err := asker.Ask(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("prompt %q: %w", p.Name, err)
		}
		answers[p.Name] = v
	}
	return answers, nil
}

// Visible evaluates p's predicate against prior. A panicking predicate is
// reported as a configuration error.
func Visible(p *Prompt, prior Answers) (visible bool, err error) {
	if p.When == nil {
		return true, nil
	}
	defer func() {
		if r := recover(); r != nil {
			visible = false
			err = cerrors.NewConfigurationError(
				fmt.Sprintf("visibility check panicked: %v", r), "prompt "+p.Name, nil)
		}
	}()
	return p.When(prior), nil
}

// Default returns the answer a prompt resolves to when nobody is asked.
func Default(p *Prompt) any {
	switch p.Type {
	case Checkbox:
		if d, ok := p.Default.([]string); ok {
			return d
		}
		selected := []string{}
		for _, c := range p.Choices {
			if c.Checked {
				selected = append(selected, c.Value)
			}
		}
		return selected
	case List:
		if d, ok := p.Default.(string); ok {
			return d
		}
		if len(p.Choices) > 0 {
			return p.Choices[0].Value
		}
		return ""
	case Confirm:
		d, _ := p.Default.(bool)
		return d
	default:
		d, _ := p.Default.(string)
		return d
	}
}

// Scripted answers prompts from a fixed set of answers, falling back to
// each prompt's default. It drives non-interactive runs and tests.
type Scripted Answers

func (s Scripted) Ask(_ context.Context, p *Prompt) (any, error) {
	if v, ok := s[p.Name]; ok {
		return v, nil
	}
	return Default(p), nil
}
