package creator

import (
	"context"
	"errors"
	"fmt"

	"github.com/magic-gear/calcifer/input"
	cerrors "github.com/magic-gear/calcifer/internal/errors"
	"github.com/magic-gear/calcifer/internal/prompt"
)

// TerminalAsker presents prompts on the terminal.
type TerminalAsker struct{}

var _ prompt.Asker = TerminalAsker{}

func (TerminalAsker) Ask(ctx context.Context, p *prompt.Prompt) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch p.Type {
	case prompt.List:
		if len(p.Choices) == 0 {
			return nil, cerrors.NewConfigurationError("list prompt has no choices", "prompt "+p.Name, nil)
		}
		def := 0
		if d, ok := p.Default.(string); ok {
			for i, c := range p.Choices {
				if c.Value == d {
					def = i
				}
			}
		}
		idx, err := input.Select(p.Message, options(p.Choices, nil), def)
		if err != nil {
			return nil, aborted(err)
		}
		return p.Choices[idx].Value, nil

	case prompt.Checkbox:
		checked := map[string]bool{}
		if d, ok := p.Default.([]string); ok {
			for _, v := range d {
				checked[v] = true
			}
		}
		idxs, err := input.MultiSelect(p.Message, options(p.Choices, checked), p.PageSize)
		if err != nil {
			return nil, aborted(err)
		}
		values := make([]string, len(idxs))
		for i, idx := range idxs {
			values[i] = p.Choices[idx].Value
		}
		return values, nil

	case prompt.Confirm:
		d, _ := p.Default.(bool)
		return input.Confirm(p.Message, d), nil

	case prompt.Input:
		d, _ := p.Default.(string)
		return input.Prompt(p.Message, d), nil
	}

	return nil, cerrors.NewConfigurationError(fmt.Sprintf("unknown prompt type %q", p.Type), "prompt "+p.Name, nil)
}

func options(choices []prompt.Choice, checked map[string]bool) []input.Option {
	opts := make([]input.Option, len(choices))
	for i, c := range choices {
		label := c.Name
		if label == "" {
			label = c.Value
		}
		opts[i] = input.Option{
			Label:   label,
			Hint:    c.Description,
			Checked: c.Checked || checked[c.Value],
		}
	}
	return opts
}

func aborted(err error) error {
	if errors.Is(err, input.ErrAborted) {
		return fmt.Errorf("%w: %w", cerrors.ErrCancelled, err)
	}
	return err
}
