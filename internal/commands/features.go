package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/magic-gear/calcifer/internal/feature"
	"github.com/magic-gear/calcifer/internal/prompt"
)

// FeaturesCmd creates and returns the 'features' command
func FeaturesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "List the features a project can be created with",
		Long: `Lists every feature in the order it is offered and applied, with the
follow-up questions it asks and their choices. Feature keys are the values
accepted in a preset's features list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printFeatures(cmd.OutOrStdout(), feature.Default())
		},
	}
}

func printFeatures(w io.Writer, registry *feature.Registry) error {
	for _, m := range registry.Modules() {
		d := m.Describe()
		marker := " "
		if d.Checked {
			marker = "*"
		}
		if _, err := fmt.Fprintf(w, "%s %-18s %s\n", marker, d.Value, d.Description); err != nil {
			return err
		}
		for _, p := range m.Prompts() {
			if _, err := fmt.Fprintf(w, "    %-16s %s\n", p.Name, choiceValues(p)); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "\n  %-18s %s\n", prompt.UseConfigFilesKey, "files | pkg")
	return err
}

func choiceValues(p *prompt.Prompt) string {
	values := make([]string, len(p.Choices))
	for i, c := range p.Choices {
		values[i] = c.Value
	}
	return strings.Join(values, " | ")
}
