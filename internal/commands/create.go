package commands

import (
	"fmt"
	"io/fs"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/magic-gear/calcifer/exec"
	"github.com/magic-gear/calcifer/input"
	"github.com/magic-gear/calcifer/internal/config"
	"github.com/magic-gear/calcifer/internal/creator"
	"github.com/magic-gear/calcifer/internal/logging"
	"github.com/magic-gear/calcifer/internal/pkgmanager"
	"github.com/magic-gear/calcifer/internal/prompt"
	"github.com/magic-gear/calcifer/output"
	"github.com/magic-gear/calcifer/templates"
)

// gitFlagNoValue is what --git holds when given without a message.
const gitFlagNoValue = "true"

// createDeps are the collaborators of the create command. Tests replace
// them with fakes.
type createDeps struct {
	asker        prompt.Asker
	runner       exec.Runner
	templates    fs.FS
	templateRoot string
	httpClient   *http.Client
}

func defaultCreateDeps() createDeps {
	var asker prompt.Asker = prompt.Scripted{}
	if input.IsTerminal() {
		asker = creator.TerminalAsker{}
	}
	return createDeps{
		asker:        asker,
		runner:       exec.NewExecutor(nil),
		templates:    templates.FS,
		templateRoot: templates.Application,
	}
}

// CreateCmd creates and returns the 'create' command
func CreateCmd() *cobra.Command {
	return newCreateCmd(defaultCreateDeps())
}

func newCreateCmd(deps createDeps) *cobra.Command {
	var opts creator.Options

	cmd := &cobra.Command{
		Use:   "create <project-name>",
		Short: "Create a new React project",
		Long: `Creates a new React project in ./<project-name>:
• Prompts for features (or reads them from --preset)
• Writes package.json and the selected config files
• Initializes git, installs dependencies and commits

Example:
  calcifer create my-app
  calcifer create my-app -m yarn -r taobao --git="chore: init"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := config.New()
			if err := bindCreateFlags(cmd, v); err != nil {
				return err
			}
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(v, path)
			if err != nil {
				return err
			}
			if cfg.File != "" {
				logging.Debug("loaded config", "file", cfg.File)
			}

			opts.Name = args[0]
			opts.PackageManager = cfg.PackageManager
			opts.Registry = cfg.Registry
			opts.Git = cfg.Git
			opts.GitMessage = cfg.GitMessage
			opts.SkipGetStarted = cfg.SkipGetStarted
			opts.ForceGit = cmd.Flags().Changed("git")

			c := creator.New(creator.Config{
				Asker:        deps.asker,
				Runner:       deps.runner,
				Templates:    deps.templates,
				TemplateRoot: deps.templateRoot,
				HTTPClient:   deps.httpClient,
				Logger:       logging.Logger,
				Out:          cmd.OutOrStdout(),
			})

			res, err := c.Create(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if res.Cancelled {
				output.Verbose("Project creation cancelled")
				return nil
			}
			for _, conflict := range res.Conflicts {
				output.Verbose(fmt.Sprintf("%s: %s replaced by %s", conflict.Name, conflict.From, conflict.To))
			}
			if len(res.Recovered) > 0 {
				output.Warn("These existing files could not be parsed and were replaced:")
				for _, err := range res.Recovered {
					output.Step(err.Error())
				}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringP("package-manager", "m", "", fmt.Sprintf("Use the specified package manager (%v)", pkgmanager.Supported))
	flags.StringP("registry", "r", "", fmt.Sprintf("Use the specified npm registry (%v or a URL)", pkgmanager.RegistryNames()))
	flags.StringP("git", "g", "", `Force git initialization, optionally with an initial commit message (--git="msg")`)
	flags.Lookup("git").NoOptDefVal = gitFlagNoValue
	flags.BoolP("no-git", "n", false, "Skip git initialization")
	flags.Bool("skip-get-started", false, "Skip the get started instructions")
	flags.BoolVarP(&opts.Force, "force", "f", false, "Overwrite the target directory if it exists")
	flags.BoolVar(&opts.Merge, "merge", false, "Merge into the target directory if it exists")
	flags.StringVar(&opts.Preset, "preset", "", "Skip prompts and use the answers in a preset file")
	flags.BoolVar(&opts.DryRun, "dry-run", false, "Print the files that would be created without writing anything")

	cmd.MarkFlagsMutuallyExclusive("git", "no-git")
	cmd.MarkFlagsMutuallyExclusive("force", "merge")

	return cmd
}

// bindCreateFlags makes explicitly set flags override config and
// environment values.
func bindCreateFlags(cmd *cobra.Command, v *viper.Viper) error {
	flags := cmd.Flags()
	for key, flag := range map[string]string{
		config.KeyPackageManager: "package-manager",
		config.KeyRegistry:       "registry",
		config.KeySkipGetStarted: "skip-get-started",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("binding flag %s: %w", flag, err)
		}
	}

	if flags.Changed("no-git") {
		noGit, _ := flags.GetBool("no-git")
		v.Set(config.KeyGit, !noGit)
	}
	if flags.Changed("git") {
		v.Set(config.KeyGit, true)
		if msg, _ := flags.GetString("git"); msg != gitFlagNoValue && msg != "" {
			v.Set(config.KeyGitMessage, msg)
		}
	}
	return nil
}
