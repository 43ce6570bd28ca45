// Package creator runs the whole project creation flow: prompting,
// generation, template copy, git and dependency install.
package creator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/magic-gear/calcifer/exec"
	"github.com/magic-gear/calcifer/generator"
	"github.com/magic-gear/calcifer/internal/config"
	cerrors "github.com/magic-gear/calcifer/internal/errors"
	"github.com/magic-gear/calcifer/internal/feature"
	"github.com/magic-gear/calcifer/internal/logging"
	"github.com/magic-gear/calcifer/internal/merge"
	"github.com/magic-gear/calcifer/internal/pkgmanager"
	"github.com/magic-gear/calcifer/internal/preset"
	"github.com/magic-gear/calcifer/internal/project"
	"github.com/magic-gear/calcifer/internal/prompt"
	"github.com/magic-gear/calcifer/output"
)

// Directory conflict actions.
const (
	ActionOverwrite = "overwrite"
	ActionMerge     = "merge"
	ActionCancel    = "cancel"
)

// Options are the per-run settings, normally from flags and config.
type Options struct {
	// Name is the project and package name. The project is created in
	// Dir/Name.
	Name string

	// Dir is the parent directory. Defaults to the working directory.
	Dir string

	PackageManager string
	Registry       string

	// Git enables repository initialization unless the target is already
	// inside a repository. ForceGit initializes regardless.
	Git        bool
	ForceGit   bool
	GitMessage string

	// Force removes an existing target directory without asking. Merge
	// generates into it, merging with the files already there.
	Force bool
	Merge bool

	DryRun         bool
	SkipGetStarted bool

	// Preset is a file of saved answers that replaces prompting.
	Preset string
}

// Result describes a finished run.
type Result struct {
	Dir       string
	Cancelled bool

	// Files lists the written paths relative to Dir, sorted.
	Files []string

	Conflicts       []merge.Conflict
	Recovered       []error
	GitInitialized  bool
	GitCommitFailed bool
}

// Config wires a Creator to its collaborators.
type Config struct {
	Registry *feature.Registry
	Asker    prompt.Asker
	Runner   exec.Runner

	// Templates holds the project template tree under TemplateRoot.
	Templates    fs.FS
	TemplateRoot string

	HTTPClient *http.Client
	Logger     *log.Logger

	// Out receives the dry-run report. Defaults to stdout.
	Out io.Writer
}

// Creator creates projects.
type Creator struct {
	registry     *feature.Registry
	asker        prompt.Asker
	runner       exec.Runner
	templates    fs.FS
	templateRoot string
	httpClient   *http.Client
	logger       *log.Logger
	out          io.Writer
}

// New returns a Creator. Registry defaults to the builtin features and
// Asker to prompt defaults.
func New(cfg Config) *Creator {
	c := &Creator{
		registry:     cfg.Registry,
		asker:        cfg.Asker,
		runner:       cfg.Runner,
		templates:    cfg.Templates,
		templateRoot: cfg.TemplateRoot,
		httpClient:   cfg.HTTPClient,
		logger:       cfg.Logger,
		out:          cfg.Out,
	}
	if c.registry == nil {
		c.registry = feature.Default()
	}
	if c.asker == nil {
		c.asker = prompt.Scripted{}
	}
	if c.runner == nil {
		c.runner = exec.NewExecutor(nil)
	}
	if c.logger == nil {
		c.logger = logging.Logger
	}
	if c.out == nil {
		c.out = os.Stdout
	}
	return c
}

// Create runs the creation flow. A cancelled run returns a Result with
// Cancelled set and a nil error; nothing has been written at that point.
func (c *Creator) Create(ctx context.Context, opts Options) (*Result, error) {
	if err := checkName(opts.Name); err != nil {
		return nil, err
	}

	parent := opts.Dir
	if parent == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("cannot determine working directory: %w", err)
		}
		parent = wd
	}
	target, err := filepath.Abs(filepath.Join(parent, filepath.FromSlash(opts.Name)))
	if err != nil {
		return nil, err
	}
	res := &Result{Dir: target}

	composer := prompt.NewComposer()
	c.registry.Register(composer)
	prompts, err := composer.ResolveFinalPrompts()
	if err != nil {
		return nil, err
	}

	merging, err := c.resolveConflict(ctx, target, opts)
	if errors.Is(err, cerrors.ErrCancelled) {
		res.Cancelled = true
		return res, nil
	}
	if err != nil {
		return nil, err
	}

	raw, err := c.answers(ctx, prompts, opts.Preset)
	if errors.Is(err, cerrors.ErrCancelled) {
		res.Cancelled = true
		return res, nil
	}
	if err != nil {
		return nil, err
	}
	answers := composer.Resolve(raw)
	c.logger.Debug("resolved answers", "features", answers.Features(), "useConfigFiles", answers.String(prompt.UseConfigFilesKey))

	pmName := opts.PackageManager
	if pmName == "" {
		pmName = pkgmanager.Detect(ctx, c.runner)
	}
	pm, err := pkgmanager.New(ctx, pkgmanager.Options{
		Dir:            target,
		PackageManager: pmName,
		Registry:       opts.Registry,
		Runner:         c.runner,
		HTTPClient:     c.httpClient,
		Logger:         c.logger,
	})
	if err != nil {
		return nil, err
	}

	if !opts.DryRun {
		output.Info(fmt.Sprintf("Creating project in %s.", target))
	}

	genOpts := project.Options{
		Name:     opts.Name,
		Answers:  answers,
		Features: c.registry.Features(),
		Logger:   c.logger,
	}
	if merging {
		genOpts.Existing = os.DirFS(target)
	}
	gen, err := project.Generate(genOpts)
	if err != nil {
		return nil, err
	}
	res.Conflicts = gen.Conflicts
	res.Recovered = gen.Recovered

	files, err := c.renderTemplates(opts.Name)
	if err != nil {
		return nil, err
	}
	for p, content := range gen.Files {
		files[p] = content
	}
	if name, content := pm.RegistryFile(); name != "" {
		files[name] = content
	}
	res.Files = sortedKeys(files)

	if opts.DryRun {
		ops := generator.Plan(target, files)
		err := generator.Execute(ctx, ops, generator.ExecuteOptions{
			DryRun: true,
			Force:  true,
			Writer: c.out,
		})
		return res, err
	}

	if err := generator.WriteTree(target, files); err != nil {
		return nil, fmt.Errorf("writing project files: %w", err)
	}
	c.logger.Debug("wrote project files", "dir", target, "count", len(files))

	initGit := c.shouldInitGit(ctx, target, opts)
	if initGit {
		if err := c.git(ctx, target, "Initializing git repository", "init"); err != nil {
			c.logger.Warn("git init failed", "err", err)
		} else {
			res.GitInitialized = true
		}
	}

	if err := pm.Install(ctx); err != nil {
		return nil, err
	}

	if res.GitInitialized {
		msg := opts.GitMessage
		if msg == "" {
			msg = config.DefaultGitMessage
		}
		if err := c.commit(ctx, target, msg); err != nil {
			c.logger.Debug("initial commit failed", "err", err)
			res.GitCommitFailed = true
		}
	}

	output.Success(fmt.Sprintf("Successfully created project %s.", opts.Name))
	if !opts.SkipGetStarted {
		output.Info("Get started with the following commands:")
		if wd, err := os.Getwd(); err != nil || wd != target {
			output.Command("cd " + opts.Name)
		}
		output.Command(pm.StartCommand())
	}

	if res.GitCommitFailed {
		output.Warn("Skipped git commit due to missing username and email in git config, or failed to sign commit.\n" +
			"   You will need to perform the initial commit yourself.")
	}

	return res, nil
}

func checkName(name string) error {
	check := CheckName(name)
	if check.ValidForNewPackages() {
		return nil
	}
	var b strings.Builder
	for _, e := range check.Errors {
		b.WriteString("\nError: " + e)
	}
	for _, w := range check.Warnings {
		b.WriteString("\nWarning: " + w)
	}
	return cerrors.NewConfigurationError(
		fmt.Sprintf("invalid project name %q%s", name, b.String()), "project name", nil)
}

// resolveConflict decides what to do with an existing target directory and
// reports whether generation should merge with it.
func (c *Creator) resolveConflict(ctx context.Context, target string, opts Options) (bool, error) {
	exists, err := generator.PathExists(target)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	action := ActionOverwrite
	switch {
	case opts.Merge:
		action = ActionMerge
	case opts.Force:
		action = ActionOverwrite
	default:
		answer, err := c.asker.Ask(ctx, conflictPrompt(target))
		if err != nil {
			return false, err
		}
		action, _ = answer.(string)
	}

	switch action {
	case ActionMerge:
		return true, nil
	case ActionOverwrite:
		if opts.DryRun {
			c.logger.Info("dry run: would remove existing directory", "dir", target)
			return false, nil
		}
		output.Info(fmt.Sprintf("Removing %s...", target))
		return false, generator.RemoveTree(target)
	default:
		return false, cerrors.ErrCancelled
	}
}

func conflictPrompt(target string) *prompt.Prompt {
	return &prompt.Prompt{
		Name:    "action",
		Type:    prompt.List,
		Message: fmt.Sprintf("Target directory %s already exists. Pick an action:", target),
		Choices: []prompt.Choice{
			{Name: "Overwrite", Value: ActionOverwrite},
			{Name: "Merge", Value: ActionMerge},
			{Name: "Cancel", Value: ActionCancel},
		},
		Default: ActionCancel,
	}
}

func (c *Creator) answers(ctx context.Context, prompts []*prompt.Prompt, presetPath string) (prompt.Answers, error) {
	if presetPath == "" {
		return prompt.Run(ctx, prompts, c.asker)
	}

	answers, err := preset.Load(presetPath)
	if err != nil {
		return nil, err
	}
	for _, key := range answers.Features() {
		if _, ok := c.registry.Lookup(key); !ok {
			return nil, cerrors.NewConfigurationError(
				fmt.Sprintf("unknown feature %q", key), presetPath, nil)
		}
	}
	return answers, nil
}

func (c *Creator) renderTemplates(name string) (map[string][]byte, error) {
	if c.templates == nil {
		return map[string][]byte{}, nil
	}
	root := c.templateRoot
	if root == "" {
		root = "."
	}
	return generator.RenderTree(c.templates, root, struct{ Name string }{Name: name})
}

func (c *Creator) shouldInitGit(ctx context.Context, target string, opts Options) bool {
	if _, err := c.runner.Output(ctx, "git", "--version"); err != nil {
		return false
	}
	if opts.ForceGit {
		return true
	}
	if !opts.Git {
		return false
	}
	// Inside an existing repository the project becomes part of it.
	_, err := c.runner.Output(ctx, "git", "-C", target, "rev-parse", "--is-inside-work-tree")
	return err != nil
}

func (c *Creator) git(ctx context.Context, dir, spinner string, args ...string) error {
	inv := exec.Invocation{Name: "git", Args: args, Dir: dir, Spinner: spinner}
	if err := c.runner.RunInvocation(ctx, inv); err != nil {
		return cerrors.NewExternalCommandError(inv.String(), err, "")
	}
	return nil
}

func (c *Creator) commit(ctx context.Context, dir, msg string) error {
	if err := c.git(ctx, dir, "", "add", "-A"); err != nil {
		return err
	}
	return c.git(ctx, dir, "Performing initial commit", "commit", "-m", msg, "--no-verify")
}

func sortedKeys(files map[string][]byte) []string {
	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
