// Package pkgmanager drives npm, yarn and pnpm for a generated project.
package pkgmanager

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"

	"github.com/magic-gear/calcifer/exec"
	cerrors "github.com/magic-gear/calcifer/internal/errors"
	"github.com/magic-gear/calcifer/internal/logging"
)

// Supported lists the package managers calcifer knows how to drive.
var Supported = []string{"yarn", "pnpm", "npm"}

type commandTable struct {
	install []string
	add     []string
	upgrade []string
	remove  []string
}

var (
	npmCommands = commandTable{
		install: []string{"install", "--loglevel", "error"},
		add:     []string{"install", "--loglevel", "error"},
		upgrade: []string{"update", "--loglevel", "error"},
		remove:  []string{"uninstall", "--loglevel", "error"},
	}
	yarnCommands = commandTable{
		install: []string{},
		add:     []string{"add"},
		upgrade: []string{"upgrade"},
		remove:  []string{"remove"},
	}
	pnpm4Commands = commandTable{
		install: []string{"install", "--reporter", "silent", "--shamefully-hoist"},
		add:     []string{"install", "--reporter", "silent", "--shamefully-hoist"},
		upgrade: []string{"update", "--reporter", "silent"},
		remove:  []string{"uninstall", "--reporter", "silent"},
	}
	pnpm3Commands = commandTable{
		install: []string{"install", "--loglevel", "error", "--shamefully-flatten"},
		add:     []string{"install", "--loglevel", "error", "--shamefully-flatten"},
		upgrade: []string{"update", "--loglevel", "error"},
		remove:  []string{"uninstall", "--loglevel", "error"},
	}
)

// Options configures New.
type Options struct {
	// Dir is the project directory commands run in.
	Dir string

	// PackageManager is the binary name: npm, yarn or pnpm.
	PackageManager string

	// Registry is a registry name from Registries or a URL.
	Registry string

	Runner     exec.Runner
	HTTPClient *http.Client
	Logger     *log.Logger

	// LookupEnv reads the calling environment. Defaults to os.Getenv.
	LookupEnv func(string) string
}

// Manager runs package manager commands against one project.
type Manager struct {
	bin           string
	dir           string
	registry      string
	commands      commandTable
	needsPeerDeps bool

	runner    exec.Runner
	client    *Client
	logger    *log.Logger
	lookupEnv func(string) string
	goos      string
	goarch    string
}

// New creates a Manager, probing the binary version where the argument
// tables depend on it.
func New(ctx context.Context, opts Options) (*Manager, error) {
	if opts.Runner == nil {
		return nil, cerrors.NewConfigurationError("no command runner", "pkgmanager", nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Logger
	}
	lookupEnv := opts.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.Getenv
	}

	bin := opts.PackageManager
	if bin == "" {
		bin = "npm"
	}
	registry := ResolveRegistry(opts.Registry)
	goos, goarch := defaultPlatform()

	m := &Manager{
		bin:       bin,
		dir:       opts.Dir,
		registry:  registry,
		runner:    opts.Runner,
		client:    NewClient(registry, bin, opts.HTTPClient),
		logger:    logger,
		lookupEnv: lookupEnv,
		goos:      goos,
		goarch:    goarch,
	}

	switch bin {
	case "npm":
		m.commands = npmCommands
		if v := m.version(ctx); v != nil && !v.LessThan(semver.MustParse("7.0.0")) {
			m.needsPeerDeps = true
		}
	case "yarn":
		m.commands = yarnCommands
	case "pnpm":
		m.commands = pnpm4Commands
		if v := m.version(ctx); v != nil && v.LessThan(semver.MustParse("4.0.0")) {
			m.commands = pnpm3Commands
		}
	default:
		logger.Warn("package manager is not officially supported, treating it like npm",
			"packageManager", bin, "hint", "see if you can use --registry instead")
		m.commands = npmCommands
	}

	return m, nil
}

// version asks the binary for its version. Failures are logged and yield nil.
func (m *Manager) version(ctx context.Context) *semver.Version {
	out, err := m.runner.Output(ctx, m.bin, "--version")
	if err != nil {
		m.logger.Debug("cannot determine package manager version", "bin", m.bin, "err", err)
		return nil
	}
	v, err := semver.NewVersion(strings.TrimSpace(out))
	if err != nil {
		m.logger.Debug("unparsable package manager version", "bin", m.bin, "version", out)
		return nil
	}
	return v
}

// Bin returns the package manager binary name.
func (m *Manager) Bin() string { return m.bin }

// Registry returns the registry URL.
func (m *Manager) Registry() string { return m.registry }

// Client returns the metadata client for the registry.
func (m *Manager) Client() *Client { return m.client }

// Env returns the variables handed to every package manager process: the
// registry, plus binary download mirrors for the mirror registry.
func (m *Manager) Env(ctx context.Context) []string {
	env := []string{
		"npm_config_registry=" + m.registry,
		"YARN_NPM_REGISTRY_SERVER=" + m.registry,
	}
	return append(env, m.mirrorEnv(ctx)...)
}

// InstallArgs returns the arguments Install passes to the binary.
func (m *Manager) InstallArgs() []string {
	args := slices.Clone(m.commands.install)
	if m.needsPeerDeps {
		args = append(args, "--legacy-peer-deps")
	}
	return args
}

// Install installs the project's dependencies.
func (m *Manager) Install(ctx context.Context) error {
	return m.run(ctx, m.InstallArgs(), nil, "Installing dependencies")
}

// AddOptions configures Add.
type AddOptions struct {
	// Dev saves the package as a development dependency.
	Dev bool
	// Tilde saves a ~ range instead of ^.
	Tilde bool
}

// Add installs a package and records it in the manifest.
func (m *Manager) Add(ctx context.Context, pkg string, opts AddOptions) error {
	args := append(slices.Clone(m.commands.add), pkg)
	if opts.Dev {
		args = append(args, "-D")
	}

	var env []string
	if opts.Tilde {
		if m.bin == "yarn" {
			args = append(args, "--tilde")
		} else {
			env = append(env, "npm_config_save_prefix=~")
		}
	}
	if m.needsPeerDeps {
		args = append(args, "--legacy-peer-deps")
	}

	return m.run(ctx, args, env, "Adding "+pkg)
}

// Upgrade upgrades a package within its range.
func (m *Manager) Upgrade(ctx context.Context, pkg string) error {
	return m.run(ctx, append(slices.Clone(m.commands.upgrade), pkg), nil, "Upgrading "+pkg)
}

// Remove uninstalls a package.
func (m *Manager) Remove(ctx context.Context, pkg string) error {
	return m.run(ctx, append(slices.Clone(m.commands.remove), pkg), nil, "Removing "+pkg)
}

func (m *Manager) run(ctx context.Context, args, extraEnv []string, spinner string) error {
	inv := exec.Invocation{
		Name:    m.bin,
		Args:    args,
		Env:     append(m.Env(ctx), extraEnv...),
		Dir:     m.dir,
		Spinner: spinner,
	}
	m.logger.Debug("running package manager", "command", inv.String(), "dir", m.dir)
	if err := m.runner.RunInvocation(ctx, inv); err != nil {
		return cerrors.NewExternalCommandError(inv.String(), err,
			fmt.Sprintf("run %q in %s to retry", inv.String(), m.dir))
	}
	return nil
}

// RegistryFile returns the name and content of the file that pins the
// registry for later runs. npm gets .npmrc and yarn .yarnrc; other managers
// get nothing and an empty name.
func (m *Manager) RegistryFile() (string, []byte) {
	switch m.bin {
	case "yarn":
		return ".yarnrc", []byte(fmt.Sprintf("registry %q\n", m.registry))
	case "npm":
		return ".npmrc", []byte(fmt.Sprintf("registry = %q\n", m.registry))
	}
	return "", nil
}

// StartCommand returns the command that starts the dev server.
func (m *Manager) StartCommand() string {
	if m.bin == "yarn" {
		return "yarn start"
	}
	return "npm run start"
}

// Detect picks the default package manager: yarn when it is installed,
// npm otherwise.
func Detect(ctx context.Context, runner exec.Runner) string {
	if _, err := runner.Output(ctx, "yarn", "--version"); err == nil {
		return "yarn"
	}
	return "npm"
}
