package creator

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magic-gear/calcifer/exec"
	cerrors "github.com/magic-gear/calcifer/internal/errors"
	"github.com/magic-gear/calcifer/internal/feature"
	"github.com/magic-gear/calcifer/internal/prompt"
	"github.com/magic-gear/calcifer/output"
)

// fakeRunner answers probes from a table and records every invocation.
type fakeRunner struct {
	outputs map[string]string // "git --version" → output; missing means failure
	fail    map[string]error  // invocation string → error
	runs    []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		outputs: map[string]string{
			"git --version": "git version 2.43.0",
			"npm --version": "10.2.4",
		},
		fail: map[string]error{},
	}
}

func (f *fakeRunner) RunInvocation(_ context.Context, inv exec.Invocation) error {
	f.runs = append(f.runs, inv.String())
	if err, ok := f.fail[inv.String()]; ok {
		return err
	}
	return nil
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) (string, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	if out, ok := f.outputs[key]; ok {
		return out, nil
	}
	return "", errors.New("exit status 1")
}

// failingAsker fails the test when any prompt is shown.
type failingAsker struct{ t *testing.T }

func (a failingAsker) Ask(_ context.Context, p *prompt.Prompt) (any, error) {
	a.t.Fatalf("unexpected prompt %q", p.Name)
	return nil, nil
}

// cancellingAsker backs out of the first prompt.
type cancellingAsker struct{}

func (cancellingAsker) Ask(context.Context, *prompt.Prompt) (any, error) {
	return nil, cerrors.ErrCancelled
}

var linterAndUnit = prompt.Scripted{
	"features":       []string{"linter", "unit"},
	"eslintConfig":   "prettier",
	"unit":           "jest",
	"useConfigFiles": "files",
}

func templates() fstest.MapFS {
	return fstest.MapFS{
		"application/_gitignore":             {Data: []byte("node_modules\n")},
		"application/public/index.html.tmpl": {Data: []byte("<title>{{ .Name }}</title>\n")},
		"application/src/index.js":           {Data: []byte("import App from './App'\n")},
	}
}

type harness struct {
	creator *Creator
	runner  *fakeRunner
	out     *bytes.Buffer
	dryRun  *bytes.Buffer
	dir     string
}

func newHarness(t *testing.T, asker prompt.Asker) *harness {
	t.Helper()
	h := &harness{
		runner: newFakeRunner(),
		out:    &bytes.Buffer{},
		dryRun: &bytes.Buffer{},
		dir:    t.TempDir(),
	}
	output.SetOutput(h.out)
	t.Cleanup(func() { output.SetOutput(nil) })

	h.creator = New(Config{
		Asker:        asker,
		Runner:       h.runner,
		Templates:    templates(),
		TemplateRoot: "application",
		Logger:       log.New(io.Discard),
		Out:          h.dryRun,
	})
	return h
}

func (h *harness) options(o Options) Options {
	if o.Name == "" {
		o.Name = "my-app"
	}
	o.Dir = h.dir
	return o
}

func (h *harness) read(t *testing.T, rel string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(h.dir, "my-app", filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(b)
}

func TestCreate_FreshProject(t *testing.T) {
	h := newHarness(t, linterAndUnit)

	res, err := h.creator.Create(context.Background(), h.options(Options{
		PackageManager: "npm",
		Git:            true,
	}))
	require.NoError(t, err)
	require.False(t, res.Cancelled)

	assert.Equal(t, filepath.Join(h.dir, "my-app"), res.Dir)
	assert.Equal(t, []string{
		".browserslistrc", ".eslintrc.js", ".gitignore", ".npmrc", ".prettierignore",
		".prettierrc.yml", "babel.config.js", "jest.config.js", "jest.setup.js",
		"package.json", "public/index.html", "src/index.js",
	}, res.Files)

	assert.Equal(t, "<title>my-app</title>\n", h.read(t, "public/index.html"))
	assert.Equal(t, "registry = \"https://registry.npmjs.org\"\n", h.read(t, ".npmrc"))
	assert.Contains(t, h.read(t, "package.json"), `"name": "my-app"`)

	assert.Equal(t, []string{
		"git init",
		"npm install --loglevel error --legacy-peer-deps",
		"git add -A",
		"git commit -m Initialize project --no-verify",
	}, h.runner.runs)
	assert.True(t, res.GitInitialized)
	assert.False(t, res.GitCommitFailed)

	assert.Contains(t, h.out.String(), "Successfully created project my-app.")
	assert.Contains(t, h.out.String(), "cd my-app")
	assert.Contains(t, h.out.String(), "npm run start")
}

func TestCreate_InvalidName(t *testing.T) {
	h := newHarness(t, failingAsker{t})

	_, err := h.creator.Create(context.Background(), h.options(Options{Name: "My App"}))
	require.Error(t, err)
	assert.ErrorIs(t, err, cerrors.ErrConfiguration)
	assert.Contains(t, err.Error(), "capital letters")

	entries, _ := os.ReadDir(h.dir)
	assert.Empty(t, entries)
}

func TestCreate_ExistingDirectory(t *testing.T) {
	setup := func(t *testing.T, h *harness) string {
		t.Helper()
		existing := filepath.Join(h.dir, "my-app", "package.json")
		require.NoError(t, os.MkdirAll(filepath.Dir(existing), 0755))
		require.NoError(t, os.WriteFile(existing, []byte(`{"name":"old","keywords":["react"]}`), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(h.dir, "my-app", "NOTES.md"), []byte("keep?"), 0644))
		return existing
	}

	t.Run("cancel writes nothing", func(t *testing.T) {
		asker := prompt.Scripted{"action": ActionCancel}
		h := newHarness(t, asker)
		existing := setup(t, h)

		res, err := h.creator.Create(context.Background(), h.options(Options{PackageManager: "npm", Git: true}))
		require.NoError(t, err)
		assert.True(t, res.Cancelled)
		assert.Empty(t, h.runner.runs)

		b, err := os.ReadFile(existing)
		require.NoError(t, err)
		assert.Equal(t, `{"name":"old","keywords":["react"]}`, string(b))
	})

	t.Run("overwrite removes the directory", func(t *testing.T) {
		asker := prompt.Scripted{"action": ActionOverwrite, "features": []string{}}
		h := newHarness(t, asker)
		setup(t, h)

		_, err := h.creator.Create(context.Background(), h.options(Options{PackageManager: "npm"}))
		require.NoError(t, err)

		_, err = os.Stat(filepath.Join(h.dir, "my-app", "NOTES.md"))
		assert.True(t, os.IsNotExist(err))
		assert.NotContains(t, h.read(t, "package.json"), "keywords")
	})

	t.Run("force skips the question", func(t *testing.T) {
		h := newHarness(t, prompt.Scripted{"features": []string{}})
		setup(t, h)

		_, err := h.creator.Create(context.Background(), h.options(Options{PackageManager: "npm", Force: true}))
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(h.dir, "my-app", "NOTES.md"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("merge keeps existing content", func(t *testing.T) {
		asker := prompt.Scripted{"action": ActionMerge, "features": []string{}}
		h := newHarness(t, asker)
		setup(t, h)

		_, err := h.creator.Create(context.Background(), h.options(Options{PackageManager: "npm"}))
		require.NoError(t, err)

		pkg := h.read(t, "package.json")
		assert.Contains(t, pkg, `"keywords"`)
		assert.Contains(t, pkg, `"name": "my-app"`)
		assert.Equal(t, "keep?", h.read(t, "NOTES.md"))
	})
}

func TestCreate_DryRun(t *testing.T) {
	h := newHarness(t, linterAndUnit)

	res, err := h.creator.Create(context.Background(), h.options(Options{PackageManager: "npm", Git: true, DryRun: true}))
	require.NoError(t, err)
	assert.Contains(t, res.Files, "package.json")

	_, err = os.Stat(filepath.Join(h.dir, "my-app"))
	assert.True(t, os.IsNotExist(err))
	assert.Empty(t, h.runner.runs)
	assert.Contains(t, h.dryRun.String(), "[DRY RUN]")
	assert.Contains(t, h.dryRun.String(), filepath.Join("my-app", "jest.config.js"))
}

func TestCreate_DryRunNeverRemoves(t *testing.T) {
	h := newHarness(t, prompt.Scripted{"features": []string{}})
	existing := filepath.Join(h.dir, "my-app", "NOTES.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(existing), 0755))
	require.NoError(t, os.WriteFile(existing, []byte("keep"), 0644))

	_, err := h.creator.Create(context.Background(), h.options(Options{PackageManager: "npm", Force: true, DryRun: true}))
	require.NoError(t, err)
	assert.Equal(t, "keep", h.read(t, "NOTES.md"))
}

func TestCreate_Preset(t *testing.T) {
	h := newHarness(t, failingAsker{t})
	path := filepath.Join(t.TempDir(), "preset.yml")
	require.NoError(t, os.WriteFile(path, []byte("features: [ts, unit]\nuseConfigFiles: pkg\n"), 0644))

	res, err := h.creator.Create(context.Background(), h.options(Options{PackageManager: "npm", Preset: path}))
	require.NoError(t, err)

	assert.Contains(t, res.Files, "tsconfig.json")
	assert.Contains(t, res.Files, "jest.setup.ts")
	assert.NotContains(t, res.Files, "babel.config.js")
	assert.Contains(t, h.read(t, "package.json"), `"jest": {`, "unit defaults to jest for presets")
}

func TestCreate_PresetUnknownFeature(t *testing.T) {
	h := newHarness(t, failingAsker{t})
	path := filepath.Join(t.TempDir(), "preset.yml")
	require.NoError(t, os.WriteFile(path, []byte("features: [vue]\n"), 0644))

	_, err := h.creator.Create(context.Background(), h.options(Options{PackageManager: "npm", Preset: path}))
	require.Error(t, err)
	assert.ErrorIs(t, err, cerrors.ErrConfiguration)
	assert.Contains(t, err.Error(), `unknown feature "vue"`)
}

func TestCreate_PromptCancelled(t *testing.T) {
	h := newHarness(t, cancellingAsker{})

	res, err := h.creator.Create(context.Background(), h.options(Options{PackageManager: "npm"}))
	require.NoError(t, err)
	assert.True(t, res.Cancelled)

	_, err = os.Stat(filepath.Join(h.dir, "my-app"))
	assert.True(t, os.IsNotExist(err))
}

func TestCreate_InstallFailureIsFatal(t *testing.T) {
	h := newHarness(t, prompt.Scripted{"features": []string{}})
	h.runner.fail["npm install --loglevel error --legacy-peer-deps"] = errors.New("exit status 1")

	_, err := h.creator.Create(context.Background(), h.options(Options{PackageManager: "npm", Git: true}))
	require.Error(t, err)
	assert.ErrorIs(t, err, cerrors.ErrExternalCommand)
	assert.NotContains(t, h.runner.runs, "git add -A")
}

func TestCreate_CommitFailureIsWarning(t *testing.T) {
	h := newHarness(t, prompt.Scripted{"features": []string{}})
	h.runner.fail["git commit -m first --no-verify"] = errors.New("please tell me who you are")

	res, err := h.creator.Create(context.Background(), h.options(Options{PackageManager: "npm", Git: true, GitMessage: "first"}))
	require.NoError(t, err)
	assert.True(t, res.GitCommitFailed)
	assert.Contains(t, h.out.String(), "Skipped git commit")
}

func TestCreate_GitDecision(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		noGit     bool
		insideGit bool
		wantInit  bool
	}{
		{name: "default", opts: Options{Git: true}, wantInit: true},
		{name: "no-git", opts: Options{Git: false}, wantInit: false},
		{name: "inside a repository", opts: Options{Git: true}, insideGit: true, wantInit: false},
		{name: "forced inside a repository", opts: Options{Git: true, ForceGit: true}, insideGit: true, wantInit: true},
		{name: "forced without git installed", opts: Options{ForceGit: true}, noGit: true, wantInit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, prompt.Scripted{"features": []string{}})
			target := filepath.Join(h.dir, "my-app")
			if tt.noGit {
				delete(h.runner.outputs, "git --version")
			}
			if tt.insideGit {
				h.runner.outputs["git -C "+target+" rev-parse --is-inside-work-tree"] = "true"
			}

			opts := tt.opts
			opts.PackageManager = "npm"
			res, err := h.creator.Create(context.Background(), h.options(opts))
			require.NoError(t, err)

			assert.Equal(t, tt.wantInit, res.GitInitialized)
			assert.Equal(t, tt.wantInit, contains(h.runner.runs, "git init"))
		})
	}
}

func TestCreate_DetectsYarn(t *testing.T) {
	h := newHarness(t, prompt.Scripted{"features": []string{}})
	h.runner.outputs["yarn --version"] = "1.22.19"

	res, err := h.creator.Create(context.Background(), h.options(Options{SkipGetStarted: true}))
	require.NoError(t, err)

	assert.Contains(t, res.Files, ".yarnrc")
	assert.Contains(t, h.runner.runs, "yarn")
	assert.NotContains(t, h.out.String(), "Get started")
}

func TestCreate_DuplicateFeatureKey(t *testing.T) {
	h := newHarness(t, failingAsker{t})
	h.creator = New(Config{
		Registry: feature.NewRegistry(feature.Unit{}, feature.Unit{}),
		Asker:    failingAsker{t},
		Runner:   h.runner,
		Logger:   log.New(io.Discard),
	})

	_, err := h.creator.Create(context.Background(), h.options(Options{PackageManager: "npm"}))
	require.Error(t, err)
	assert.ErrorIs(t, err, cerrors.ErrConfiguration)
	assert.Empty(t, h.runner.runs)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
