package pkgmanager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magic-gear/calcifer/exec"
	cerrors "github.com/magic-gear/calcifer/internal/errors"
)

// fakeRunner records invocations and answers version probes.
type fakeRunner struct {
	versions map[string]string
	runErr   error
	runs     []exec.Invocation
}

func (f *fakeRunner) RunInvocation(_ context.Context, inv exec.Invocation) error {
	f.runs = append(f.runs, inv)
	return f.runErr
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) (string, error) {
	if v, ok := f.versions[name]; ok && len(args) == 1 && args[0] == "--version" {
		return v, nil
	}
	return "", fmt.Errorf("%s: executable file not found", name)
}

func newManager(t *testing.T, opts Options) (*Manager, *fakeRunner) {
	t.Helper()
	runner, ok := opts.Runner.(*fakeRunner)
	if !ok {
		runner = &fakeRunner{}
		opts.Runner = runner
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.LookupEnv == nil {
		opts.LookupEnv = func(string) string { return "" }
	}
	m, err := New(context.Background(), opts)
	require.NoError(t, err)
	return m, runner
}

func TestNew_RequiresRunner(t *testing.T) {
	_, err := New(context.Background(), Options{PackageManager: "npm"})
	assert.ErrorIs(t, err, cerrors.ErrConfiguration)
}

func TestInstallArgs(t *testing.T) {
	tests := []struct {
		name     string
		bin      string
		versions map[string]string
		want     []string
	}{
		{"npm 6", "npm", map[string]string{"npm": "6.14.18"}, []string{"install", "--loglevel", "error"}},
		{"npm 7 adds peer deps fix", "npm", map[string]string{"npm": "7.0.0"}, []string{"install", "--loglevel", "error", "--legacy-peer-deps"}},
		{"npm 10", "npm", map[string]string{"npm": "10.2.4\n"}, []string{"install", "--loglevel", "error", "--legacy-peer-deps"}},
		{"npm version unknown", "npm", nil, []string{"install", "--loglevel", "error"}},
		{"yarn", "yarn", nil, []string{}},
		{"pnpm 8", "pnpm", map[string]string{"pnpm": "8.15.0"}, []string{"install", "--reporter", "silent", "--shamefully-hoist"}},
		{"pnpm 3", "pnpm", map[string]string{"pnpm": "3.8.1"}, []string{"install", "--loglevel", "error", "--shamefully-flatten"}},
		{"unknown manager treated as npm", "cnpm", nil, []string{"install", "--loglevel", "error"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newManager(t, Options{
				PackageManager: tt.bin,
				Runner:         &fakeRunner{versions: tt.versions},
			})
			assert.Equal(t, tt.want, m.InstallArgs())
			assert.Equal(t, tt.bin, m.Bin())
		})
	}
}

func TestInstall(t *testing.T) {
	dir := t.TempDir()
	m, runner := newManager(t, Options{Dir: dir, PackageManager: "yarn", Registry: "npm"})

	require.NoError(t, m.Install(context.Background()))
	require.Len(t, runner.runs, 1)

	inv := runner.runs[0]
	assert.Equal(t, "yarn", inv.Name)
	assert.Empty(t, inv.Args)
	assert.Equal(t, dir, inv.Dir)
	assert.NotEmpty(t, inv.Spinner)
	assert.Equal(t, []string{
		"npm_config_registry=https://registry.npmjs.org",
		"YARN_NPM_REGISTRY_SERVER=https://registry.npmjs.org",
	}, inv.Env)
	assert.Empty(t, os.Getenv("YARN_NPM_REGISTRY_SERVER"), "process environment untouched")
}

func TestInstall_Failure(t *testing.T) {
	runner := &fakeRunner{runErr: errors.New("exit status 1")}
	m, _ := newManager(t, Options{PackageManager: "yarn", Runner: runner})

	err := m.Install(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, cerrors.ErrExternalCommand)
	assert.Contains(t, err.Error(), "yarn")
}

func TestAdd(t *testing.T) {
	t.Run("npm tilde uses save prefix env", func(t *testing.T) {
		m, runner := newManager(t, Options{
			PackageManager: "npm",
			Runner:         &fakeRunner{versions: map[string]string{"npm": "9.0.0"}},
		})
		require.NoError(t, m.Add(context.Background(), "lodash", AddOptions{Dev: true, Tilde: true}))

		inv := runner.runs[0]
		assert.Equal(t, []string{"install", "--loglevel", "error", "lodash", "-D", "--legacy-peer-deps"}, inv.Args)
		assert.Contains(t, inv.Env, "npm_config_save_prefix=~")
	})

	t.Run("yarn tilde flag", func(t *testing.T) {
		m, runner := newManager(t, Options{PackageManager: "yarn"})
		require.NoError(t, m.Add(context.Background(), "react-router-dom", AddOptions{Tilde: true}))

		inv := runner.runs[0]
		assert.Equal(t, []string{"add", "react-router-dom", "--tilde"}, inv.Args)
		assert.NotContains(t, inv.Env, "npm_config_save_prefix=~")
	})
}

func TestUpgradeAndRemove(t *testing.T) {
	m, runner := newManager(t, Options{
		PackageManager: "pnpm",
		Runner:         &fakeRunner{versions: map[string]string{"pnpm": "7.0.0"}},
	})

	require.NoError(t, m.Upgrade(context.Background(), "antd"))
	require.NoError(t, m.Remove(context.Background(), "antd"))

	assert.Equal(t, []string{"update", "--reporter", "silent", "antd"}, runner.runs[0].Args)
	assert.Equal(t, []string{"uninstall", "--reporter", "silent", "antd"}, runner.runs[1].Args)
}

func TestRegistryFile(t *testing.T) {
	npm, _ := newManager(t, Options{PackageManager: "npm", Registry: "taobao"})
	name, content := npm.RegistryFile()
	assert.Equal(t, ".npmrc", name)
	assert.Equal(t, "registry = \"https://registry.npmmirror.com\"\n", string(content))

	yarn, _ := newManager(t, Options{PackageManager: "yarn", Registry: "https://example.test/"})
	name, content = yarn.RegistryFile()
	assert.Equal(t, ".yarnrc", name)
	assert.Equal(t, "registry \"https://example.test\"\n", string(content))

	pnpm, _ := newManager(t, Options{PackageManager: "pnpm"})
	name, content = pnpm.RegistryFile()
	assert.Empty(t, name)
	assert.Nil(t, content)
}

func TestStartCommand(t *testing.T) {
	yarn, _ := newManager(t, Options{PackageManager: "yarn"})
	npm, _ := newManager(t, Options{PackageManager: "npm"})
	assert.Equal(t, "yarn start", yarn.StartCommand())
	assert.Equal(t, "npm run start", npm.StartCommand())
}

func TestDetect(t *testing.T) {
	assert.Equal(t, "yarn", Detect(context.Background(), &fakeRunner{versions: map[string]string{"yarn": "1.22.19"}}))
	assert.Equal(t, "npm", Detect(context.Background(), &fakeRunner{}))
}

func TestResolveRegistry(t *testing.T) {
	assert.Equal(t, "https://registry.npmjs.org", ResolveRegistry(""))
	assert.Equal(t, "https://registry.yarnpkg.com", ResolveRegistry("yarn"))
	assert.Equal(t, "https://npm.example.com", ResolveRegistry("https://npm.example.com/"))
	assert.Equal(t, []string{"npm", "taobao", "yarn"}, RegistryNames())
}

const mirrorDoc = `{
  "name": "binary-mirror-config",
  "dist-tags": {"latest": "2.0.0"},
  "versions": {
    "2.0.0": {
      "mirrors": {
        "china": {
          "ENVS": {
            "SASS_BINARY_SITE": "%[1]s/mirrors/node-sass",
            "CHROMEDRIVER_CDNURL": "%[1]s/mirrors/chromedriver"
          },
          "cypress": {
            "host": "%[1]s/mirrors/cypress",
            "newPlatforms": {"darwin-x64": "darwin-x64", "darwin-arm64": "darwin-arm64", "linux-x64": "linux-x64", "win32-x64": "win32-x64"}
          }
        }
      }
    }
  }
}`

const cypressDoc = `{
  "name": "cypress",
  "dist-tags": {"latest": "13.6.0"},
  "versions": {"6.2.0": {}, "6.4.0": {}, "7.0.0": {}, "13.6.0": {}}
}`

func mirrorServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/binary-mirror-config":
			assert.Empty(t, r.Header.Get("Accept"), "full document requested")
			fmt.Fprintf(w, mirrorDoc, srv.URL)
		case "/cypress":
			assert.True(t, strings.HasPrefix(r.Header.Get("Accept"), "application/vnd.npm.install-v1+json"))
			io.WriteString(w, cypressDoc)
		default:
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"error":"Not found"}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func useMirrorRegistry(t *testing.T, url string) {
	t.Helper()
	prev := Registries[mirrorRegistry]
	Registries[mirrorRegistry] = url
	t.Cleanup(func() { Registries[mirrorRegistry] = prev })
}

func TestEnv_BinaryMirrors(t *testing.T) {
	var hits atomic.Int32
	srv := mirrorServer(t, &hits)
	useMirrorRegistry(t, srv.URL)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"),
		[]byte(`{"devDependencies": {"cypress": "^6.2.0"}}`), 0644))

	m, _ := newManager(t, Options{Dir: dir, PackageManager: "npm", Registry: "taobao", HTTPClient: srv.Client()})
	m.goos, m.goarch = "linux", "amd64"

	env := m.Env(context.Background())
	assert.Equal(t, []string{
		"npm_config_registry=" + srv.URL,
		"YARN_NPM_REGISTRY_SERVER=" + srv.URL,
		"CHROMEDRIVER_CDNURL=" + srv.URL + "/mirrors/chromedriver",
		"SASS_BINARY_SITE=" + srv.URL + "/mirrors/node-sass",
		"CYPRESS_INSTALL_BINARY=" + srv.URL + "/mirrors/cypress/6.4.0/linux-x64/cypress.zip",
	}, env)

	// Metadata is cached between calls.
	before := hits.Load()
	m.Env(context.Background())
	assert.Equal(t, before, hits.Load())
}

func TestEnv_CypressOverrideRespected(t *testing.T) {
	var hits atomic.Int32
	srv := mirrorServer(t, &hits)
	useMirrorRegistry(t, srv.URL)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"),
		[]byte(`{"devDependencies": {"cypress": "^6.2.0"}}`), 0644))

	m, _ := newManager(t, Options{
		Dir: dir, PackageManager: "npm", Registry: "taobao", HTTPClient: srv.Client(),
		LookupEnv: func(key string) string {
			if key == "CYPRESS_INSTALL_BINARY" {
				return "0"
			}
			return ""
		},
	})

	for _, kv := range m.Env(context.Background()) {
		assert.False(t, strings.HasPrefix(kv, "CYPRESS_INSTALL_BINARY="))
	}
}

func TestEnv_DefaultPlatforms(t *testing.T) {
	m := &Manager{goos: "windows", goarch: "amd64", lookupEnv: func(string) string { return "" }}
	platform, arch := nodePlatform(m.goos, m.goarch)
	assert.Equal(t, "win32", platform)
	assert.Equal(t, "x64", arch)
	assert.Equal(t, "win64", defaultCypressPlatforms[platform])
}

func TestEnv_MirrorFailureIsSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	useMirrorRegistry(t, srv.URL)

	m, _ := newManager(t, Options{PackageManager: "npm", Registry: "taobao", HTTPClient: srv.Client()})
	assert.Len(t, m.Env(context.Background()), 2)
}

func TestEnv_NoMirrorsForOtherRegistries(t *testing.T) {
	var hits atomic.Int32
	srv := mirrorServer(t, &hits)

	m, _ := newManager(t, Options{PackageManager: "npm", Registry: srv.URL, HTTPClient: srv.Client()})
	assert.Len(t, m.Env(context.Background()), 2)
	assert.Zero(t, hits.Load())
}
