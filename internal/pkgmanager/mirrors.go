package pkgmanager

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
)

const mirrorConfigPackage = "binary-mirror-config"

type mirrorConfig struct {
	Mirrors struct {
		China struct {
			ENVS    map[string]string `json:"ENVS"`
			Cypress struct {
				Host         string            `json:"host"`
				NewPlatforms map[string]string `json:"newPlatforms"`
			} `json:"cypress"`
		} `json:"china"`
	} `json:"mirrors"`
}

var defaultCypressPlatforms = map[string]string{
	"darwin": "osx64",
	"linux":  "linux64",
	"win32":  "win64",
}

// nodePlatform maps Go's GOOS and GOARCH onto the names Node reports.
func nodePlatform(goos, goarch string) (platform, arch string) {
	platform = goos
	if goos == "windows" {
		platform = "win32"
	}
	switch goarch {
	case "amd64":
		arch = "x64"
	case "386":
		arch = "ia32"
	default:
		arch = goarch
	}
	return platform, arch
}

// mirrorEnv returns the download mirror variables for binary packages.
// Lookups that fail are logged and skipped.
func (m *Manager) mirrorEnv(ctx context.Context) []string {
	if m.registry != Registries[mirrorRegistry] {
		return nil
	}

	meta, err := m.client.Metadata(ctx, mirrorConfigPackage, true)
	if err != nil {
		m.logger.Debug("binary mirror config unavailable", "err", err)
		return nil
	}
	latest := meta.DistTags["latest"]
	raw, ok := meta.Versions[latest]
	if !ok || raw == nil {
		m.logger.Debug("binary mirror config has no latest version", "latest", latest)
		return nil
	}

	var cfg mirrorConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		m.logger.Debug("malformed binary mirror config", "err", err)
		return nil
	}
	china := cfg.Mirrors.China

	keys := make([]string, 0, len(china.ENVS))
	for k := range china.ENVS {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		env = append(env, k+"="+china.ENVS[k])
	}

	if cypress := m.cypressBinary(ctx, china.Cypress.Host, china.Cypress.NewPlatforms); cypress != "" {
		env = append(env, "CYPRESS_INSTALL_BINARY="+cypress)
	}
	return env
}

// cypressBinary builds the Cypress download URL for the version range the
// project requests. A user-set CYPRESS_INSTALL_BINARY always wins.
func (m *Manager) cypressBinary(ctx context.Context, host string, platforms map[string]string) string {
	if host == "" || m.lookupEnv("CYPRESS_INSTALL_BINARY") != "" {
		return ""
	}
	if len(platforms) == 0 {
		platforms = defaultCypressPlatforms
	}
	platform, arch := nodePlatform(m.goos, m.goarch)
	target, ok := platforms[platform+"-"+arch]
	if !ok {
		target, ok = platforms[platform]
	}
	if !ok {
		return ""
	}

	wanted := m.devDependency("cypress")
	if wanted == "" {
		return ""
	}
	version, err := m.client.RemoteVersion(ctx, "cypress", wanted)
	if err != nil || version == "" {
		m.logger.Debug("cannot resolve cypress version", "range", wanted, "err", err)
		return ""
	}
	return fmt.Sprintf("%s/%s/%s/cypress.zip", host, version, target)
}

// devDependency reads the requested range of name from the project
// manifest, or "" when the manifest or the entry is missing.
func (m *Manager) devDependency(name string) string {
	data, err := os.ReadFile(filepath.Join(m.dir, "package.json"))
	if err != nil {
		return ""
	}
	var pkg struct {
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return ""
	}
	return pkg.DevDependencies[name]
}

func defaultPlatform() (string, string) {
	return runtime.GOOS, runtime.GOARCH
}
