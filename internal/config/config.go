// Package config reads user defaults from ~/.calcifer.yml and the
// environment.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	cerrors "github.com/magic-gear/calcifer/internal/errors"
)

const (
	fileName  = ".calcifer"
	fileType  = "yaml"
	envPrefix = "CALCIFER"

	// DefaultGitMessage is the message of the initial commit.
	DefaultGitMessage = "Initialize project"
)

// Keys understood in the config file. Flags bind to the same keys.
const (
	KeyPackageManager = "packageManager"
	KeyRegistry       = "registry"
	KeyGit            = "git"
	KeyGitMessage     = "gitMessage"
	KeySkipGetStarted = "skipGetStarted"
)

var envNames = map[string]string{
	KeyPackageManager: envPrefix + "_PACKAGE_MANAGER",
	KeyRegistry:       envPrefix + "_REGISTRY",
	KeyGit:            envPrefix + "_GIT",
	KeyGitMessage:     envPrefix + "_GIT_MESSAGE",
	KeySkipGetStarted: envPrefix + "_SKIP_GET_STARTED",
}

// Config holds the resolved defaults for project creation.
type Config struct {
	// PackageManager is empty when none is configured; the creator then
	// detects one.
	PackageManager string

	// Registry is a registry name or URL. Empty selects npm.
	Registry string

	// Git enables repository initialization.
	Git bool

	GitMessage     string
	SkipGetStarted bool

	// File is the config file that was read, or "" when none was found.
	File string
}

// FilePath returns the default config file path (~/.calcifer.yml).
func FilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return fileName + ".yml"
	}
	return filepath.Join(home, fileName+".yml")
}

// New returns a viper instance with calcifer's defaults and environment
// bindings. Callers bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType(fileType)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	for key, env := range envNames {
		// BindEnv only fails without a key.
		_ = v.BindEnv(key, env)
	}

	v.SetDefault(KeyPackageManager, "")
	v.SetDefault(KeyRegistry, "")
	v.SetDefault(KeyGit, true)
	v.SetDefault(KeyGitMessage, DefaultGitMessage)
	v.SetDefault(KeySkipGetStarted, false)
	return v
}

// Load reads the config file at path into v and returns the resolved
// config. An empty path means the default file, which may be absent; an
// explicit path must exist.
func Load(v *viper.Viper, path string) (*Config, error) {
	file := path
	if file == "" {
		file = FilePath()
	}
	v.SetConfigFile(file)

	cfg := &Config{}
	if err := v.ReadInConfig(); err != nil {
		if path != "" || !errors.Is(err, fs.ErrNotExist) {
			return nil, cerrors.NewConfigurationError("cannot read config file", file, err)
		}
	} else {
		cfg.File = file
	}

	cfg.PackageManager = v.GetString(KeyPackageManager)
	cfg.Registry = v.GetString(KeyRegistry)
	cfg.Git = v.GetBool(KeyGit)
	cfg.GitMessage = v.GetString(KeyGitMessage)
	cfg.SkipGetStarted = v.GetBool(KeySkipGetStarted)

	if cfg.GitMessage == "" {
		cfg.GitMessage = DefaultGitMessage
	}
	return cfg, nil
}
