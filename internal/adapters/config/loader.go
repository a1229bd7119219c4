// Package config provides the chtl.yaml configuration loader.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"go.trai.ch/chtl/internal/core/domain"
	"go.trai.ch/chtl/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the configuration file looked up in the working directory.
const DefaultFileName = "chtl.yaml"

// Environment variables overriding file values.
const (
	EnvModuleRoot = "CHTL_MODULE_ROOT"
	EnvWorkingDir = "CHTL_WORKING_DIR"
	EnvPolicy     = "CHTL_POLICY"
	EnvCache      = "CHTL_CACHE"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file and environment overrides.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads the configuration for cwd.
// An empty file means chtl.yaml in cwd, and its absence yields the defaults;
// an explicitly named file must exist. Variables from a .env file in cwd apply
// only where the process environment does not set them.
func (l *Loader) Load(cwd, file string) (domain.Config, error) {
	explicit := file != ""
	if !explicit {
		file = DefaultFileName
	}
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}

	var chtlfile Chtlfile
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &chtlfile); err != nil {
			return domain.Config{}, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		l.logger.Debug(fmt.Sprintf("no %s in %s, using defaults", DefaultFileName, cwd))
	default:
		return domain.Config{}, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}

	env, err := l.environment(cwd)
	if err != nil {
		return domain.Config{}, err
	}
	if err := applyEnvironment(&chtlfile, env); err != nil {
		return domain.Config{}, zerr.With(err, "path", path)
	}

	if err := chtlfile.Validate(); err != nil {
		return domain.Config{}, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, err.Error()), "path", path)
	}

	return toDomain(chtlfile, cwd), nil
}

// environment merges .env values under the process environment.
func (l *Loader) environment(cwd string) (func(string) (string, bool), error) {
	dotenv, err := godotenv.Read(filepath.Join(cwd, ".env"))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(err, "failed to read .env"), "path", filepath.Join(cwd, ".env"))
		}
		dotenv = nil
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}, nil
}

func applyEnvironment(c *Chtlfile, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvModuleRoot); ok && v != "" {
		c.ModuleRoot = v
	}
	if v, ok := lookup(EnvWorkingDir); ok && v != "" {
		c.WorkingDir = v
	}
	if v, ok := lookup(EnvPolicy); ok && v != "" {
		c.Policy = v
	}
	if v, ok := lookup(EnvCache); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "cache override is not a boolean"), EnvCache, v)
		}
		c.Cache.Enabled = &enabled
	}
	return nil
}

func toDomain(c Chtlfile, cwd string) domain.Config {
	workingDir := cwd
	if c.WorkingDir != "" {
		workingDir = c.WorkingDir
		if !filepath.IsAbs(workingDir) {
			workingDir = filepath.Join(cwd, workingDir)
		}
	}

	cfg := domain.DefaultConfig(filepath.ToSlash(filepath.Clean(workingDir)))
	if c.ModuleRoot != "" {
		cfg.ModuleRoot = filepath.ToSlash(c.ModuleRoot)
	}
	if policy, ok := domain.ParsePolicy(c.Policy); ok {
		cfg.Policy = policy
	}
	if c.Cache.Enabled != nil {
		cfg.CacheEnabled = *c.Cache.Enabled
	}
	if c.Cache.Capacity > 0 {
		cfg.CacheCapacity = c.Cache.Capacity
	}
	if len(c.Extensions) > 0 {
		cfg.Extensions = append([]string(nil), c.Extensions...)
	}
	return cfg
}
