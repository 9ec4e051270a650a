// Package config loads the optional sceneloop.yaml file and resolves
// defaults for the frame loop, logging and metrics.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	looperrors "github.com/go-drift/sceneloop/pkg/errors"
	"github.com/go-drift/sceneloop/pkg/frameclock"
	"github.com/go-drift/sceneloop/pkg/metrics"
	"github.com/go-drift/sceneloop/pkg/scheduler"
)

// FileName is the configuration file looked up in a project directory.
const FileName = "sceneloop.yaml"

// SchemaMajor is the only supported major version of the file format.
const SchemaMajor = "v1"

// Config mirrors sceneloop.yaml.
type Config struct {
	Version string        `yaml:"version,omitempty"`
	App     AppConfig     `yaml:"app"`
	Loop    LoopConfig    `yaml:"loop"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
}

// LoopConfig contains frame loop settings.
type LoopConfig struct {
	TargetFPS float64       `yaml:"target_fps,omitempty"`
	Budget    time.Duration `yaml:"budget,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level       string `yaml:"level,omitempty"`
	Development bool   `yaml:"development,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled,omitempty"`
	Addr      string `yaml:"addr,omitempty"`
	Namespace string `yaml:"namespace,omitempty"`
}

// Resolved contains configuration with every default filled in.
type Resolved struct {
	Root           string
	ModulePath     string
	AppName        string
	Version        string
	TargetFPS      float64
	Budget         time.Duration
	LogLevel       zapcore.Level
	LogDevelopment bool
	Metrics        metrics.Config
	MetricsAddr    string
}

// Load reads a configuration file. The file must exist. Failures are
// *errors.LoopError values of kind config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, configError("config.Load", fmt.Errorf("failed to read %s: %w", path, err))
	}
	cfg, err := parse(path, data)
	if err != nil {
		return nil, configError("config.Load", err)
	}
	return cfg, nil
}

// LoadOptional reads sceneloop.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, configError("config.LoadOptional", fmt.Errorf("failed to read %s: %w", FileName, err))
	}
	cfg, err := parse(path, data)
	if err != nil {
		return nil, configError("config.LoadOptional", err)
	}
	return cfg, nil
}

func configError(op string, err error) error {
	return &looperrors.LoopError{Op: op, Kind: looperrors.KindConfig, Err: err}
}

func parse(path string, data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return &cfg, nil
}

// Resolve loads sceneloop.yaml from dir (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	return cfg.Resolve(dir)
}

// Resolve fills in defaults and validates c. root is the project directory
// used to derive the default application name.
func (c *Config) Resolve(root string) (*Resolved, error) {
	r, err := c.resolve(root)
	if err != nil {
		return nil, configError("config.Resolve", err)
	}
	return r, nil
}

func (c *Config) resolve(root string) (*Resolved, error) {
	version := strings.TrimSpace(c.Version)
	if version == "" {
		version = SchemaMajor
	}
	if err := validateVersion(version); err != nil {
		return nil, err
	}

	modPath, err := modulePath(root)
	if err != nil {
		return nil, err
	}

	appName := strings.TrimSpace(c.App.Name)
	if appName == "" {
		appName = defaultAppName(modPath, root)
	}

	fps := c.Loop.TargetFPS
	if fps < 0 {
		return nil, fmt.Errorf("loop.target_fps must not be negative (got %g)", fps)
	}
	if fps == 0 {
		fps = frameclock.DefaultTargetFPS
	}

	budget := c.Loop.Budget
	if budget < 0 {
		return nil, fmt.Errorf("loop.budget must not be negative (got %s)", budget)
	}
	if budget == 0 {
		budget = scheduler.DefaultBudget
	}

	level := zapcore.InfoLevel
	if s := strings.TrimSpace(c.Log.Level); s != "" {
		level, err = zapcore.ParseLevel(s)
		if err != nil {
			return nil, fmt.Errorf("log.level: %w", err)
		}
	}

	namespace := strings.TrimSpace(c.Metrics.Namespace)
	if namespace == "" {
		namespace = "sceneloop"
	}
	addr := strings.TrimSpace(c.Metrics.Addr)
	if addr == "" {
		addr = ":9090"
	}

	return &Resolved{
		Root:           root,
		ModulePath:     modPath,
		AppName:        appName,
		Version:        version,
		TargetFPS:      fps,
		Budget:         budget,
		LogLevel:       level,
		LogDevelopment: c.Log.Development,
		Metrics: metrics.Config{
			Enabled:   c.Metrics.Enabled,
			Namespace: namespace,
		},
		MetricsAddr: addr,
	}, nil
}

func validateVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("version %q is not a valid semantic version", v)
	}
	if major := semver.Major(v); major != SchemaMajor {
		return fmt.Errorf("version %q is not supported (want %s.x)", v, SchemaMajor)
	}
	return nil
}

// modulePath returns the module path declared in root/go.mod, or "" when
// root is not a module.
func modulePath(root string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultAppName(modPath, root string) string {
	base := filepath.Base(root)
	if modPath != "" {
		prefix, _, ok := module.SplitPathVersion(modPath)
		if ok {
			parts := strings.Split(prefix, "/")
			base = parts[len(parts)-1]
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "sceneloop"
	}
	return base
}
