// Package config loads localopt.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"localopt/internal/localopt"
)

// FileName is the configuration file looked up from the working directory.
const FileName = "localopt.toml"

// Config is the decoded configuration. Zero values are filled by Default.
type Config struct {
	Rules  RulesConfig  `toml:"rules"`
	Approx ApproxConfig `toml:"approx"`
	Cache  CacheConfig  `toml:"cache"`
	Driver DriverConfig `toml:"driver"`

	// Path is the file the config was read from; empty for defaults.
	Path string `toml:"-"`
}

type RulesConfig struct {
	Identity bool `toml:"identity"`
	Shift    bool `toml:"shift"`
	Approx   bool `toml:"approx"`
	SDiv     bool `toml:"sdiv"`
	Cancel   bool `toml:"cancel"`
}

type ApproxConfig struct {
	MaxCorrection uint64 `toml:"max_correction"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type DriverConfig struct {
	// Jobs bounds concurrent files; 0 means GOMAXPROCS.
	Jobs int `toml:"jobs"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Rules:  RulesConfig{Identity: true, Shift: true, Approx: true, SDiv: true, Cancel: true},
		Cache:  CacheConfig{Enabled: true},
		Driver: DriverConfig{},
	}
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the nearest config, or returns Default.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load reads a config file. Keys the file leaves out keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("driver", "jobs") && cfg.Driver.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [driver].jobs must not be negative", path)
	}
	if meta.IsDefined("cache", "dir") && strings.TrimSpace(cfg.Cache.Dir) == "" {
		return Config{}, fmt.Errorf("%s: [cache].dir is empty", path)
	}
	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(filepath.Dir(path), cfg.Cache.Dir)
	}
	cfg.Path = path
	return cfg, nil
}

// EnabledRules converts the [rules] table to a rule set.
func (c Config) EnabledRules() localopt.Rule {
	var r localopt.Rule
	set := func(on bool, rule localopt.Rule) {
		if on {
			r |= rule
		}
	}
	set(c.Rules.Identity, localopt.RuleIdentity)
	set(c.Rules.Shift, localopt.RuleShift)
	set(c.Rules.Approx, localopt.RuleApprox)
	set(c.Rules.SDiv, localopt.RuleSDiv)
	set(c.Rules.Cancel, localopt.RuleCancel)
	return r
}

// Options returns the pass options described by c.
func (c Config) Options() localopt.Options {
	return localopt.Options{
		Rules:         c.EnabledRules(),
		MaxCorrection: c.Approx.MaxCorrection,
	}
}
