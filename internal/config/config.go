// Package config provides configuration management for skills.
// It supports YAML or TOML configuration files, environment variables, and sensible defaults.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/klauern/skills-cli/internal/remote"
	"github.com/klauern/skills-cli/internal/util"
)

// Config represents the complete skills configuration.
type Config struct {
	// SkillsDirs is the ordered list of directories searched for installed skills.
	// Paths can use ~ for the home directory.
	SkillsDirs []string `yaml:"skills_dirs" toml:"skills_dirs" json:"skills_dirs"`

	// Install configures where skills are installed
	Install InstallConfig `yaml:"install" toml:"install" json:"install"`

	// GitHub configures repository archive downloads
	GitHub GitHubConfig `yaml:"github" toml:"github" json:"github"`

	// API configures the skills publishing endpoint
	API APIConfig `yaml:"api" toml:"api" json:"api"`

	// HTTP configures outbound requests
	HTTP HTTPConfig `yaml:"http" toml:"http" json:"http"`

	// Output configures display preferences
	Output OutputConfig `yaml:"output" toml:"output" json:"output"`
}

// InstallConfig holds install settings.
type InstallConfig struct {
	// DefaultDest overrides the install destination. Empty means the first
	// existing skills directory.
	DefaultDest string `yaml:"default_dest" toml:"default_dest" json:"default_dest"`
}

// GitHubConfig holds repository download settings.
type GitHubConfig struct {
	BaseURL        string `yaml:"base_url" toml:"base_url" json:"base_url"`
	DefaultBranch  string `yaml:"default_branch" toml:"default_branch" json:"default_branch"`
	FallbackBranch string `yaml:"fallback_branch" toml:"fallback_branch" json:"fallback_branch"`
}

// APIConfig holds skills API settings.
type APIConfig struct {
	BaseURL string `yaml:"base_url" toml:"base_url" json:"base_url"`
	Version string `yaml:"version" toml:"version" json:"version"`
	Beta    string `yaml:"beta" toml:"beta" json:"beta"`
	// KeyEnv names the environment variable holding the API key.
	// The key itself is never stored in the config file.
	KeyEnv string `yaml:"key_env" toml:"key_env" json:"key_env"`
}

// HTTPConfig holds network settings.
type HTTPConfig struct {
	Timeout Duration `yaml:"timeout" toml:"timeout" json:"timeout"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Color controls color output (auto, always, never)
	Color string `yaml:"color" toml:"color" json:"color"`
}

// Duration is a time.Duration stored as text ("60s", "2m").
// A bare integer is read as seconds.
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := parseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		SkillsDirs: []string{
			"~/.claude/skills",
			"~/.codex/skills",
		},
		GitHub: GitHubConfig{
			BaseURL:        remote.DefaultGitHubURL,
			DefaultBranch:  remote.DefaultBranch,
			FallbackBranch: remote.DefaultFallbackBranch,
		},
		API: APIConfig{
			BaseURL: remote.DefaultAPIURL,
			Version: remote.DefaultAPIVersion,
			Beta:    remote.DefaultAPIBeta,
			KeyEnv:  remote.DefaultAPIKeyEnv,
		},
		HTTP: HTTPConfig{
			Timeout: Duration{remote.DefaultTimeout},
		},
		Output: OutputConfig{
			Color: ColorAuto,
		},
	}
}

const (
	yamlFileName = "config.yaml"
	tomlFileName = "config.toml"
)

// FilePath returns the path to the config file. config.toml is used only
// when it exists and config.yaml does not.
func FilePath() string {
	dir := util.ConfigDir()
	yamlPath := filepath.Join(dir, yamlFileName)
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath
	}
	tomlPath := filepath.Join(dir, tomlFileName)
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath
	}
	return yamlPath
}

// Load loads the configuration from file, merging with defaults.
// If the config file doesn't exist, returns default configuration.
func Load() (*Config, error) {
	return LoadOrDefault(FilePath())
}

// LoadOrDefault loads the configuration at path, or returns the defaults
// with environment overrides when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := LoadFromPath(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg = Default()
			cfg.applyEnvironment()
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path. Files ending in
// .toml are read as TOML, everything else as YAML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// SaveToPath writes the configuration to a specific path, choosing the
// format from the file extension.
func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	format := FormatYAML
	if isTOML(path) {
		format = FormatTOML
	}
	data, err := c.Marshal(format)
	if err != nil {
		return err
	}

	// #nosec G306 - config file should be readable by user
	return os.WriteFile(path, data, 0o644)
}

// Output formats for Marshal.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
	FormatJSON = "json"
)

// Marshal encodes the configuration as yaml, toml or json.
func (c *Config) Marshal(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("invalid format %q (valid: yaml, toml, json)", format)
	}
}

// applyEnvironment applies environment variable overrides.
func (c *Config) applyEnvironment() {
	if v := os.Getenv("SKILLS_DIRS"); v != "" {
		c.SkillsDirs = splitPaths(v)
	}
	if v := os.Getenv("SKILLS_INSTALL_DEST"); v != "" {
		c.Install.DefaultDest = v
	}
	if v := os.Getenv("SKILLS_GITHUB_URL"); v != "" {
		c.GitHub.BaseURL = v
	}
	if v := os.Getenv("ANTHROPIC_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("SKILLS_HTTP_TIMEOUT"); v != "" {
		if d, err := parseDuration(v); err == nil && d > 0 {
			c.HTTP.Timeout = Duration{d}
		}
	}
	if v := os.Getenv("SKILLS_OUTPUT_COLOR"); v != "" {
		c.Output.Color = strings.ToLower(strings.TrimSpace(v))
	}
}

// splitPaths splits an OS path list into individual paths.
// Empty segments are filtered out.
func splitPaths(s string) []string {
	parts := filepath.SplitList(s)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Dirs returns the configured skills directories with ~ expanded.
func (c *Config) Dirs() []string {
	dirs := make([]string, 0, len(c.SkillsDirs))
	for _, d := range c.SkillsDirs {
		dirs = append(dirs, util.ExpandHome(d))
	}
	return dirs
}

// InstallDest returns the configured install destination with ~ expanded,
// or an empty string.
func (c *Config) InstallDest() string {
	return util.ExpandHome(c.Install.DefaultDest)
}

// APIKey reads the API key from the configured environment variable.
func (c *Config) APIKey() string {
	env := c.API.KeyEnv
	if env == "" {
		env = remote.DefaultAPIKeyEnv
	}
	return os.Getenv(env)
}
