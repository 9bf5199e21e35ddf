// Package config loads, validates and persists obfuscator configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Naming strategies understood by the name generator.
const (
	StrategyRandomChars     = "random_chars"
	StrategyDictionary      = "dictionary"
	StrategyPatternTemplate = "pattern_template"
	StrategyHashBased       = "hash_based"
)

// NamingConfig controls how obfuscated names are synthesized.
type NamingConfig struct {
	Strategy      string `yaml:"strategy" mapstructure:"strategy"`
	Seed          int64  `yaml:"seed" mapstructure:"seed"` // 0 means a fresh random seed per run
	MinNameLength int    `yaml:"min_name_length" mapstructure:"min_name_length"`
	MaxNameLength int    `yaml:"max_name_length" mapstructure:"max_name_length"`
	Prefix        string `yaml:"prefix,omitempty" mapstructure:"prefix,omitempty"` // used by pattern_template
}

// RenameConfig toggles which symbol kinds are renamed.
type RenameConfig struct {
	Classes    bool `yaml:"classes" mapstructure:"classes"`
	Protocols  bool `yaml:"protocols" mapstructure:"protocols"`
	Categories bool `yaml:"categories" mapstructure:"categories"`
	Enums      bool `yaml:"enums" mapstructure:"enums"`
	Methods    bool `yaml:"methods" mapstructure:"methods"`
	Properties bool `yaml:"properties" mapstructure:"properties"`
	Constants  bool `yaml:"constants" mapstructure:"constants"`
}

// CacheConfig controls the two-level parse cache.
type CacheConfig struct {
	Dir            string `yaml:"dir" mapstructure:"dir"`
	MemoryCapacity int    `yaml:"memory_capacity" mapstructure:"memory_capacity"` // entries
	DiskCapacity   int    `yaml:"disk_capacity" mapstructure:"disk_capacity"`     // entries, 0 = unbounded
	Invalidate     bool   `yaml:"invalidate" mapstructure:"invalidate"`           // wipe persisted entries before the run
}

// WhitelistConfig controls whitelist resolution.
type WhitelistConfig struct {
	CustomPath     string   `yaml:"custom_path" mapstructure:"custom_path"`
	ScanManifests  bool     `yaml:"scan_manifests" mapstructure:"scan_manifests"`
	ExtraProtected []string `yaml:"extra_protected,omitempty" mapstructure:"extra_protected,omitempty"`
}

// Config holds all settings for one obfuscation run.
// Struct tags control how Viper maps config file keys and environment variables.
type Config struct {
	SourceDirectory string `yaml:"source_directory" mapstructure:"source_directory"`
	TargetDirectory string `yaml:"target_directory" mapstructure:"target_directory"`

	Silent         bool `yaml:"silent" mapstructure:"silent"`
	AbortOnError   bool `yaml:"abort_on_error" mapstructure:"abort_on_error"`
	FollowSymlinks bool `yaml:"follow_symlinks" mapstructure:"follow_symlinks"`
	Parallelism    int  `yaml:"parallelism" mapstructure:"parallelism"` // 0 = NumCPU

	// File handling
	SourceExtensions []string `yaml:"source_extensions" mapstructure:"source_extensions"`
	ExcludedPatterns []string `yaml:"excluded_patterns" mapstructure:"excluded_patterns"` // doublestar globs, relative to source root
	RespectGitignore bool     `yaml:"respect_gitignore" mapstructure:"respect_gitignore"`

	// Output
	MappingFile string `yaml:"mapping_file" mapstructure:"mapping_file"` // relative to target dir

	Naming    NamingConfig    `yaml:"naming" mapstructure:"naming"`
	Rename    RenameConfig    `yaml:"rename" mapstructure:"rename"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Whitelist WhitelistConfig `yaml:"whitelist" mapstructure:"whitelist"`
}

var (
	// Testing controls whether informational output is suppressed for tests.
	Testing bool
)

// PrintInfo prints formatted information to stdout, respecting the Testing flag.
func PrintInfo(format string, args ...interface{}) {
	if !Testing {
		fmt.Printf(format, args...)
	}
}

// DefaultConfig returns a configuration with default settings.
func DefaultConfig() *Config {
	return &Config{
		Silent:           false,
		AbortOnError:     false,
		FollowSymlinks:   false,
		Parallelism:      0,
		SourceExtensions: []string{"h", "m", "mm", "swift"},
		ExcludedPatterns: []string{"Pods/**", "Carthage/**", "**/*.generated.*"},
		RespectGitignore: true,
		MappingFile:      "mapping.json",
		Naming: NamingConfig{
			Strategy:      StrategyRandomChars,
			Seed:          0,
			MinNameLength: 6,
			MaxNameLength: 16,
			Prefix:        "OC",
		},
		Rename: RenameConfig{
			Classes:    true,
			Protocols:  true,
			Categories: true,
			Enums:      true,
			Methods:    true,
			Properties: true,
			Constants:  true,
		},
		Cache: CacheConfig{
			Dir:            ".objcloak-cache",
			MemoryCapacity: 512,
			DiskCapacity:   0,
			Invalidate:     false,
		},
		Whitelist: WhitelistConfig{
			CustomPath:    "whitelist.json",
			ScanManifests: true,
		},
	}
}

// LoadConfig reads configuration from a YAML file and OBJCLOAK_* environment
// variables, layered over the defaults. An empty path falls back to
// "config.yaml" in the working directory, which is allowed to be absent.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := configPath != ""
	if configPath == "" {
		configPath = "config.yaml"
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("OBJCLOAK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if isNotFound(err) {
			if explicit {
				return nil, fmt.Errorf("specified config file not found: %s", configPath)
			}
			PrintInfo("Info: configuration file 'config.yaml' not found, using default settings.\n")
		} else {
			return nil, fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
	} else {
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("error unmarshalling config file %s: %w", configPath, err)
		}
		if !cfg.Silent {
			PrintInfo("Info: loaded configuration from %s\n", configPath)
		}
	}

	if cfg.TargetDirectory != "" {
		cfg.TargetDirectory = filepath.Clean(cfg.TargetDirectory)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// isNotFound reports whether err means the config file is simply absent.
// Viper reports ConfigFileNotFoundError for search-path misses and a
// *fs.PathError when SetConfigFile points at a missing file.
func isNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf) || os.IsNotExist(err)
}

// Validate checks cross-field constraints that viper cannot express.
func (c *Config) Validate() error {
	switch c.Naming.Strategy {
	case StrategyRandomChars, StrategyDictionary, StrategyPatternTemplate, StrategyHashBased:
	default:
		return fmt.Errorf("unknown naming strategy %q", c.Naming.Strategy)
	}
	if c.Naming.MinNameLength < 2 {
		return fmt.Errorf("min_name_length must be at least 2, got %d", c.Naming.MinNameLength)
	}
	if c.Naming.MaxNameLength < c.Naming.MinNameLength {
		return fmt.Errorf("max_name_length %d is smaller than min_name_length %d",
			c.Naming.MaxNameLength, c.Naming.MinNameLength)
	}
	if c.Cache.MemoryCapacity <= 0 {
		return fmt.Errorf("cache memory_capacity must be positive, got %d", c.Cache.MemoryCapacity)
	}
	return nil
}

// SaveConfig writes the default configuration to a file, creating parent
// directories as needed. Used by `objcloak config init`.
func SaveConfig(configPath string) error {
	cfg := DefaultConfig()
	yamlData, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshalling default config: %w", err)
	}
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory for config file %s: %w", configPath, err)
	}
	if err := os.WriteFile(configPath, yamlData, 0644); err != nil {
		return fmt.Errorf("error writing config file %s: %w", configPath, err)
	}
	PrintInfo("Info: saved default configuration to %s\n", configPath)
	return nil
}
