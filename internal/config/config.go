// Package config loads the settings shared by the loom CLI and language
// server: where script modules live, which extension they use, evaluation
// limits and host-defined static modules.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"loom/internal/engine"
	"loom/internal/module"
	"loom/internal/resolvers"
	"loom/internal/stdlib"
)

// Environment variable prefix for loom configuration.
const envPrefix = "LOOM"

// Config is the loom configuration.
type Config struct {
	// BaseDir is the directory imports are resolved against.
	// Env: LOOM_BASE_DIR, Default: "."
	BaseDir string `mapstructure:"baseDir"`

	// Extension is forced onto every imported path.
	// Env: LOOM_EXTENSION, Default: "loom"
	Extension string `mapstructure:"extension"`

	// Env: LOOM_MAX_CALL_DEPTH
	MaxCallDepth int `mapstructure:"maxCallDepth"`

	// Env: LOOM_MAX_IMPORT_DEPTH
	MaxImportDepth int `mapstructure:"maxImportDepth"`

	// Verbosity is passed to commonlog.Configure.
	// Env: LOOM_VERBOSITY, Default: 0
	Verbosity int `mapstructure:"verbosity"`

	// Stdlib serves the std/ modules from memory.
	// Env: LOOM_STDLIB, Default: true
	Stdlib bool `mapstructure:"stdlib"`

	// Static maps an import path to the variables of a module served from
	// memory. Static modules shadow script files with the same path.
	Static map[string]map[string]any `mapstructure:"static"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		BaseDir:        ".",
		Extension:      resolvers.DefaultExtension,
		MaxCallDepth:   engine.DefaultMaxCallDepth,
		MaxImportDepth: engine.DefaultMaxImportDepth,
		Stdlib:         true,
	}
}

// Loader reads configuration from a YAML file and the environment.
type Loader struct {
	v *viper.Viper
}

func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("baseDir", "LOOM_BASE_DIR")
	_ = v.BindEnv("extension", "LOOM_EXTENSION")
	_ = v.BindEnv("maxCallDepth", "LOOM_MAX_CALL_DEPTH")
	_ = v.BindEnv("maxImportDepth", "LOOM_MAX_IMPORT_DEPTH")
	_ = v.BindEnv("verbosity", "LOOM_VERBOSITY")
	_ = v.BindEnv("stdlib", "LOOM_STDLIB")

	def := Default()
	v.SetDefault("baseDir", def.BaseDir)
	v.SetDefault("extension", def.Extension)
	v.SetDefault("maxCallDepth", def.MaxCallDepth)
	v.SetDefault("maxImportDepth", def.MaxImportDepth)
	v.SetDefault("verbosity", def.Verbosity)
	v.SetDefault("stdlib", def.Stdlib)

	return &Loader{v: v}
}

// Load reads configFile if given. A missing file is not an error.
// Environment variables take precedence over file values.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile != "" {
		l.v.SetConfigFile(configFile)
		l.v.SetConfigType("yaml")

		if err := l.v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load is NewLoader().Load(configFile).
func Load(configFile string) (*Config, error) {
	return NewLoader().Load(configFile)
}

func (c *Config) Validate() error {
	if c.MaxCallDepth <= 0 {
		return fmt.Errorf("maxCallDepth must be positive, got %d", c.MaxCallDepth)
	}
	if c.MaxImportDepth <= 0 {
		return fmt.Errorf("maxImportDepth must be positive, got %d", c.MaxImportDepth)
	}
	if strings.ContainsAny(c.Extension, `/\`) {
		return fmt.Errorf("extension %q must not contain a path separator", c.Extension)
	}
	return nil
}

// StaticResolver builds the static modules declared in the configuration.
func (c *Config) StaticResolver() *resolvers.StaticResolver {
	r := resolvers.NewStaticResolver()
	for path, vars := range c.Static {
		m := module.New()
		for name, value := range vars {
			m.SetVar(name, value)
		}
		r.Insert(path, m)
	}
	return r
}

// FileResolver resolves script modules under BaseDir. An empty baseDir
// argument keeps the configured one.
func (c *Config) FileResolver(baseDir string) *resolvers.FileResolver {
	if baseDir == "" {
		baseDir = c.BaseDir
	}
	return resolvers.NewFileResolverWithPathAndExtension(baseDir, c.Extension)
}

// Resolver is the static modules, then the standard modules if enabled,
// then script files under BaseDir.
func (c *Config) Resolver() module.Resolver {
	chain := resolvers.NewChain(c.StaticResolver())
	if c.Stdlib {
		chain = append(chain, stdlib.Resolver())
	}
	return append(chain, c.FileResolver(""))
}

// EngineOptions configures an engine from c.
func (c *Config) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithResolver(c.Resolver()),
		engine.WithMaxCallDepth(c.MaxCallDepth),
		engine.WithMaxImportDepth(c.MaxImportDepth),
	}
}

// HasModule reports whether path names a static module or a script file
// under baseDir, without running anything.
func (c *Config) HasModule(baseDir, path string) bool {
	if _, ok := c.Static[path]; ok {
		return true
	}
	if c.Stdlib && stdlib.IsKnownModule(path) {
		return true
	}
	_, err := os.Stat(c.FileResolver(baseDir).FilePath(path))
	return err == nil
}
