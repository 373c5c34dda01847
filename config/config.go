package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/dirindex"
	dirhttp "github.com/sagarc03/dirindex/http"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for dirindex.
type Config struct {
	Env           string             `mapstructure:"env" yaml:"env" validate:"required,oneof=dev development prod production"`
	Server        ServerConfig       `mapstructure:"server" yaml:"server"`
	MountDefaults MountConfig        `mapstructure:"mount_defaults" yaml:"mount_defaults,omitempty" validate:"-"`
	Mounts        []MountConfig      `mapstructure:"mounts" yaml:"mounts" validate:"required,min=1,unique=Path,dive"`
	CORS          dirhttp.CORSConfig `mapstructure:"cors" yaml:"cors"`
	Log           LogConfig          `mapstructure:"log" yaml:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port   int    `mapstructure:"port" yaml:"port" validate:"required,min=1,max=65535"`
	Host   string `mapstructure:"host" yaml:"host"`
	Minify bool   `mapstructure:"minify" yaml:"minify"`
	// AppsDir is the base directory for mounts configured by app name.
	// Empty means the directory holding the executable.
	AppsDir string `mapstructure:"apps_dir" yaml:"apps_dir,omitempty"`
}

// MountConfig is one entry of the mounts list. The physical root is given
// either directly with Root, or as an App name plus Subdir below AppsDir.
type MountConfig struct {
	Path        string   `mapstructure:"path" yaml:"path" validate:"required,startswith=/"`
	Root        string   `mapstructure:"root" yaml:"root,omitempty" validate:"required_without=App,excluded_with=App"`
	App         string   `mapstructure:"app" yaml:"app,omitempty" validate:"required_without=Root,excluded_with=Root"`
	Subdir      string   `mapstructure:"subdir" yaml:"subdir,omitempty" validate:"excluded_with=Root"`
	AllowExact  []string `mapstructure:"allow_exact" yaml:"allow_exact,omitempty"`
	AllowPrefix []string `mapstructure:"allow_prefix" yaml:"allow_prefix,omitempty"`
	AllowAll    bool     `mapstructure:"allow_all" yaml:"allow_all,omitempty"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"required,oneof=debug info warn error"`
}

// IsProd reports whether the production logging setup applies.
func (c *Config) IsProd() bool {
	return c.Env == "prod" || c.Env == "production"
}

// Resolve returns the engine mount for m. A Root is made absolute; an App
// is joined with Subdir below appsDir, or below the executable's directory
// when appsDir is empty.
func (m MountConfig) Resolve(appsDir string) (dirindex.MountConfig, error) {
	root, err := m.physicalRoot(appsDir)
	if err != nil {
		return dirindex.MountConfig{}, fmt.Errorf("mount %s: %w", m.Path, err)
	}

	return dirindex.MountConfig{
		Path:        m.Path,
		Root:        root,
		AllowExact:  m.AllowExact,
		AllowPrefix: m.AllowPrefix,
		AllowAll:    m.AllowAll,
	}, nil
}

func (m MountConfig) physicalRoot(appsDir string) (string, error) {
	if m.Root != "" {
		return filepath.Abs(m.Root)
	}

	if !dirindex.IsValidSegment(m.App) {
		return "", fmt.Errorf("%w: invalid app name %q", dirindex.ErrInvalidConfig, m.App)
	}

	subdir := filepath.Clean(filepath.FromSlash(m.Subdir))
	if !filepath.IsLocal(subdir) {
		return "", fmt.Errorf("%w: subdir %q must stay inside the app directory", dirindex.ErrInvalidConfig, m.Subdir)
	}

	if appsDir == "" {
		exe, err := os.Executable()
		if err != nil {
			return "", fmt.Errorf("locate executable: %w", err)
		}
		appsDir = filepath.Dir(exe)
	}

	return filepath.Abs(filepath.Join(appsDir, m.App, subdir))
}

// ResolveMounts resolves every configured mount.
func (c *Config) ResolveMounts() ([]dirindex.MountConfig, error) {
	mounts := make([]dirindex.MountConfig, 0, len(c.Mounts))
	for _, m := range c.Mounts {
		resolved, err := m.Resolve(c.Server.AppsDir)
		if err != nil {
			return nil, err
		}
		mounts = append(mounts, resolved)
	}
	return mounts, nil
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"port":      "server.port",
	"host":      "server.host",
	"minify":    "server.minify",
	"apps-dir":  "server.apps_dir",
	"log-level": "log.level",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")

	v.SetDefault("server.port", 5709)
	v.SetDefault("server.host", "")
	v.SetDefault("server.minify", false)

	v.SetDefault("log.level", "info")
}

// applyMountDefaults gives every mount that sets none of allow_exact,
// allow_prefix and allow_all the listing policy from MountDefaults. A mount
// that sets any of them keeps its own policy as a whole.
func applyMountDefaults(cfg *Config) error {
	d := cfg.MountDefaults
	if d.Path != "" || d.Root != "" || d.App != "" || d.Subdir != "" {
		return errors.New("mount_defaults: only allow_exact, allow_prefix and allow_all may be set")
	}
	if d.AllowAll && (len(d.AllowExact) > 0 || len(d.AllowPrefix) > 0) {
		return errors.New("mount_defaults: allow_all cannot be combined with allow-lists")
	}

	policy := MountConfig{
		AllowExact:  d.AllowExact,
		AllowPrefix: d.AllowPrefix,
		AllowAll:    d.AllowAll,
	}

	for i := range cfg.Mounts {
		m := &cfg.Mounts[i]
		if m.AllowAll || len(m.AllowExact) > 0 || len(m.AllowPrefix) > 0 {
			continue
		}
		if err := mergo.Merge(m, policy); err != nil {
			return fmt.Errorf("mount_defaults: mount %s: %w", m.Path, err)
		}
	}
	return nil
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// There is no default mount: without a config file that lists at least one
// mount, validation fails. A config file named in configFiles that cannot
// be read is an error.
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFiles[0], err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("merge config file %s: %w", cf, err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("DIRINDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Fill mount policies from mount_defaults
	if err := applyMountDefaults(&cfg); err != nil {
		return nil, err
	}

	// 7. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
