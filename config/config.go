package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/sagarc03/mydropbox/gateway"
)

// DotEnvFile is read from the working directory for API_GATEWAY.
const DotEnvFile = ".env"

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

// Config is the root configuration struct for mydropbox.
type Config struct {
	Gateway GatewayConfig `mapstructure:"gateway" yaml:"gateway"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Files   FilesConfig   `mapstructure:"files" yaml:"files"`
}

// GatewayConfig holds the storage gateway connection settings.
type GatewayConfig struct {
	Endpoint  string        `mapstructure:"endpoint" yaml:"endpoint" validate:"required,url"`
	APIPrefix string        `mapstructure:"api_prefix" yaml:"api_prefix"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gte=0"`
}

// ClientConfig converts the settings into a gateway client config.
func (g GatewayConfig) ClientConfig() *gateway.Config {
	return &gateway.Config{
		Endpoint:  g.Endpoint,
		APIPrefix: g.APIPrefix,
		Timeout:   g.Timeout,
	}
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"required,oneof=text json"`
}

// OutputConfig selects how command results are printed.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" validate:"required,oneof=text json yaml"`
}

// FilesConfig holds local file settings.
type FilesConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir" validate:"required"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"endpoint":   "gateway.endpoint",
	"api-prefix": "gateway.api_prefix",
	"timeout":    "gateway.timeout",
	"log-level":  "log.level",
	"log-format": "log.format",
	"output":     "output.format",
	"dir":        "files.dir",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		viperKey, ok := flagToViperKey[f.Name]
		if !ok {
			return
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("gateway.api_prefix", gateway.DefaultAPIPrefix)
	v.SetDefault("gateway.timeout", "0s") // no client-side timeout

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")

	v.SetDefault("output.format", "text")

	v.SetDefault("files.dir", ".")
}

// readDotEnv uses API_GATEWAY from a dotenv file as the endpoint default.
func readDotEnv(v *viper.Viper, path string) {
	env := viper.New()
	env.SetConfigFile(path)
	env.SetConfigType("env")

	if err := env.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("error reading dotenv file", "file", path, "err", err)
		}
		return
	}

	if endpoint := env.GetString("api_gateway"); endpoint != "" {
		v.SetDefault("gateway.endpoint", endpoint)
	}
}

// DefaultPath returns ~/.mydropbox/config.yaml, or "" if the home
// directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mydropbox", "config.yaml")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config file > .env > defaults
//
// Parameters:
//   - configFile: explicit config file path; when empty ./config.yaml and
//     then ~/.mydropbox/config.yaml are tried
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)
	readDotEnv(v, DotEnvFile)

	// 2. Read config file
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if path := DefaultPath(); path != "" {
			v.AddConfigPath(filepath.Dir(path))
		}

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("MYDROPBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("gateway.endpoint", "MYDROPBOX_GATEWAY_ENDPOINT", "API_GATEWAY")

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// ReadFile decodes a config file written by Save without applying defaults,
// environment or validation.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &cfg, nil
}

// Save writes cfg as YAML to path, creating the parent directory.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
