package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/jbstime/internal/apperr"
)

const (
	// EnvUser overrides the username from the config file.
	EnvUser = "JBS_TIMETRACK_USER"
	// EnvPass overrides the password from the config file.
	EnvPass = "JBS_TIMETRACK_PASS"

	fileName    = "config.yaml"
	envFileName = ".env"
)

// Config is the credentials file stored in ~/.jbstime/config.yaml.
type Config struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Missing reports whether either credential is still empty.
func (c Config) Missing() bool {
	return c.Username == "" || c.Password == ""
}

// configHeader is written above the YAML body so users know what the file is.
const configHeader = `# jbstime credentials, written by "jbstime config".
#
# WARNING: the password is stored in plaintext. Prefer the
# JBS_TIMETRACK_PASS environment variable or --pass if that is a concern.
`

// FilePath returns the config file path under base.
func FilePath(base string) string {
	return filepath.Join(base, fileName)
}

// readError is the ConfigError reported for an unreadable or invalid file.
func readError(path string, err error) error {
	return apperr.Wrap(apperr.ConfigError, err,
		"Error reading %s - please verify that it is a valid yaml file", path)
}

// Load reads the config file at path. A missing file yields an empty Config;
// a file that exists but cannot be parsed is a ConfigError.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, readError(path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, readError(path, err)
	}
	return cfg, nil
}

// Write stores cfg at path, replacing any existing file.
func Write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	body, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	data := append([]byte(configHeader), body...)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// LoadEnvFile loads base/.env into the process environment when present.
// Variables already set in the environment are left untouched.
func LoadEnvFile(base string) error {
	path := filepath.Join(base, envFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return apperr.Wrap(apperr.ConfigError, err, "Error reading %s", path)
	}
	return nil
}

// Sources lists where credentials may come from.
type Sources struct {
	// Flags may carry "user" and "pass" flags; only explicitly set flags win.
	Flags *pflag.FlagSet
	// ConfigPath is the YAML credentials file.
	ConfigPath string
}

// Resolve merges credentials with priority flags > environment > config file.
// Either field may be empty when no source provides it.
func Resolve(src Sources) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if src.ConfigPath != "" {
		_, err := os.Stat(src.ConfigPath)
		switch {
		case err == nil:
			v.SetConfigFile(src.ConfigPath)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, readError(src.ConfigPath, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return Config{}, readError(src.ConfigPath, err)
		}
	}

	if err := v.BindEnv("username", EnvUser); err != nil {
		return Config{}, fmt.Errorf("binding %s: %w", EnvUser, err)
	}
	if err := v.BindEnv("password", EnvPass); err != nil {
		return Config{}, fmt.Errorf("binding %s: %w", EnvPass, err)
	}

	if src.Flags != nil {
		for key, name := range map[string]string{"username": "user", "password": "pass"} {
			if f := src.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("binding --%s: %w", name, err)
				}
			}
		}
	}

	return Config{
		Username: v.GetString("username"),
		Password: v.GetString("password"),
	}, nil
}
