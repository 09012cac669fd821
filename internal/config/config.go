// Package config loads pdb settings from defaults, an optional yaml file,
// PDB_* environment variables and command line flags, in that order of
// precedence (flags win).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"github.com/tobsdb/pdb/internal/auth"
	"github.com/tobsdb/pdb/internal/storage"
	"github.com/tobsdb/pdb/pkg"
)

const (
	ENV_PREFIX          = "PDB_"
	DEFAULT_CONFIG_FILE = "pdb.yaml"
	DEFAULT_LISTEN      = ":7085"
)

type S3Config struct {
	Bucket    string `koanf:"bucket"`
	Prefix    string `koanf:"prefix"`
	Region    string `koanf:"region"`
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
}

type AuthConfig struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	Role     string `koanf:"role"`
}

type Config struct {
	DataDir     string     `koanf:"data_dir"`
	Storage     string     `koanf:"storage"`
	S3          S3Config   `koanf:"s3"`
	Serve       bool       `koanf:"serve"`
	Listen      string     `koanf:"listen"`
	LogLevel    string     `koanf:"log_level"`
	HistoryFile string     `koanf:"history_file"`
	Auth        AuthConfig `koanf:"auth"`

	// file the config was read from, empty when none was used
	File string `koanf:"-"`
}

func defaults() map[string]any {
	history_file := ""
	if home, err := os.UserHomeDir(); err == nil {
		history_file = filepath.Join(home, ".pdb_history")
	}
	return map[string]any{
		"data_dir":     ".",
		"storage":      string(storage.KindFile),
		"serve":        false,
		"listen":       DEFAULT_LISTEN,
		"log_level":    pkg.LogLevelErrOnly.String(),
		"history_file": history_file,
		"auth.role":    auth.UserRoleAdmin.String(),
	}
}

// Flags declares the command line flags Load understands.
func Flags(name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.StringP("config", "c", "", "path to a yaml config file (default ./"+DEFAULT_CONFIG_FILE+" if present)")
	flags.StringP("data-dir", "d", ".", "directory holding db_meta.json and data/")
	flags.String("storage", string(storage.KindFile), "storage backend: file, memory or s3")
	flags.BoolP("in-memory", "m", false, "don't persist data, same as --storage memory")
	flags.String("s3-bucket", "", "s3 bucket for --storage s3")
	flags.String("s3-prefix", "", "key prefix inside the s3 bucket")
	flags.String("s3-region", "", "s3 region")
	flags.String("s3-endpoint", "", "custom endpoint for s3 compatible services")
	flags.Bool("serve", false, "serve commands over websockets instead of starting the shell")
	flags.StringP("listen", "l", DEFAULT_LISTEN, "websocket listen address")
	flags.String("log-level", pkg.LogLevelErrOnly.String(), "log level: none, error or debug")
	flags.String("history-file", "", "shell history file")
	flags.StringP("username", "u", "", "websocket server username")
	flags.StringP("password", "p", "", "websocket server password")
	flags.String("role", auth.UserRoleAdmin.String(), "websocket user role: admin, readwrite or readonly")
	return flags
}

// maps flag names to config keys
func flagKey(name string) string {
	switch name {
	case "username", "password", "role":
		return "auth." + name
	}
	if rest, ok := strings.CutPrefix(name, "s3-"); ok {
		return "s3." + strings.ReplaceAll(rest, "-", "_")
	}
	return strings.ReplaceAll(name, "-", "_")
}

// PDB_S3_BUCKET -> s3.bucket, PDB_DATA_DIR -> data_dir
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, ENV_PREFIX))
	for _, section := range []string{"s3_", "auth_"} {
		if rest, ok := strings.CutPrefix(key, section); ok {
			return strings.TrimSuffix(section, "_") + "." + rest
		}
	}
	return key
}

func findConfigFile(flags *pflag.FlagSet) string {
	if flags != nil {
		if f, _ := flags.GetString("config"); f != "" {
			return f
		}
	}
	if f := os.Getenv(ENV_PREFIX + "CONFIG"); f != "" {
		return f
	}
	if _, err := os.Stat(DEFAULT_CONFIG_FILE); err == nil {
		return DEFAULT_CONFIG_FILE
	}
	return ""
}

// Load reads the configuration. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	config_file := findConfigFile(flags)
	if config_file != "" {
		if err := k.Load(file.Provider(config_file), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", config_file, err)
		}
	}

	if err := k.Load(env.Provider(ENV_PREFIX, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			if f.Name == "in-memory" {
				if v, _ := flags.GetBool("in-memory"); v {
					return "storage", string(storage.KindMemory)
				}
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = config_file

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch storage.Kind(c.Storage) {
	case storage.KindFile:
		if c.DataDir == "" {
			return fmt.Errorf("data_dir is required for file storage")
		}
	case storage.KindMemory:
	case storage.KindS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("s3.bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("unknown storage: %s", c.Storage)
	}

	if _, err := pkg.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := auth.ParseUserRole(c.Auth.Role); err != nil {
		return err
	}
	if c.Auth.Password != "" && c.Auth.Username == "" {
		return fmt.Errorf("auth.password is set without auth.username")
	}
	return nil
}

func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Kind:    storage.Kind(c.Storage),
		DataDir: c.DataDir,
		S3: storage.S3Options{
			Bucket:    c.S3.Bucket,
			Prefix:    c.S3.Prefix,
			Region:    c.S3.Region,
			Endpoint:  c.S3.Endpoint,
			AccessKey: c.S3.AccessKey,
			SecretKey: c.S3.SecretKey,
		},
	}
}

func (c *Config) GetLogLevel() pkg.LogLevel {
	level, _ := pkg.ParseLogLevel(c.LogLevel)
	return level
}

// User builds the websocket server user, nil when no username is set.
func (c *Config) User() (*auth.User, error) {
	if c.Auth.Username == "" {
		return nil, nil
	}
	role, err := auth.ParseUserRole(c.Auth.Role)
	if err != nil {
		return nil, err
	}
	return auth.NewUser(c.Auth.Username, c.Auth.Password, role)
}
