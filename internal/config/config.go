package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// SourceConfig describes one folder of code to scan.
type SourceConfig struct {
	Alias          string   `mapstructure:"alias"`
	Label          string   `mapstructure:"label"`
	Path           string   `mapstructure:"path"`
	StorageFolder  string   `mapstructure:"storage_folder"`
	ExcludeFolders []string `mapstructure:"exclude_folders"`
	ExcludeFiles   []string `mapstructure:"exclude_files"`
}

type Config struct {
	StorageFile      string         `mapstructure:"storage_file"`
	NativeLocale     string         `mapstructure:"native_locale"`
	Locales          []string       `mapstructure:"locales"`
	Sources          []SourceConfig `mapstructure:"sources"`
	ReverseCacheSize int            `mapstructure:"reverse_cache_size"`
	ScanWorkers      int            `mapstructure:"scan_workers"`
	DatabaseURL      string         `mapstructure:"database_url"`
	Neo4jURI         string         `mapstructure:"neo4j_uri"`
	Neo4jUser        string         `mapstructure:"neo4j_user"`
	Neo4jPassword    string         `mapstructure:"neo4j_password"`
}

// EnvPrefix prefixes environment overrides, e.g. L10N_STORAGE_FILE.
const EnvPrefix = "L10N"

// DefaultConfigName is looked up in the working directory without --config.
const DefaultConfigName = "l10n"

// Load reads .env, the config file and environment overrides. cfgFile may be
// empty, in which case l10n.yaml in the working directory is optional.
func Load(fs afero.Fs, cfgFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	v := viper.New()
	v.SetFs(fs)
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("database_url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("neo4j_uri", EnvPrefix+"_NEO4J_URI", "NEO4J_URI")
	_ = v.BindEnv("neo4j_user", EnvPrefix+"_NEO4J_USER", "NEO4J_USER")
	_ = v.BindEnv("neo4j_password", EnvPrefix+"_NEO4J_PASSWORD", "NEO4J_PASSWORD")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		log.Warn().Msg("No l10n.yaml found, using defaults and environment variables")
	}

	return FromViper(v)
}

// FromViper decodes and validates a configuration.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage_file", "l10n/strings.json")
	v.SetDefault("native_locale", "en")
	v.SetDefault("locales", []string{})
	v.SetDefault("reverse_cache_size", 4096)
	v.SetDefault("scan_workers", 1)
	v.SetDefault("database_url", "")
	v.SetDefault("neo4j_uri", "")
	v.SetDefault("neo4j_user", "neo4j")
	v.SetDefault("neo4j_password", "")
}

// Validate checks that the configuration can drive a scan.
func (c *Config) Validate() error {
	if c.StorageFile == "" {
		return errors.New("config: storage_file is required")
	}
	if len(c.Sources) == 0 {
		return errors.New("config: at least one source is required")
	}

	seen := make(map[string]bool)
	for i, src := range c.Sources {
		if src.Alias == "" {
			return fmt.Errorf("config: source %d has no alias", i)
		}
		if seen[src.Alias] {
			return fmt.Errorf("config: duplicate source alias %q", src.Alias)
		}
		seen[src.Alias] = true
		if src.Path == "" {
			return fmt.Errorf("config: source %q has no path", src.Alias)
		}
	}

	for _, locale := range append([]string{c.NativeLocale}, c.Locales...) {
		if _, err := language.Parse(locale); err != nil {
			return fmt.Errorf("config: invalid locale %q: %w", locale, err)
		}
	}
	return nil
}

// Source returns the source configuration with the given alias.
func (c *Config) Source(alias string) (SourceConfig, bool) {
	for _, src := range c.Sources {
		if src.Alias == alias {
			return src, true
		}
	}
	return SourceConfig{}, false
}
