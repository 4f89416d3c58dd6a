package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion         string `mapstructure:"GENERAL_VERSION"`
	ServerPort             int    `mapstructure:"SERVER_PORT"`
	DatabaseDbPath         string `mapstructure:"DATABASE_DB_PATH"`
	DatabaseCacheAddress   string `mapstructure:"DATABASE_CACHE_ADDRESS"`
	DatabaseCachePort      int    `mapstructure:"DATABASE_CACHE_PORT"`
	CompanyName            string `mapstructure:"COMPANY_NAME"`
	ListingPageSize        int    `mapstructure:"LISTING_PAGE_SIZE"`
	VocabularyCacheMinutes int    `mapstructure:"VOCABULARY_CACHE_MINUTES"`
	LogLevel               string `mapstructure:"LOG_LEVEL"`
	LogJSON                bool   `mapstructure:"LOG_JSON"`
}

var keys = []string{
	"GENERAL_VERSION",
	"SERVER_PORT",
	"DATABASE_DB_PATH",
	"DATABASE_CACHE_ADDRESS",
	"DATABASE_CACHE_PORT",
	"COMPANY_NAME",
	"LISTING_PAGE_SIZE",
	"VOCABULARY_CACHE_MINUTES",
	"LOG_LEVEL",
	"LOG_JSON",
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("GENERAL_VERSION", "dev")
	v.SetDefault("SERVER_PORT", 8288)
	v.SetDefault("DATABASE_DB_PATH", "data/assessments.db")
	v.SetDefault("DATABASE_CACHE_ADDRESS", "")
	v.SetDefault("DATABASE_CACHE_PORT", 6379)
	v.SetDefault("COMPANY_NAME", "Similares")
	v.SetDefault("LISTING_PAGE_SIZE", 20)
	v.SetDefault("VOCABULARY_CACHE_MINUTES", 10)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_JSON", false)
}

// InitConfig reads .env from the working directory when present and lets
// environment variables override it.
func InitConfig() (Config, error) {
	return Load(viper.GetViper(), ".env")
}

func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, err
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) Validate() error {
	if c.ServerPort <= 0 {
		return errors.New("server port must be positive")
	}
	if c.ListingPageSize <= 0 {
		return errors.New("listing page size must be positive")
	}
	if strings.TrimSpace(c.CompanyName) == "" {
		return errors.New("company name is empty")
	}
	return nil
}

func (c Config) CacheEnabled() bool {
	return c.DatabaseCacheAddress != ""
}

// Context carries the env file location and the loaded configuration
// through CLI commands.
type Context struct {
	EnvFile string
	Config  Config
}
