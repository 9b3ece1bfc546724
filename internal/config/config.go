package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the engine host.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Learning LearningConfig `mapstructure:"learning"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	Mode            string        `mapstructure:"mode"` // gin mode: debug, release, test
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Mode  string `mapstructure:"mode"` // development | production
	Level string `mapstructure:"level"`
}

// DatabaseConfig selects the host data layer. Driver is "mongo" or "sqlite".
type DatabaseConfig struct {
	Driver     string `mapstructure:"driver"`
	URI        string `mapstructure:"uri"`
	Name       string `mapstructure:"name"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// RedisConfig configures the durable cache tier. When disabled the cache runs local-only.
type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	Namespace string `mapstructure:"namespace"`
	Channel   string `mapstructure:"channel"` // cache refresh notifications
}

type CacheConfig struct {
	LocalCapacity int `mapstructure:"local_capacity"`
}

type LearningConfig struct {
	QueueSize  int `mapstructure:"queue_size"`
	Workers    int `mapstructure:"workers"`
	WindowDays int `mapstructure:"window_days"`
	MinSamples int `mapstructure:"min_samples"`
}

type S3Config struct {
	Enabled         bool          `mapstructure:"enabled"`
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	BucketName      string        `mapstructure:"bucket_name"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	PresignTTL      time.Duration `mapstructure:"presign_ttl"`
}

// JWTConfig holds the secret used to verify tokens issued by the host's identity service.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"` // empty = stdout exporter
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
	ServiceName string  `mapstructure:"service_name"`
}

var ErrInvalidConfig = errors.New("invalid configuration")

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// No file: rely on defaults and env vars.
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	if err = config.Validate(); err != nil {
		return
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("log.mode", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("database.driver", "mongo")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "musclemap")
	v.SetDefault("database.sqlite_path", "musclemap.db")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.namespace", "musclemap")
	v.SetDefault("redis.channel", "musclemap:cache")
	v.SetDefault("cache.local_capacity", 5000)
	v.SetDefault("learning.queue_size", 256)
	v.SetDefault("learning.workers", 2)
	v.SetDefault("learning.window_days", 30)
	v.SetDefault("learning.min_samples", 5)
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.presign_ttl", "15m")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.sample_ratio", 0.1)
	v.SetDefault("tracing.service_name", "prescription-engine")
}

// Validate checks the values the server cannot start without.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "mongo", "sqlite":
	default:
		return fmt.Errorf("%w: database.driver must be mongo or sqlite, got %q", ErrInvalidConfig, c.Database.Driver)
	}
	if c.Cache.LocalCapacity <= 0 {
		return fmt.Errorf("%w: cache.local_capacity must be positive", ErrInvalidConfig)
	}
	if c.Learning.Workers <= 0 || c.Learning.QueueSize <= 0 {
		return fmt.Errorf("%w: learning.workers and learning.queue_size must be positive", ErrInvalidConfig)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("%w: tracing.sample_ratio must be within [0,1]", ErrInvalidConfig)
	}
	return nil
}
