package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Env         string `mapstructure:"GO_ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	// Redis (leaderboard cache)
	RedisAddr           string `mapstructure:"REDIS_ADDR"`
	RedisPassword       string `mapstructure:"REDIS_PASSWORD"`
	LeaderboardCacheTTL int    `mapstructure:"LEADERBOARD_CACHE_TTL"` // Seconds

	// Optional write authorization. Empty disables it.
	JWTSecret string `mapstructure:"JWT_SECRET"`

	// Daily challenge / weekly quest rotation
	RotationEnabled bool `mapstructure:"ROTATION_ENABLED"`

	// Tracing. Spans go to OTLP when an endpoint is set, else to stdout.
	OtelEnabled     bool    `mapstructure:"OTEL_ENABLED"`
	OtelEndpoint    string  `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelInsecure    bool    `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	OtelSampleRatio float64 `mapstructure:"OTEL_SAMPLER_RATIO"`
	ServiceVersion  string  `mapstructure:"SERVICE_VERSION"`
}

var AppConfig *Config

func LoadConfig() {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GO_ENV", "development")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("LEADERBOARD_CACHE_TTL", 30)
	viper.SetDefault("ROTATION_ENABLED", false)
	viper.SetDefault("OTEL_ENABLED", false)
	viper.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	viper.SetDefault("OTEL_SAMPLER_RATIO", 0.1)

	// AutomaticEnv only applies to keys viper already knows about, so bind the rest explicitly.
	for _, key := range []string{"DATABASE_URL", "FRONTEND_URL", "REDIS_PASSWORD", "JWT_SECRET", "OTEL_EXPORTER_OTLP_ENDPOINT", "SERVICE_VERSION"} {
		_ = viper.BindEnv(key)
	}

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
}

// IsProduction reports whether the service runs with GO_ENV=production.
func (c *Config) IsProduction() bool {
	return c != nil && c.Env == "production"
}
