// Package config loads runtime configuration from the environment
// (and an optional .env file).
package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the API needs at startup.
type Config struct {
	Port          string `mapstructure:"PORT"`
	MongoURI      string `mapstructure:"MONGODB_URI"`
	DBName        string `mapstructure:"DB_NAME"`
	SessionSecret string `mapstructure:"SESSION_SECRET"`
	// SessionKeys optionally supplies rotatable secrets as
	// "kid:secret,kid2:secret2"; SessionActiveKid names the one used for
	// newly issued sessions.
	SessionKeys      string `mapstructure:"SESSION_KEYS"`
	SessionActiveKid string `mapstructure:"SESSION_ACTIVE_KID"`
	RateLimitRPM     int    `mapstructure:"RATE_LIMIT_RPM"`
	CORSOrigins      string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

// Load reads configuration from the environment, after loading a local
// .env file when one exists.
func Load() *Config {
	// .env is optional; absence is the normal production case
	if err := godotenv.Load(); err == nil {
		log.Println("loaded configuration from .env")
	}

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	viper.SetDefault("DB_NAME", "student_connect")
	viper.SetDefault("SESSION_SECRET", "dev-secret-change-me")
	viper.SetDefault("SESSION_KEYS", "")
	viper.SetDefault("SESSION_ACTIVE_KID", "")
	viper.SetDefault("RATE_LIMIT_RPM", 10)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://127.0.0.1:5500,http://localhost:5500")
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("unable to decode config: %v", err)
	}
	return &cfg
}
