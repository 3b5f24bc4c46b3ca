package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	AdminAPIKey string `env:"ADMIN_API_KEY"`

	// Optional leaderboard cache. The service runs without it.
	RedisAddr       string `env:"REDIS_ADDR"`
	LeaderboardTTLS int    `env:"LEADERBOARD_CACHE_TTL_SECONDS" envDefault:"5"`

	ShutdownTimeoutSec int `env:"SHUTDOWN_TIMEOUT_SECONDS" envDefault:"10"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
