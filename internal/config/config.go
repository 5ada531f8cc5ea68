package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	CacheBackendMemory   = "memory"
	CacheBackendRedis    = "redis"
	CacheBackendPostgres = "postgres"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort               string `env:"HTTP_PORT" envDefault:"8080"`
	UpstreamBaseURL        string `env:"UPSTREAM_BASE_URL,required,notEmpty"`
	UpstreamTimeoutSeconds int    `env:"UPSTREAM_TIMEOUT_SECONDS" envDefault:"15"`
	SessionSecret          string `env:"SESSION_SECRET"`
	LLMAPIKey              string `env:"LLM_API_KEY"`
	LLMBaseURL             string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel               string `env:"LLM_MODEL" envDefault:"gpt-5.1"`
	CacheBackend           string `env:"CACHE_BACKEND" envDefault:"memory"`
	RedisAddr              string `env:"REDIS_ADDR"`
	RedisPassword          string `env:"REDIS_PASSWORD"`
	RedisDB                int    `env:"REDIS_DB" envDefault:"0"`
	DatabaseURL            string `env:"DATABASE_URL"`
}

// UpstreamTimeout devuelve el timeout del cliente upstream como duración.
func (c *Config) UpstreamTimeout() time.Duration {
	if c.UpstreamTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.UpstreamTimeoutSeconds) * time.Second
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
