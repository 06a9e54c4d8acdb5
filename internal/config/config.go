package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Drivers de almacenamiento soportados para el historial de conversaciones.
const (
	StoreDriverMemory   = "memory"
	StoreDriverBolt     = "bolt"
	StoreDriverRedis    = "redis"
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

// Config centraliza la configuración del servicio y del cliente CLI.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	// LLMAPIKey es opcional: su ausencia se detecta en tiempo de ejecucion
	// y se reporta como texto de error en la traduccion o el resumen.
	LLMAPIKey  string `env:"LLM_API_KEY"`
	LLMBaseURL string `env:"LLM_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	LLMModel   string `env:"LLM_MODEL" envDefault:"llama-3.1-8b-instant"`

	StoreDriver    string `env:"STORE_DRIVER" envDefault:"bolt"`
	StorePath      string `env:"STORE_PATH" envDefault:"data/visits.bolt"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"data/visits.db"`
	DatabaseURL    string `env:"DATABASE_URL"`
	RedisAddr      string `env:"REDIS_ADDR"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	RedisDB        int    `env:"REDIS_DB" envDefault:"0"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"visits:"`

	// RedisTimeout limita cada Get/Set; las listas de mensajes llevan audio en base64.
	RedisTimeout time.Duration `env:"REDIS_TIMEOUT" envDefault:"5s"`

	// Cliente CLI: URL del servicio y archivo local donde guarda su historial.
	APIBaseURL     string `env:"API_BASE_URL" envDefault:"http://localhost:8080"`
	LocalStorePath string `env:"LOCAL_STORE_PATH" envDefault:"data/local.bolt"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
