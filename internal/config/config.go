package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"healthwatch/pkg/database"
)

type Config struct {
	Port           string        `mapstructure:"PORT"`
	Env            string        `mapstructure:"ENV"`
	DBHost         string        `mapstructure:"DB_HOST"`
	DBPort         string        `mapstructure:"DB_PORT"`
	DBUser         string        `mapstructure:"DB_USER"`
	DBPassword     string        `mapstructure:"DB_PASSWORD"`
	DBName         string        `mapstructure:"DB_NAME"`
	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	CORSOrigins    []string      `mapstructure:"CORS_ORIGINS"`
	OpenAIAPIKey   string        `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL  string        `mapstructure:"OPENAI_BASE_URL"`
	OpenAIModel    string        `mapstructure:"OPENAI_MODEL"`
	TextGenTimeout time.Duration `mapstructure:"TEXTGEN_TIMEOUT"`
}

var keys = []string{
	"PORT", "ENV",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
	"REDIS_ADDR", "JWT_SECRET", "CORS_ORIGINS",
	"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL", "TEXTGEN_TIMEOUT",
}

// Load reads .env (if present) and the process environment.
// The returned bool reports whether a .env file was found.
func Load() (*Config, bool, error) {
	envFound := godotenv.Load() == nil

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "healthwatch")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("OPENAI_MODEL", "gpt-5")
	v.SetDefault("TEXTGEN_TIMEOUT", "60s")

	for _, k := range keys {
		v.BindEnv(k)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, envFound, fmt.Errorf("unmarshal config: %w", err)
	}

	origins := v.GetString("CORS_ORIGINS")
	if origins != "" {
		cfg.CORSOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	if cfg.JWTSecret == "" && !cfg.IsDev() {
		return nil, envFound, fmt.Errorf("JWT_SECRET is required outside development")
	}
	return cfg, envFound, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) Database() *database.Config {
	return &database.Config{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		DBName:   c.DBName,
	}
}
