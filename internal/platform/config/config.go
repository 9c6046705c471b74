package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App     AppConfig     `yaml:"app"`
	Server  ServerConfig  `yaml:"server"`
	Gateway GatewayConfig `yaml:"gateway"`
	DB      DBConfig      `yaml:"database"`
	Logging LoggingConfig `yaml:"logging"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type ServerConfig struct {
	Port         int      `yaml:"port"`
	CORSOrigins  []string `yaml:"cors_origins"`
	TrustProxies bool     `yaml:"trust_proxies"`
}

type GatewayConfig struct {
	Port      int             `yaml:"port"`
	ServerURL string          `yaml:"server_url"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"` // json or console
	Output   string `yaml:"output"` // stdout, stderr or file
	FilePath string `yaml:"file_path"`
}

// Load reads the YAML config and applies environment overrides. A .env file
// next to the binary is picked up when present; a missing one is not an
// error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyEnv()

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 9090
	}
	if cfg.Gateway.Port == 0 {
		cfg.Gateway.Port = 8080
	}
	if cfg.Gateway.ServerURL == "" {
		cfg.Gateway.ServerURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SHAREIT_DB_HOST"); v != "" {
		c.DB.Host = v
	}
	if v := os.Getenv("SHAREIT_DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.DB.Port = p
		}
	}
	if v := os.Getenv("SHAREIT_DB_USER"); v != "" {
		c.DB.Username = v
	}
	if v := os.Getenv("SHAREIT_DB_PASSWORD"); v != "" {
		c.DB.Password = v
	}
	if v := os.Getenv("SHAREIT_DB_NAME"); v != "" {
		c.DB.DBName = v
	}
	if v := os.Getenv("SHAREIT_SERVER_URL"); v != "" {
		c.Gateway.ServerURL = v
	}
}
