package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the server needs at startup
type Config struct {
	Server ServerConfig `yaml:"server"`
	Web    WebConfig    `yaml:"web"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// 0 disables the deadline
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// e.g. "64k"; empty means unlimited
	MaxBodySize string `yaml:"max_body_size"`
}

type WebConfig struct {
	// Empty serves the embedded webapp.
	DocumentRoot string `yaml:"document_root"`
}

type LogConfig struct {
	Color bool `yaml:"color"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			MaxBodySize: "64k",
		},
		Log: LogConfig{Color: true},
	}
}

// Load builds the config from defaults, the YAML file at path (skipped when
// path is empty) and then the environment.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.Server.Host = getEnvOrDefault("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvAsIntOrDefault("PORT", cfg.Server.Port)
	cfg.Web.DocumentRoot = getEnvOrDefault("DOCUMENT_ROOT", cfg.Web.DocumentRoot)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if _, err := c.MaxBodyBytes(); err != nil {
		return err
	}
	return nil
}

func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// MaxBodyBytes returns the request body limit, 0 when unlimited.
func (c *Config) MaxBodyBytes() (int, error) {
	if c.Server.MaxBodySize == "" {
		return 0, nil
	}
	return sizeToInt(c.Server.MaxBodySize)
}

func (c *Config) WorkerOptions() WorkerOptions {
	limit, _ := c.MaxBodyBytes()
	return WorkerOptions{
		ReadTimeout:  c.Server.ReadTimeout,
		WriteTimeout: c.Server.WriteTimeout,
		MaxBodySize:  limit,
	}
}

var units = map[byte]int{
	'k': 1024,
	'm': 1024 * 1024,
	'g': 1024 * 1024 * 1024,
}

func sizeToInt(s string) (int, error) {
	if len(s) == 0 {
		return 0, fmt.Errorf("invalid size")
	}
	var err error
	var m, sz int
	m, ok := units[s[len(s)-1]]
	if ok {
		sz, err = strconv.Atoi(s[:len(s)-1])
	} else {
		m = 1
		sz, err = strconv.Atoi(s)
	}
	if err != nil || sz < 0 {
		return 0, fmt.Errorf("invalid size: %q", s)
	}
	return sz * m, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
