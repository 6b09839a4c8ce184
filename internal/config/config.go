package config

import (
	"errors"
	"fmt"
	"os"

	"farmrent/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Redis      RedisConfig      `yaml:"redis"`
	Session    SessionConfig    `yaml:"session"`
	Auth       AuthConfig       `yaml:"auth"`
	Pricing    PricingConfig    `yaml:"pricing"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Exports    ExportConfig     `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type ServerConfig struct {
	Port              int `yaml:"port"`
	ReadTimeoutSecs   int `yaml:"read_timeout_secs"`
	WriteTimeoutSecs  int `yaml:"write_timeout_secs"`
	IdleTimeoutSecs   int `yaml:"idle_timeout_secs"`
	ShutdownGraceSecs int `yaml:"shutdown_grace_secs"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type SessionConfig struct {
	TTLSecs int `yaml:"ttl_secs"`
}

type AuthConfig struct {
	Credentials []Credential `yaml:"credentials"`
}

type Credential struct {
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	DisplayName string `yaml:"display_name"`
}

type PricingConfig struct {
	TaxRate float64 `yaml:"tax_rate"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; environment wins over it either way.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Expand ${VAR} references before parsing the YAML.
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Storage.Path == "" {
		return errors.New("storage path is required")
	}

	if c.Pricing.TaxRate < 0 || c.Pricing.TaxRate >= 1 {
		return fmt.Errorf("tax rate %v is out of range", c.Pricing.TaxRate)
	}

	return ValidateCredentials(c.Auth.Credentials)
}

func ValidateCredentials(creds []Credential) error {
	usernames := make(map[string]bool)
	for _, cred := range creds {
		if cred.Username == "" {
			return errors.New("credential with empty username")
		}
		if cred.Password == "" {
			return fmt.Errorf("credential '%s' has empty password", cred.Username)
		}
		if usernames[cred.Username] {
			return fmt.Errorf("duplicate credential username found: %s", cred.Username)
		}
		usernames[cred.Username] = true
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.ReadTimeoutSecs == 0 {
		c.Server.ReadTimeoutSecs = 15
	}
	if c.Server.WriteTimeoutSecs == 0 {
		c.Server.WriteTimeoutSecs = 15
	}
	if c.Server.IdleTimeoutSecs == 0 {
		c.Server.IdleTimeoutSecs = 60
	}
	if c.Server.ShutdownGraceSecs == 0 {
		c.Server.ShutdownGraceSecs = 10
	}
	if c.Session.TTLSecs == 0 {
		c.Session.TTLSecs = models.DefaultSessionTTL
	}
	if c.Pricing.TaxRate == 0 {
		c.Pricing.TaxRate = models.DefaultTaxRate
	}
	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = 50
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 100
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}
