package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Model struct {
		BaseURL        string `yaml:"baseURL"` // OpenAI-compatible endpoint, e.g. Ollama
		APIKey         string `yaml:"apiKey"`  // local endpoints ignore it, but the client wants one
		Name           string `yaml:"name"`
		MaxTokens      int    `yaml:"maxTokens"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
	} `yaml:"model"`

	Exec struct {
		TimeoutSeconds int `yaml:"timeoutSeconds"`
	} `yaml:"exec"`

	Datasets struct {
		Dir           string `yaml:"dir"` // scanned for *.json when set
		MaxFileSizeMB int    `yaml:"maxFileSizeMB"`
	} `yaml:"datasets"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		Prefix     string `yaml:"prefix"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	Auth struct {
		// tenant -> API key; kosong berarti auth dimatikan
		APIKeys map[string]string `yaml:"apiKeys"`
	} `yaml:"auth"`

	RateLimit struct {
		Capacity   int `yaml:"capacity"`
		RefillRate int `yaml:"refillRate"`
	} `yaml:"rateLimit"`
}

// Load baca file config.yaml
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default defaults sensible for a local Ollama setup.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Model.BaseURL == "" {
		c.Model.BaseURL = "http://localhost:11434/v1"
	}
	if c.Model.APIKey == "" {
		c.Model.APIKey = "ollama"
	}
	if c.Model.Name == "" {
		c.Model.Name = "qwen2.5-coder:1.5b"
	}
	if c.Model.MaxTokens == 0 {
		c.Model.MaxTokens = 2048
	}
	if c.Model.TimeoutSeconds == 0 {
		c.Model.TimeoutSeconds = 60
	}
	if c.Exec.TimeoutSeconds == 0 {
		c.Exec.TimeoutSeconds = 10
	}
	if c.Datasets.MaxFileSizeMB == 0 {
		c.Datasets.MaxFileSizeMB = 20
	}
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 30
	}
	if c.RateLimit.RefillRate == 0 {
		c.RateLimit.RefillRate = 5
	}
}

// ModelTimeout helper
func (c *Config) ModelTimeout() time.Duration {
	return time.Duration(c.Model.TimeoutSeconds) * time.Second
}

// ExecTimeout helper
func (c *Config) ExecTimeout() time.Duration {
	return time.Duration(c.Exec.TimeoutSeconds) * time.Second
}

// MaxDatasetBytes helper
func (c *Config) MaxDatasetBytes() int64 {
	return int64(c.Datasets.MaxFileSizeMB) << 20
}
