package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql | postgres | sqlite
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		Path     string `yaml:"path"` // sqlite only
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	// Auth maps API keys to user IDs. The identity provider in front of this
	// service issues the keys; the pipeline only ever sees the user ID.
	Auth struct {
		APIKeys map[string]string `yaml:"apiKeys"` // userID -> key
	} `yaml:"auth"`

	AI struct {
		Provider           string `yaml:"provider"` // openai | gemini
		APIKey             string `yaml:"apiKey"`
		Model              string `yaml:"model"`
		MaxTokens          int    `yaml:"maxTokens"`
		TimeoutSeconds     int    `yaml:"timeoutSeconds"`
		MaxTranscriptChars int    `yaml:"maxTranscriptChars"`
	} `yaml:"ai"`

	Transcript struct {
		Mode           string `yaml:"mode"` // script | http
		PythonBin      string `yaml:"pythonBin"`
		ScriptPath     string `yaml:"scriptPath"`
		APIURL         string `yaml:"apiUrl"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
	} `yaml:"transcript"`

	YouTube struct {
		APIKey         string `yaml:"apiKey"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
	} `yaml:"youtube"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"cors"`

	RateLimit struct {
		PerMinute int `yaml:"perMinute"`
		Burst     int `yaml:"burst"`
	} `yaml:"rateLimit"`
}

// Load reads the YAML config file and applies environment overrides for
// secrets, so keys never have to live in the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if v := os.Getenv("TUBEINSIGHT_AI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		cfg.YouTube.APIKey = v
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Path == "" {
		c.Database.Path = "tubeinsight.db"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.AI.Provider == "" {
		c.AI.Provider = "gemini"
	}
	if c.AI.MaxTokens == 0 {
		c.AI.MaxTokens = 4096
	}
	if c.AI.TimeoutSeconds == 0 {
		c.AI.TimeoutSeconds = 120
	}
	if c.AI.MaxTranscriptChars == 0 {
		c.AI.MaxTranscriptChars = 400000
	}
	if c.Transcript.Mode == "" {
		c.Transcript.Mode = "script"
	}
	if c.Transcript.PythonBin == "" {
		c.Transcript.PythonBin = "python3"
	}
	if c.Transcript.ScriptPath == "" {
		c.Transcript.ScriptPath = "python-backend/transcript.py"
	}
	if c.Transcript.TimeoutSeconds == 0 {
		c.Transcript.TimeoutSeconds = 120
	}
	if c.YouTube.TimeoutSeconds == 0 {
		c.YouTube.TimeoutSeconds = 10
	}
	if c.RateLimit.PerMinute == 0 {
		c.RateLimit.PerMinute = 30
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 5
	}
}

// Helper to build the MySQL DSN
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// Helper to build the Postgres DSN
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AI.TimeoutSeconds) * time.Second
}

func (c *Config) TranscriptTimeout() time.Duration {
	return time.Duration(c.Transcript.TimeoutSeconds) * time.Second
}

func (c *Config) YouTubeTimeout() time.Duration {
	return time.Duration(c.YouTube.TimeoutSeconds) * time.Second
}
