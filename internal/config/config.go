package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"todolist/internal/models"
)

const DefaultPath = "config/config.yaml"

type FilesConfig struct {
	RootDir  string `yaml:"root_dir"`
	FontPath string `yaml:"font_path"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
	Users     []models.User `yaml:"users"`
}

// Enabled reports whether API calls require a bearer token.
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != ""
}

type EmailConfig struct {
	SMTPHost     string   `yaml:"smtp_host"`
	SMTPPort     int      `yaml:"smtp_port"`
	SMTPUser     string   `yaml:"smtp_user"`
	SMTPPassword string   `yaml:"smtp_password"`
	FromEmail    string   `yaml:"from_email"`
	To           []string `yaml:"to"`
}

func (e EmailConfig) Enabled() bool {
	return e.SMTPHost != "" && len(e.To) > 0
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

func (t TelegramConfig) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

type DigestConfig struct {
	Enabled bool   `yaml:"enabled"`
	At      string `yaml:"at"` // HH:MM, server local time
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"` // postgres | sqlite | "" (in-memory)
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`
	Pagination struct {
		DefaultSize int `yaml:"default_size"`
		MaxSize     int `yaml:"max_size"`
	} `yaml:"pagination"`
	Auth     AuthConfig     `yaml:"auth"`
	Email    EmailConfig    `yaml:"email"`
	Telegram TelegramConfig `yaml:"telegram"`
	Digest   DigestConfig   `yaml:"digest"`
	Files    FilesConfig    `yaml:"files"`
}

// LoadConfig reads the YAML file at path. A missing file yields the defaults.
// Environment variables override the file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	var cfg Config
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := strings.TrimSpace(os.Getenv("TODOLIST_DB_DRIVER")); v != "" {
		c.Database.Driver = v
	}
	if v := strings.TrimSpace(os.Getenv("TODOLIST_DB_DSN")); v != "" {
		c.Database.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("TODOLIST_JWT_SECRET")); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := strings.TrimSpace(os.Getenv("TODOLIST_TELEGRAM_TOKEN")); v != "" {
		c.Telegram.Token = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Pagination.DefaultSize <= 0 {
		c.Pagination.DefaultSize = 10
	}
	if c.Pagination.MaxSize < c.Pagination.DefaultSize {
		c.Pagination.MaxSize = 100
		if c.Pagination.MaxSize < c.Pagination.DefaultSize {
			c.Pagination.MaxSize = c.Pagination.DefaultSize
		}
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = 12 * time.Hour
	}
	if c.Digest.At == "" {
		c.Digest.At = "08:00"
	}
	if c.Files.RootDir == "" {
		c.Files.RootDir = "./files"
	}
}
