// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort        = "4000"
	DefaultDatabaseURL = "mongodb://127.0.0.1:27017/task_manager"
	DefaultAPIURL      = "http://localhost:4000"
	DefaultWebPort     = "5173"
	DefaultConfigPath  = "config.yml"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Client   ClientConfig   `yaml:"client"`
	Web      WebConfig      `yaml:"web"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Host            string        `yaml:"host"`
	RateLimitRPM    int           `yaml:"rate_limit_rpm"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL            string        `yaml:"url"`
	MaxConnections int32         `yaml:"max_connections"`
	MinConnections int32         `yaml:"min_connections"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

type LoggingConfig struct {
	Development bool `yaml:"development"`
}

// ClientConfig - как UI достучаться до API
type ClientConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type WebConfig struct {
	Port string `yaml:"port"`
	Host string `yaml:"host"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            DefaultPort,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			URL:            DefaultDatabaseURL,
			ConnectTimeout: 10 * time.Second,
		},
		Client: ClientConfig{
			BaseURL: DefaultAPIURL,
			Timeout: 15 * time.Second,
		},
		Web: WebConfig{
			Port: DefaultWebPort,
		},
	}
}

// Load: значения по умолчанию, затем config.yml (если есть), затем .env и переменные окружения
func Load() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultConfigPath
	}
	return LoadFrom(path)
}

func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	switch {
	case err == nil:
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("ошибка парсинга %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("не могу открыть %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("ошибка чтения .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Port, "PORT")
	setString(&c.Server.Host, "HOST")
	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Database.URL, "MONGODB_URI")
	setString(&c.Client.BaseURL, "API_URL")
	setString(&c.Web.Port, "WEB_PORT")

	if env, ok := os.LookupEnv("APP_ENV"); ok {
		c.Logging.Development = strings.EqualFold(env, "development")
	}

	if raw, ok := os.LookupEnv("RATE_LIMIT_RPM"); ok {
		rpm, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_RPM: %w", err)
		}
		c.Server.RateLimitRPM = rpm
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if err := validPort(c.Server.Port); err != nil {
		errs = append(errs, fmt.Errorf("server.port: %w", err))
	}
	if err := validPort(c.Web.Port); err != nil {
		errs = append(errs, fmt.Errorf("web.port: %w", err))
	}
	if c.Database.URL == "" {
		errs = append(errs, errors.New("database.url: пустая строка подключения"))
	}
	if c.Client.BaseURL == "" {
		errs = append(errs, errors.New("client.base_url: пустой адрес API"))
	}
	return errors.Join(errs...)
}

func validPort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("неверный порт %q", port)
	}
	if n < 0 || n > 65535 {
		return fmt.Errorf("порт вне диапазона: %d", n)
	}
	return nil
}

func setString(target *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*target = v
	}
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

func (c *Config) GetWebAddr() string {
	return fmt.Sprintf("%s:%s", c.Web.Host, c.Web.Port)
}
