package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	SearchModeLocal  = "local"
	SearchModeRemote = "remote"
)

// ErrInvalid is wrapped by validation failures.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Env        string     `yaml:"env" env:"APP_ENV" env-default:"local"`
	HTTPServer HTTPServer `yaml:"http_server"`
	API        API        `yaml:"api"`
	Page       Page       `yaml:"page"`
	Report     Report     `yaml:"report"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"120s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type API struct {
	BaseURL     string        `yaml:"base_url" env:"API_BASE_URL" env-default:"https://javascriptbackend-5115.onrender.com/api/articles"`
	Timeout     time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"30s"`
	SearchMode  string        `yaml:"search_mode" env:"API_SEARCH_MODE" env-default:"local"`
	SearchParam string        `yaml:"search_param" env:"API_SEARCH_PARAM" env-default:"q"`
	MinInterval time.Duration `yaml:"min_interval" env:"API_MIN_INTERVAL" env-default:"500ms"`
	UserAgent   string        `yaml:"user_agent" env:"API_USER_AGENT" env-default:"plos-articles/1.0"`
}

type Page struct {
	Title    string `yaml:"title" env:"PAGE_TITLE" env-default:"PLOS Articles"`
	Intro    string `yaml:"intro" env:"PAGE_INTRO"`
	PageSize int    `yaml:"page_size" env:"PAGE_SIZE" env-default:"25"`
	Lazy     bool   `yaml:"lazy" env:"PAGE_LAZY" env-default:"false"`
}

type Report struct {
	FileName string  `yaml:"file_name" env:"REPORT_FILE_NAME" env-default:"plos_report.pdf"`
	Title    string  `yaml:"title" env:"REPORT_TITLE" env-default:"PLOS Articles Report"`
	FontSize float64 `yaml:"font_size" env:"REPORT_FONT_SIZE" env-default:"12"`
}

// Load reads the config file at path, or only the environment when path is empty.
// Priority: env > file > defaults.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%s: config file: %w", op, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(ResolvePath(path))
	if err != nil {
		panic("error loading config: " + err.Error())
	}
	return cfg
}

// ResolvePath picks the config path.
// Priority: flag > CONFIG_PATH env > none (environment and defaults only).
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("CONFIG_PATH")
}

func (c *Config) Validate() error {
	switch c.API.SearchMode {
	case SearchModeLocal, SearchModeRemote:
	default:
		return fmt.Errorf("%w: unknown search mode %q", ErrInvalid, c.API.SearchMode)
	}

	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url is required", ErrInvalid)
	}
	if c.API.SearchParam == "" {
		return fmt.Errorf("%w: api.search_param is required", ErrInvalid)
	}
	if c.Page.PageSize <= 0 {
		return fmt.Errorf("%w: page.page_size must be positive", ErrInvalid)
	}
	if c.Report.FontSize <= 0 {
		return fmt.Errorf("%w: report.font_size must be positive", ErrInvalid)
	}

	return nil
}
