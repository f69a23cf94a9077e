package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"stocklens/pkg/inference"

	"gopkg.in/yaml.v3"
)

type Service struct {
	BaseURL string `yaml:"base_url"`
	Method  string `yaml:"method"`
	Path    string `yaml:"path"`
}

type Services struct {
	Prediction Service `yaml:"prediction"`
	Sentiment  Service `yaml:"sentiment"`
	Relevance  Service `yaml:"relevance"`
	Feed       Service `yaml:"feed"`
	Summary    Service `yaml:"summary"`
}

type Config struct {
	ListenAddr     string        `yaml:"listen_addr"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	LogLevel       string        `yaml:"log_level"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
	SweepInterval  time.Duration `yaml:"sweep_interval"`
	SummaryShape   string        `yaml:"summary_shape"`
	Services       Services      `yaml:"services"`
}

// Path returns the config file location from STOCKLENS_CONFIG or the default.
func Path() string {
	if path := os.Getenv("STOCKLENS_CONFIG"); path != "" {
		return path
	}
	return "./config.yaml"
}

// Load reads the YAML file at path, fills in defaults and applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Info("config file not found, using defaults", "path", path)
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	applyDefaults(cfg)
	applyEnvironmentOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.SummaryShape == "" {
		cfg.SummaryShape = string(inference.ShapeDetailed)
	}

	defaults := inference.DefaultEndpoints()
	fillService(&cfg.Services.Prediction, defaults.Prediction)
	fillService(&cfg.Services.Sentiment, defaults.Sentiment)
	fillService(&cfg.Services.Relevance, defaults.Relevance)
	fillService(&cfg.Services.Feed, defaults.Feed)
	fillService(&cfg.Services.Summary, defaults.Summary)
}

func fillService(s *Service, def inference.Endpoint) {
	if s.BaseURL == "" {
		s.BaseURL = def.BaseURL
	}
	if s.Method == "" {
		s.Method = def.Method
	}
	if s.Path == "" {
		s.Path = def.Path
	}
}

func applyEnvironmentOverrides(cfg *Config) {
	if addr := os.Getenv("LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, frontendURL)
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if shape := os.Getenv("SUMMARY_SHAPE"); shape != "" {
		cfg.SummaryShape = shape
	}
	if u := os.Getenv("PREDICTION_URL"); u != "" {
		// sentiment and relevance live on the same service
		cfg.Services.Prediction.BaseURL = u
		cfg.Services.Sentiment.BaseURL = u
		cfg.Services.Relevance.BaseURL = u
	}
	if u := os.Getenv("FEED_URL"); u != "" {
		cfg.Services.Feed.BaseURL = u
	}
	if u := os.Getenv("SUMMARY_URL"); u != "" {
		cfg.Services.Summary.BaseURL = u
	}
}

func validate(cfg *Config) error {
	if _, err := inference.ParseSummaryShape(cfg.SummaryShape); err != nil {
		return err
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	if cfg.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative, got %s", cfg.RequestTimeout)
	}
	if cfg.SessionTTL < 0 {
		return fmt.Errorf("session_ttl must not be negative, got %s", cfg.SessionTTL)
	}
	if cfg.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval must be positive, got %s", cfg.SweepInterval)
	}

	services := map[string]Service{
		"prediction": cfg.Services.Prediction,
		"sentiment":  cfg.Services.Sentiment,
		"relevance":  cfg.Services.Relevance,
		"feed":       cfg.Services.Feed,
		"summary":    cfg.Services.Summary,
	}
	for name, s := range services {
		u, err := url.Parse(s.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("services.%s.base_url must be an http(s) URL, got %q", name, s.BaseURL)
		}
	}
	return nil
}

func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", level)
	}
	return l, nil
}

func (c *Config) Shape() inference.SummaryShape {
	shape, _ := inference.ParseSummaryShape(c.SummaryShape)
	return shape
}

func (c *Config) Endpoints() inference.Endpoints {
	return inference.Endpoints{
		Prediction: c.Services.Prediction.endpoint(),
		Sentiment:  c.Services.Sentiment.endpoint(),
		Relevance:  c.Services.Relevance.endpoint(),
		Feed:       c.Services.Feed.endpoint(),
		Summary:    c.Services.Summary.endpoint(),
	}
}

func (s Service) endpoint() inference.Endpoint {
	return inference.Endpoint{BaseURL: s.BaseURL, Method: s.Method, Path: s.Path}
}
