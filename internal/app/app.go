package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/omicsworks/gutmetrics/internal/config"
	"github.com/omicsworks/gutmetrics/internal/registry"
)

// Config holds the fully validated application configuration.
type Config struct {
	PipelinePath    string
	ModulesPath     string
	Task            string
	HealthcheckPort int
	LogFormat       string
	LogLevel        string
	WorkerCount     int
}

// NewConfig validates a raw configuration and applies defaults.
func NewConfig(c Config) (*Config, error) {
	if c.PipelinePath == "" {
		return nil, fmt.Errorf("pipeline path is required")
	}
	if c.ModulesPath == "" {
		c.ModulesPath = "modules"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = 4
	}
	if c.HealthcheckPort < 0 || c.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port %d is out of range", c.HealthcheckPort)
	}
	return &c, nil
}

// App encapsulates the application's dependencies and state.
type App struct {
	config   *Config
	logger   *slog.Logger
	registry *registry.Registry
	loader   config.Loader
}

// NewApp creates and initializes a new instance of the application,
// registering the supplied modules.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) (*App, error) {
	logger, err := newLogger(outW, appConfig.LogFormat, appConfig.LogLevel)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	reg := registry.New()
	for _, m := range modules {
		m.Register(reg)
	}

	return &App{
		config:   appConfig,
		logger:   logger,
		registry: reg,
		loader:   loader,
	}, nil
}

// Logger returns the application's configured logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}
