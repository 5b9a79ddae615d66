// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Browser   BrowserConfig   `mapstructure:"browser" yaml:"browser"`
	Agent     AgentConfig     `mapstructure:"agent" yaml:"agent"`
	Snapshot  SnapshotConfig  `mapstructure:"snapshot" yaml:"snapshot"`
	Presenter PresenterConfig `mapstructure:"presenter" yaml:"presenter"`
	Presets   PresetsConfig   `mapstructure:"presets" yaml:"presets"`
	Speech    SpeechConfig    `mapstructure:"speech" yaml:"speech"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig holds settings for the hosted page's browser instance.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	ExecPath          string        `mapstructure:"exec_path" yaml:"exec_path"`
	Args              []string      `mapstructure:"args" yaml:"args"`
	StartURL          string        `mapstructure:"start_url" yaml:"start_url"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	EvalTimeout       time.Duration `mapstructure:"eval_timeout" yaml:"eval_timeout"`
}

// AgentConfig describes the remote reasoning service endpoint and the fixed
// system instruction sent with every exchange.
type AgentConfig struct {
	Endpoint       string        `mapstructure:"endpoint" yaml:"endpoint"`
	APIKey         string        `mapstructure:"api_key" yaml:"-"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
	ConstantPrompt string        `mapstructure:"constant_prompt" yaml:"constant_prompt"`
}

// SnapshotConfig tunes page-state capture.
type SnapshotConfig struct {
	SettleInterval time.Duration `mapstructure:"settle_interval" yaml:"settle_interval"`
	CaptureTimeout time.Duration `mapstructure:"capture_timeout" yaml:"capture_timeout"`
	ArchiveDir     string        `mapstructure:"archive_dir" yaml:"archive_dir"`
}

// PresenterConfig controls how narrated answers are held on screen.
type PresenterConfig struct {
	// Dwell is the minimum time an answer stays visible. Auto-close fires
	// once both the dwell has elapsed and narration has completed.
	Dwell time.Duration `mapstructure:"dwell" yaml:"dwell"`
}

// PresetsConfig locates the preset store maintained by the outer application.
type PresetsConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// SpeechConfig selects the narration engine.
type SpeechConfig struct {
	Enabled bool     `mapstructure:"enabled" yaml:"enabled"`
	Command string   `mapstructure:"command" yaml:"command"`
	Args    []string `mapstructure:"args" yaml:"args"`
}

const defaultConstantPrompt = "You operate an embedded web page on behalf of the user. " +
	"Answer the user's request using the supplied page snapshot. " +
	"If the request is best served by clicking a page element, reply with the element's " +
	"label or selector wrapped in angle brackets, e.g. <submit-btn>, and nothing else. " +
	"Otherwise reply with a short answer to be read aloud."

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "web-tasks-bot")
	v.SetDefault("logger.log_file", "webtasks.log")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.start_url", "about:blank")
	v.SetDefault("browser.navigation_timeout", "60s")
	v.SetDefault("browser.eval_timeout", "20s")

	// -- Agent --
	v.SetDefault("agent.timeout", "90s")
	v.SetDefault("agent.constant_prompt", defaultConstantPrompt)

	// -- Snapshot --
	v.SetDefault("snapshot.settle_interval", "600ms")
	v.SetDefault("snapshot.capture_timeout", "30s")
	v.SetDefault("snapshot.archive_dir", "")

	// -- Presenter --
	v.SetDefault("presenter.dwell", "6s")

	// -- Presets --
	v.SetDefault("presets.path", "presets.json")

	// -- Speech --
	v.SetDefault("speech.enabled", false)
	v.SetDefault("speech.command", "")
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with defaults only.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	v.BindEnv("agent.api_key", "WEBTASKS_AGENT_API_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if cfg.Agent.APIKey == "" {
		cfg.Agent.APIKey = os.Getenv("WEBTASKS_AGENT_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Snapshot.SettleInterval < 0 {
		return fmt.Errorf("snapshot.settle_interval must not be negative")
	}
	if c.Presenter.Dwell <= 0 {
		return fmt.Errorf("presenter.dwell must be a positive duration")
	}
	if c.Agent.Timeout <= 0 {
		return fmt.Errorf("agent.timeout must be a positive duration")
	}
	if c.Speech.Enabled && c.Speech.Command == "" {
		return fmt.Errorf("speech.command is required when speech is enabled")
	}
	return nil
}
