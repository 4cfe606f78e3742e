package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"flashdesk/internal/instance"
	"flashdesk/internal/logger"
)

const (
	FileName = "flashdesk.toml"

	EnvLogLevel = "FLASHDESK_LOG_LEVEL"
	EnvDebug    = "FLASHDESK_DEBUG"
	EnvJSONLogs = "FLASHDESK_JSON_LOGS"
)

type Config struct {
	AppTag         string
	// SocketDir holds the channel socket. Empty means $XDG_RUNTIME_DIR,
	// then the temp dir. Windows uses named pipes and ignores it.
	SocketDir      string
	ConnectTimeout time.Duration
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	LogLevel       zerolog.Level
	JSONLogs       bool
}

type fileConfig struct {
	AppTag         string `toml:"app_tag"`
	SocketDir      string `toml:"socket_dir"`
	ConnectTimeout string `toml:"connect_timeout"`
	WriteTimeout   string `toml:"write_timeout"`
	ReadTimeout    string `toml:"read_timeout"`
	LogLevel       string `toml:"log_level"`
	JSONLogs       bool   `toml:"json_logs"`
}

func Default() Config {
	return Config{
		AppTag:         instance.DefaultTag,
		ConnectTimeout: 5 * time.Second,
		WriteTimeout:   5 * time.Second,
		ReadTimeout:    5 * time.Second,
		LogLevel:       zerolog.InfoLevel,
	}
}

// DefaultBase is the per-user folder used when --base is not given.
func DefaultBase() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, instance.DefaultTag)
}

// DefaultPath is the config file looked up under the base folder.
func DefaultPath(base string) string {
	return filepath.Join(base, FileName)
}

// Load reads path over the defaults and applies env overrides. When the
// file is the implicit default, a missing file is not an error.
func Load(path string, explicit bool) (Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
		cfg = Default()
	}
	ApplyEnv(&cfg)
	return cfg, cfg.Validate()
}

func LoadFile(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	if meta.IsDefined("app_tag") {
		cfg.AppTag = strings.TrimSpace(raw.AppTag)
	}

	if meta.IsDefined("socket_dir") {
		cfg.SocketDir = strings.TrimSpace(raw.SocketDir)
	}

	for _, d := range []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"connect_timeout", raw.ConnectTimeout, &cfg.ConnectTimeout},
		{"write_timeout", raw.WriteTimeout, &cfg.WriteTimeout},
		{"read_timeout", raw.ReadTimeout, &cfg.ReadTimeout},
	} {
		if !meta.IsDefined(d.key) {
			continue
		}
		v, err := time.ParseDuration(strings.TrimSpace(d.raw))
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", d.key, err)
		}
		*d.dst = v
	}

	if meta.IsDefined("log_level") {
		lvl, ok := logger.ParseLevel(raw.LogLevel)
		if !ok {
			return Config{}, fmt.Errorf("parse log_level: unknown level %q", raw.LogLevel)
		}
		cfg.LogLevel = lvl
	}

	if meta.IsDefined("json_logs") {
		cfg.JSONLogs = raw.JSONLogs
	}

	return cfg, nil
}

// ApplyEnv lets the environment override the file, the same knobs the
// log setup has always honoured.
func ApplyEnv(cfg *Config) {
	if lvl, ok := logger.ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.LogLevel = lvl
	} else if os.Getenv(EnvDebug) == "1" {
		cfg.LogLevel = zerolog.DebugLevel
	}
	if os.Getenv(EnvJSONLogs) == "true" {
		cfg.JSONLogs = true
	}
}

func (c Config) Validate() error {
	if c.AppTag == "" {
		return errors.New("config: app_tag must not be empty")
	}
	if strings.ContainsAny(c.AppTag, `/\`) {
		return fmt.Errorf("config: app_tag %q must not contain path separators", c.AppTag)
	}
	for name, d := range map[string]time.Duration{
		"connect_timeout": c.ConnectTimeout,
		"write_timeout":   c.WriteTimeout,
		"read_timeout":    c.ReadTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("config: %s must be positive, got %s", name, d)
		}
	}
	// the user name only feeds a fixed-length digest, so any user gives
	// the same address length
	if err := instance.NewChannel(c.AppTag, "", c.SocketDir).Validate(); err != nil {
		return fmt.Errorf("config: app_tag or socket_dir too long: %w", err)
	}
	return nil
}

// InstanceOptions binds the coordinator to user's channel.
func (c Config) InstanceOptions(user string) instance.Options {
	return instance.Options{
		Channel:        instance.NewChannel(c.AppTag, user, c.SocketDir),
		ConnectTimeout: c.ConnectTimeout,
		WriteTimeout:   c.WriteTimeout,
		ReadTimeout:    c.ReadTimeout,
	}
}

// Logger builds the process logger: console lines by default, JSON on request.
func (c Config) Logger() logger.Logger {
	if c.JSONLogs {
		return logger.New(os.Stderr, c.LogLevel)
	}
	return logger.NewConsole(c.LogLevel)
}
