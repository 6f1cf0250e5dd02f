package config

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"
	"github.com/termsql/termsql/alert"
	"xorkevin.dev/kerrors"
)

var (
	// ErrInvalid is returned for an invalid config
	ErrInvalid errInvalid
	// ErrNotFound is returned when a named connection does not exist
	ErrNotFound errNotFound
)

type (
	errInvalid  struct{}
	errNotFound struct{}
)

func (e errInvalid) Error() string {
	return "Invalid config"
}

func (e errNotFound) Error() string {
	return "Connection not found"
}

// Connection describes one configured database connection.
type Connection struct {
	Name     string            `mapstructure:"name"`
	Type     string            `mapstructure:"type"`
	Host     string            `mapstructure:"host"`
	Port     int               `mapstructure:"port"`
	User     string            `mapstructure:"user"`
	Password string            `mapstructure:"password"`
	Database string            `mapstructure:"database"`
	Path     string            `mapstructure:"path"`
	Token    string            `mapstructure:"token"`
	SSLMode  string            `mapstructure:"sslmode"`
	Options  map[string]string `mapstructure:"options"`
}

// Settings holds client-wide settings.
type Settings struct {
	AlertMode   string       `mapstructure:"alert_mode"`
	MaxRows     int          `mapstructure:"max_rows"`
	HistoryDir  string       `mapstructure:"history_dir"`
	Connections []Connection `mapstructure:"connections"`
}

// Default settings used when the config file does not set them.
const (
	DefaultAlertMode = "delete"
	DefaultMaxRows   = 1000
)

// Load reads settings from cfgFile, or from the default search paths when
// cfgFile is empty. A missing config file yields default settings.
func Load(cfgFile string) (*Settings, error) {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".termsql")
		v.AddConfigPath(".")
		if cfgdir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(cfgdir)
		}
	}

	v.SetEnvPrefix("TERMSQL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))

	v.SetDefault("alert_mode", DefaultAlertMode)
	v.SetDefault("max_rows", DefaultMaxRows)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, kerrors.WithKind(err, ErrInvalid, "Failed to read config")
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, kerrors.WithKind(err, ErrInvalid, "Malformed config")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks settings for consistency.
func (s *Settings) Validate() error {
	if _, ok := alert.ParseMode(s.AlertMode); !ok {
		return kerrors.WithKind(nil, ErrInvalid, "Unknown alert mode: "+s.AlertMode)
	}
	if s.MaxRows < 0 {
		return kerrors.WithKind(nil, ErrInvalid, "max_rows must not be negative")
	}
	seen := map[string]struct{}{}
	for _, c := range s.Connections {
		if c.Name == "" {
			return kerrors.WithKind(nil, ErrInvalid, "Connection missing name")
		}
		if _, ok := seen[c.Name]; ok {
			return kerrors.WithKind(nil, ErrInvalid, "Duplicate connection name: "+c.Name)
		}
		seen[c.Name] = struct{}{}
		if c.Type == "" {
			return kerrors.WithKind(nil, ErrInvalid, "Connection "+c.Name+" missing type")
		}
	}
	return nil
}

// AlertModeValue returns the parsed alert mode.
func (s *Settings) AlertModeValue() alert.Mode {
	mode, _ := alert.ParseMode(s.AlertMode)
	return mode
}

// Connection returns the named connection.
func (s *Settings) Connection(name string) (*Connection, error) {
	for i := range s.Connections {
		if s.Connections[i].Name == name {
			return &s.Connections[i], nil
		}
	}
	return nil, kerrors.WithKind(nil, ErrNotFound, "No connection named "+name)
}
