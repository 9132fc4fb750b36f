package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // import.timezone must resolve on hosts without a zoneinfo database

	"github.com/spf13/viper"

	"github.com/Veraticus/cnab-must-flow/internal/common"
)

// Default configuration values.
const (
	DefaultDatabasePath = "$HOME/.local/share/cnab/cnab.db"
	DefaultTimezone     = "America/Sao_Paulo"
	DefaultServerAddr   = ":8080"
	DefaultCertDir      = "$HOME/.local/share/cnab/certs"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
)

// Config is the resolved application configuration.
type Config struct {
	Location     *time.Location
	DatabasePath string
	Timezone     string
	ServerAddr   string
	CertDir      string
	LogLevel     string
	LogFormat    string
	TLS          bool
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("import.timezone", DefaultTimezone)
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.tls", false)
	v.SetDefault("server.cert_dir", DefaultCertDir)
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}

// Load reads the configuration from v and resolves derived values such as
// the import time zone.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabasePath: ExpandPath(strings.TrimSpace(v.GetString("database.path"))),
		Timezone:     strings.TrimSpace(v.GetString("import.timezone")),
		ServerAddr:   strings.TrimSpace(v.GetString("server.addr")),
		CertDir:      ExpandPath(strings.TrimSpace(v.GetString("server.cert_dir"))),
		TLS:          v.GetBool("server.tls"),
		LogLevel:     v.GetString("logging.level"),
		LogFormat:    v.GetString("logging.format"),
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = ExpandPath(DefaultDatabasePath)
	}
	if cfg.Timezone == "" {
		cfg.Timezone = DefaultTimezone
	}
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = DefaultServerAddr
	}
	if cfg.CertDir == "" {
		cfg.CertDir = ExpandPath(DefaultCertDir)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: import.timezone %q: %v", common.ErrInvalidConfig, cfg.Timezone, err)
	}
	cfg.Location = loc

	return cfg, nil
}
