package config

import (
	"flag"
	"net"
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Host            string
	Port            int
	ReadTimeout     int // seconds
	WriteTimeout    int // seconds
	MaxConns        int
	MaxRequestBytes int
	TemplateDir     string
	Database        string
	Env             string
}

// New loads configuration from flags, then lets LIVEROCKET_* environment
// variables override.
func New() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.Host, "host", "localhost", "Listen host")
	flag.IntVar(&cfg.Port, "port", 8000, "Listen port")
	flag.IntVar(&cfg.ReadTimeout, "read-timeout", 10, "Read timeout (seconds)")
	flag.IntVar(&cfg.WriteTimeout, "write-timeout", 10, "Write timeout (seconds)")
	flag.IntVar(&cfg.MaxConns, "max-conns", 1024, "Max concurrent connections")
	flag.IntVar(&cfg.MaxRequestBytes, "max-request-bytes", 1<<20, "Max request size")
	flag.StringVar(&cfg.TemplateDir, "templates", "templates", "Template directory")
	flag.StringVar(&cfg.Database, "database", "live_rocket.db", "SQLite database path")
	flag.StringVar(&cfg.Env, "env", "development", "Environment (development/production)")

	flag.Parse()

	envString("LIVEROCKET_HOST", &cfg.Host)
	envInt("LIVEROCKET_PORT", &cfg.Port)
	envInt("LIVEROCKET_MAX_CONNS", &cfg.MaxConns)
	envString("LIVEROCKET_TEMPLATES", &cfg.TemplateDir)
	envString("LIVEROCKET_DATABASE", &cfg.Database)
	envString("LIVEROCKET_ENV", &cfg.Env)

	return cfg
}

// Addr returns the host:port pair to bind.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
