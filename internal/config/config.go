// Package config holds the record the core consumes once at
// initialization: Engine-R connection parameters, the redirect-decision
// path patterns, pool sizing, and the optional cache/log/collation
// settings named in the upward interface.
package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Config is the user-visible configuration for the translator core.
type Config struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	Schema   string

	// RedirectPatterns lists substrings of an Engine-L-visible database
	// path; any path containing one of these is redirected to Engine-R.
	// An empty list redirects nothing.
	RedirectPatterns []string

	PoolSize int

	QueryCacheTTL       time.Duration
	StmtCacheSize       int
	LogVerbosity        string
	RedirectedCollation []string
}

// Bind registers flags for every Config field.
func (c *Config) Bind(flags *pflag.FlagSet) {
	flags.StringVar(&c.Host, "pgHost", "localhost", "Engine-R host")
	flags.IntVar(&c.Port, "pgPort", 5432, "Engine-R port")
	flags.StringVar(&c.Database, "pgDatabase", "", "Engine-R database name")
	flags.StringVar(&c.User, "pgUser", "", "Engine-R user")
	flags.StringVar(&c.Password, "pgPassword", "", "Engine-R password")
	flags.StringVar(&c.Schema, "pgSchema", "public", "Engine-R schema search path")

	flags.StringSliceVar(
		&c.RedirectPatterns,
		"redirectPattern",
		nil,
		"a substring of an Engine-L database path that should be redirected to Engine-R; may be repeated")

	flags.IntVar(&c.PoolSize, "poolSize", 8, "bound on the number of pooled Engine-R sessions")

	flags.DurationVar(&c.QueryCacheTTL, "queryCacheTTL", 2*time.Second,
		"TTL for the short-lived read-only result cache; 0 or less selects the 2s default rather than disabling it")
	flags.IntVar(&c.StmtCacheSize, "stmtCacheSize", 256,
		"per-lease prepared-statement cache capacity")
	flags.StringVar(&c.LogVerbosity, "logVerbosity", "info", "log level")
	flags.StringSliceVar(&c.RedirectedCollation, "redirectedCollation", nil,
		"collation names the host may request via create_collation; unknown names are rejected with MISUSE")
}

// Preflight validates the configuration after flags have been parsed.
func (c *Config) Preflight() error {
	if c.Host == "" {
		return errors.New("pgHost unset")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.Errorf("pgPort out of range: %d", c.Port)
	}
	if c.Database == "" {
		return errors.New("pgDatabase unset")
	}
	if c.PoolSize <= 0 {
		return errors.New("poolSize must be positive")
	}
	if c.StmtCacheSize <= 0 {
		return errors.New("stmtCacheSize must be positive")
	}
	if c.QueryCacheTTL < 0 {
		return errors.New("queryCacheTTL must not be negative")
	}
	return nil
}

// Redirects reports whether path should be redirected to Engine-R.
func (c *Config) Redirects(path string) bool {
	for _, pattern := range c.RedirectPatterns {
		if pattern != "" && strings.Contains(path, pattern) {
			return true
		}
	}
	return false
}

// DSN builds the pgx connection string from the configuration.
func (c *Config) DSN() string {
	var b strings.Builder
	b.WriteString("host=")
	b.WriteString(c.Host)
	b.WriteString(" port=")
	b.WriteString(strconv.Itoa(c.Port))
	b.WriteString(" dbname=")
	b.WriteString(c.Database)
	if c.User != "" {
		b.WriteString(" user=")
		b.WriteString(c.User)
	}
	if c.Password != "" {
		b.WriteString(" password=")
		b.WriteString(c.Password)
	}
	if c.Schema != "" {
		b.WriteString(" search_path=")
		b.WriteString(c.Schema)
	}
	return b.String()
}
