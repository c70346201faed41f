package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindAndPreflight(t *testing.T) {
	var c Config
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c.Bind(flags)
	require.NoError(t, flags.Parse([]string{"--pgDatabase=plex", "--redirectPattern=com.plexapp"}))
	require.NoError(t, c.Preflight())
	assert.Equal(t, "localhost", c.Host)
	assert.Equal(t, "plex", c.Database)
	assert.True(t, c.Redirects("/data/com.plexapp.plugins.library.db"))
	assert.False(t, c.Redirects("/data/other.db"))
}

func TestPreflightRejectsBadPort(t *testing.T) {
	c := Config{Host: "localhost", Database: "x", Port: 70000, PoolSize: 1, StmtCacheSize: 1}
	assert.Error(t, c.Preflight())
}

func TestDSN(t *testing.T) {
	c := Config{Host: "db", Port: 5432, Database: "plex", User: "plex", Schema: "public"}
	assert.Equal(t, "host=db port=5432 dbname=plex user=plex search_path=public", c.DSN())
}
