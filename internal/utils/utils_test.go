package utils

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSNFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			want: "postgres://postgres@localhost:5432/sportsmap?sslmode=disable",
		},
		{
			name: "password escaped",
			env:  map[string]string{"PG_USER": "gis", "PG_PASSWORD": "p@ss/word", "PG_HOST": "db", "PG_DB": "sports", "PG_SSLMODE": "require"},
			want: "postgres://gis:p%40ss%2Fword@db:5432/sports?sslmode=require",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"PG_HOST", "PG_PORT", "PG_USER", "PG_PASSWORD", "PG_DB", "PG_SSLMODE"} {
				t.Setenv(k, tt.env[k])
			}
			assert.Equal(t, tt.want, BuildPostgresDSNFromEnv())
		})
	}
}

func TestEnsureSelfSignedCert(t *testing.T) {
	dir := t.TempDir()
	cert := filepath.Join(dir, "certs", "server.crt")
	key := filepath.Join(dir, "keys", "server.key")
	require.NoError(t, EnsureSelfSignedCert(cert, key, "sportsmap.local"))

	_, err := tls.LoadX509KeyPair(cert, key)
	require.NoError(t, err)
	fi, err := os.Stat(key)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	before, err := os.ReadFile(cert)
	require.NoError(t, err)
	require.NoError(t, EnsureSelfSignedCert(cert, key, "sportsmap.local"))
	after, err := os.ReadFile(cert)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestOpenRedisFromEnv(t *testing.T) {
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "x")
	rc := OpenRedisFromEnv()
	defer rc.Close()
	assert.Equal(t, "redis:6380", rc.Options().Addr)
	assert.Equal(t, 0, rc.Options().DB)
}
