package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	base := map[string]string{
		"APP_ENV":             "local",
		"STORAGE_DRIVER":      "memory",
		"AUTH_PROVIDER":       "jwt",
		"JWT_PUBLIC_KEY_PATH": "./keys/public.pem",
		"PROFILE_CACHE_TTL":   "10m",
		"DB_URL":              "",
		"FIREBASE_PROJECT_ID": "",
	}
	for k, v := range kv {
		base[k] = v
	}
	for k, v := range base {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, map[string]string{"CORS_ALLOWED_ORIGINS": " http://a.io , ,http://b.io"})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, AuthJWT, cfg.AuthProvider)
	assert.Equal(t, 10*time.Minute, cfg.ProfileCacheTTL)
	assert.Equal(t, []string{"http://a.io", "http://b.io"}, cfg.CORSAllowedOrigins)
}

func TestLoad_DriverNamesAreCaseInsensitive(t *testing.T) {
	setEnv(t, map[string]string{"STORAGE_DRIVER": "Postgres", "DB_URL": "postgres://localhost/imago"})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	setEnv(t, map[string]string{"PROFILE_CACHE_TTL": "soon"})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.ProfileCacheTTL)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"memory in prod", map[string]string{"APP_ENV": "prod"}},
		{"unknown storage", map[string]string{"STORAGE_DRIVER": "sqlite"}},
		{"postgres without url", map[string]string{"STORAGE_DRIVER": "postgres"}},
		{"mongo without db", map[string]string{"STORAGE_DRIVER": "mongo", "MONGO_DB": ""}},
		{"unknown auth", map[string]string{"AUTH_PROVIDER": "saml"}},
		{"jwt without key", map[string]string{"JWT_PUBLIC_KEY_PATH": ""}},
		{"firebase without project", map[string]string{"AUTH_PROVIDER": "firebase"}},
		{"zero ttl", map[string]string{"PROFILE_CACHE_TTL": "0s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
