package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithEnv_FileAndOverrides(t *testing.T) {
	t.Setenv("AUTH_BCRYPTCOST", "6")
	t.Setenv("HTTP_PORT", "9191")

	cfg, err := LoadWithEnv[Config]("app", "testdata")
	require.NoError(t, err)

	assert.Equal(t, "userauth", cfg.Env.ServiceName)
	assert.Equal(t, 9191, cfg.HTTP.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTP.Timeouts.ReadTimeout)
	require.NotNil(t, cfg.Auth)
	assert.Equal(t, 6, cfg.Auth.BcryptCost)
	require.NotNil(t, cfg.PubSub)
	assert.Equal(t, "account-events", cfg.PubSub.TopicID)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	_, err := LoadWithEnv[Config]("absent", "testdata")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.yaml not found")
}

func TestApplyDefaults(t *testing.T) {
	cfg, err := LoadWithEnv[Config]("app", "testdata")
	require.NoError(t, err)

	require.NoError(t, cfg.applyDefaults())

	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, defaultMetricsPath, cfg.Metrics.Path)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestApplyDefaults_StorageDriver(t *testing.T) {
	tests := []struct {
		name    string
		storage *StorageConfig
		wantErr string
	}{
		{name: "postgres without section", storage: nil, wantErr: "postgres section is missing"},
		{name: "unknown driver", storage: &StorageConfig{Driver: "sqlite"}, wantErr: "unsupported storage.driver"},
		{name: "memory", storage: &StorageConfig{Driver: " memory "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Storage: tt.storage}

			err := cfg.applyDefaults()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
		})
	}
}

func TestNewFromFile(t *testing.T) {
	cfg, err := NewFromFile("testdata/app.yaml")
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Nil(t, cfg.Postgres)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
}

func TestNewFromFile_Missing(t *testing.T) {
	_, err := NewFromFile("testdata/absent.yaml")
	assert.Error(t, err)
}
