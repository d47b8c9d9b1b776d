package config_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dkarpov/playerledger/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(discardLogger())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 5, cfg.Pool.Size)
	assert.Equal(t, 5*time.Second, cfg.Pool.ReleaseTimeout)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "audit.log", cfg.AuditPath)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("POOL_SIZE", "12")
	t.Setenv("POOL_RELEASE_TIMEOUT", "250ms")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := config.Load(discardLogger())
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Pool.Size)
	assert.Equal(t, 250*time.Millisecond, cfg.Pool.ReleaseTimeout)
	assert.Equal(t, "from-env", cfg.Jwt.Secret)
}
