package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "DATABASE_URL", "SESSION_TTL", "ES_URL", "ES_INDEX", "KAFKA_BROKERS", "AUTO_MIGRATE", "COOKIE_SECURE"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, 30*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "products", cfg.ESIndex)
	assert.True(t, cfg.AutoMigrate)
	assert.True(t, cfg.CookieSecure)
	assert.Nil(t, cfg.KafkaBrokers)
}

func TestLoadRequiresSecretWithDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite:shop.db")
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	require.ErrorIs(t, err, ErrInvalidConfig)

	t.Setenv("SESSION_SECRET", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), cfg.SessionSecret)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_CSV", " a, ,b ,")
	t.Setenv("X_DUR", "90")
	t.Setenv("X_DUR_GO", "2h")
	t.Setenv("X_BOOL", "nope")

	assert.Equal(t, []string{"a", "b"}, CSV("  a, ,b ,"))
	assert.Equal(t, 90*time.Second, EnvDurationDefault("X_DUR", time.Minute))
	assert.Equal(t, 2*time.Hour, EnvDurationDefault("X_DUR_GO", time.Minute))
	assert.True(t, EnvBoolDefault("X_BOOL", true))
	assert.Equal(t, 7, EnvIntDefault("X_MISSING_INT", 7))
}
