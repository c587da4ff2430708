package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_TTL_HOURS", "")
	t.Setenv("GATEWAY_DELAY_MS", "")
	cfg := LoadConfig()
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 100*time.Millisecond, cfg.GatewayDelay)
	assert.False(t, cfg.IsProd)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SESSION_TTL_HOURS", "2")
	t.Setenv("GATEWAY_DELAY_MS", "0")
	t.Setenv("IS_PROD", "true")
	cfg := LoadConfig()
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Duration(0), cfg.GatewayDelay)
	assert.True(t, cfg.IsProd)
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBUser: "app", DBPassword: "pw", DBHost: "localhost", DBPort: "3306", DBName: "gamerash"}
	assert.Equal(t, "app:pw@tcp(localhost:3306)/gamerash?parseTime=true", cfg.DSN())
}
