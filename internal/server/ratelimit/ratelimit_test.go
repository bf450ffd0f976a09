package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/sessions/", Method: "POST", Limit: 3, Window: time.Hour, Burst: 3},
		},
	}
}

func TestLimiter_AllowsWithinBurst(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("1.2.3.4", "/sessions/s1/interview/message", "POST")
		require.True(t, allowed, "request %d within burst", i+1)
		assert.Equal(t, 3, info.Limit)
	}

	allowed, info := l.Allow("1.2.3.4", "/sessions/s1/interview/message", "POST")
	assert.False(t, allowed)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 3; i++ {
		l.Allow("1.2.3.4", "/sessions/s1/interview/message", "POST")
	}
	allowed, _ := l.Allow("5.6.7.8", "/sessions/s1/interview/message", "POST")
	assert.True(t, allowed, "a throttled client must not affect others")
}

func TestLimiter_HealthIsUnlimited(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 1000; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_UnmatchedPathUsesDefault(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultLimit = 2
	l := NewLimiter(cfg)
	defer l.Stop()

	assertAllowed := func(want bool) {
		t.Helper()
		allowed, _ := l.Allow("1.2.3.4", "/positions/pos-1", "GET")
		assert.Equal(t, want, allowed)
	}
	assertAllowed(true)
	assertAllowed(true)
	assertAllowed(false)
}

func TestLimiter_DisabledAllowsEverything(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/sessions/s1/interview/message", "POST")
		require.True(t, allowed)
	}
}

func TestLimiter_TokensRefill(t *testing.T) {
	cfg := &Config{
		Enabled: true,
		EndpointConfigs: []EndpointConfig{
			// 100 per second, burst 1: drains instantly, refills within
			// a few milliseconds.
			{Path: "/sessions/", Method: "POST", Limit: 100, Window: time.Second, Burst: 1},
		},
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
	}
	l := NewLimiter(cfg)
	defer l.Stop()

	allowed, _ := l.Allow("1.2.3.4", "/sessions/s1/interview/message", "POST")
	require.True(t, allowed)
	allowed, _ = l.Allow("1.2.3.4", "/sessions/s1/interview/message", "POST")
	assert.False(t, allowed, "burst exhausted")

	time.Sleep(50 * time.Millisecond)
	allowed, _ = l.Allow("1.2.3.4", "/sessions/s1/interview/message", "POST")
	assert.True(t, allowed, "tokens refilled")
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	cfg := LoadConfig()
	assert.False(t, cfg.Enabled)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
}
