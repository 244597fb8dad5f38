package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammad-o98/Bike-Accidents-GB/internal/config"
)

func testPaths(t *testing.T) config.Paths {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.CacheFile = filepath.Join(t.TempDir(), "cache.parquet")
	return cfg.Paths
}

func TestHealthCheck(t *testing.T) {
	hs := NewHealthService("1.0.0", "", testPaths(t), nil, nil)

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.0.0", status.Version)
	assert.False(t, status.Timestamp.IsZero())
}

func TestReadinessCheckNotReadyWithoutCache(t *testing.T) {
	hs := NewHealthService("1.0.0", "", testPaths(t), nil, nil)

	status := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", status.Status)

	cacheHealth, ok := status.Services["cache"].(ServiceHealth)
	require.True(t, ok)
	assert.Equal(t, "not_ready", cacheHealth.Status)
}

func TestReadinessCheckReady(t *testing.T) {
	svc, cfg := newTestService(t)
	require.NoError(t, svc.LoadDataset(context.Background()))

	hs := NewHealthService("1.0.0", "", cfg.Paths, svc, nil)
	status := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "ready", status.Status)
}

func TestLivenessCheck(t *testing.T) {
	hs := NewHealthService("1.0.0", "", testPaths(t), nil, nil)

	status := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", status.Status)
	assert.Contains(t, status.Runtime, "go_version")
}

func TestVersionIncludesBuildTime(t *testing.T) {
	hs := NewHealthService("1.0.0", "2026-08-31T00:00:00Z", testPaths(t), nil, nil)

	info := hs.Version()
	assert.Equal(t, "1.0.0", info["version"])
	assert.Equal(t, "2026-08-31T00:00:00Z", info["build_time"])
}
