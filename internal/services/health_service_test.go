package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckDegradedWithoutData(t *testing.T) {
	svc := newTestService(t)
	health := NewHealthService("1.0.0", "2026-01-01", svc, testLogger())

	status := health.Check(context.Background())

	assert.Equal(t, "degraded", status.Status)
	assert.False(t, status.Data.RegistersLoaded)
	assert.Nil(t, status.Data.LoadedAt)
	assert.Equal(t, "1.0.0", status.Version)
}

func TestHealthCheckHealthyWithData(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.UseRegisters(fixtureRegisters(), nil))
	health := NewHealthService("1.0.0", "2026-01-01", svc, testLogger())

	status := health.Check(context.Background())

	assert.Equal(t, "healthy", status.Status)
	assert.True(t, status.Data.RegistersLoaded)
	require.NotNil(t, status.Data.LoadedAt)
}
