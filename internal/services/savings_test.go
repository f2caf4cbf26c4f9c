package services

import (
	"testing"

	"dispatch-planning-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	origin = domain.Location{ID: "depot"}
	east1  = domain.Location{ID: "e1", Lng: 0.01}
	west1  = domain.Location{ID: "w1", Lng: -0.01}
	east2  = domain.Location{ID: "e2", Lng: 0.02}
)

func TestCalculateSavingsSameSequence(t *testing.T) {
	seq := []domain.Location{origin, east1, west1, east2}

	s, err := CalculateSavings(seq, seq)
	require.NoError(t, err)

	assert.Zero(t, s.DistanceSaved)
	assert.Zero(t, s.TimeSaved)
	assert.Zero(t, s.PercentSaved)
	assert.Equal(t, s.OriginalDistanceKm, s.OptimizedDistanceKm)
}

func TestCalculateSavings(t *testing.T) {
	// Legs in units of 0.01 degrees of longitude: 1+2+3 against 1+2+1.
	original := []domain.Location{origin, east1, west1, east2}
	optimized := []domain.Location{origin, west1, east1, east2}

	s, err := CalculateSavings(original, optimized)
	require.NoError(t, err)

	assert.Equal(t, 6.67, s.OriginalDistanceKm)
	assert.Equal(t, 4.45, s.OptimizedDistanceKm)
	assert.Equal(t, 2.22, s.DistanceSaved)
	assert.Equal(t, 3.0, s.TimeSaved)
	assert.Equal(t, 33.3, s.PercentSaved)

	worse, err := CalculateSavings(optimized, original)
	require.NoError(t, err)
	assert.Equal(t, -2.22, worse.DistanceSaved)
	assert.Equal(t, -3.0, worse.TimeSaved)
	assert.Equal(t, -50.0, worse.PercentSaved)
}

func TestCalculateSavingsNoLegs(t *testing.T) {
	s, err := CalculateSavings([]domain.Location{origin}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.Savings{}, s)
}

func TestCalculateSavingsUsesEngineSpeed(t *testing.T) {
	e := newTestEngine(t, EngineOptions{AverageSpeedKmh: 20})
	s, err := e.CalculateSavings([]domain.Location{origin, east2, east1}, []domain.Location{origin, east1, east2})
	require.NoError(t, err)

	// 1.11 km saved at 20 km/h.
	assert.Equal(t, 1.11, s.DistanceSaved)
	assert.Equal(t, 3.0, s.TimeSaved)
}
