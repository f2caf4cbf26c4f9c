package services

import (
	"math"
	"testing"

	"dispatch-planning-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestConsolidationThreshold(t *testing.T) {
	// About 2 km apart along a meridian.
	a := domain.Location{ID: "a"}
	b := domain.Location{ID: "b", Lat: 0.018}

	tests := []struct {
		name   string
		radius float64
		want   int
	}{
		{"inside radius", 5, 1},
		{"default radius", 0, 1},
		{"outside radius", 1, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clusters, err := SuggestConsolidation([]domain.Location{a, b}, tc.radius)
			require.NoError(t, err)
			require.Len(t, clusters, tc.want)
			if tc.want == 1 {
				assert.Equal(t, []string{"a", "b"}, ids(clusters[0].Members))
				assert.InDelta(t, 0.009, clusters[0].Centroid.Lat, 1e-12)
				assert.InDelta(t, 0, clusters[0].Centroid.Lng, 1e-12)
			}
		})
	}
}

func TestSuggestConsolidationMeasuresFromSeedOnly(t *testing.T) {
	// b is 4.4 km from a, c is 4.4 km from b and 8.9 km from a.
	stops := []domain.Location{
		{ID: "a"},
		{ID: "b", Lng: 0.04},
		{ID: "c", Lng: 0.08},
	}

	clusters, err := SuggestConsolidation(stops, 5)
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, []string{"a", "b"}, ids(clusters[0].Members))
}

func TestSuggestConsolidationChainedMembers(t *testing.T) {
	// Seed in the middle pulls in both ends, which are 8.9 km apart.
	stops := []domain.Location{
		{ID: "mid", Lng: 0.04},
		{ID: "west"},
		{ID: "east", Lng: 0.08},
		{ID: "remote", Lng: 1},
	}

	clusters, err := SuggestConsolidation(stops, 5)
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, []string{"mid", "west", "east"}, ids(clusters[0].Members))
	assert.Greater(t, HaversineKm(stops[1].Coordinates(), stops[2].Coordinates()), 5.0)
}

func TestSuggestConsolidationEmptyAndInvalid(t *testing.T) {
	clusters, err := SuggestConsolidation(nil, 5)
	require.NoError(t, err)
	assert.NotNil(t, clusters)
	assert.Empty(t, clusters)

	_, err = SuggestConsolidation([]domain.Location{{ID: "a"}}, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = SuggestConsolidation([]domain.Location{{ID: "a"}}, math.NaN())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = SuggestConsolidation([]domain.Location{{ID: "a", Lat: math.Inf(-1)}}, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidLocation)
}
