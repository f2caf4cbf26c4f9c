package services

import (
	"context"
	"dispatch-planning-service/internal/domain"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeocoder struct {
	coords map[string]domain.Coordinates
	calls  [][]string
	err    error
}

func (f *fakeGeocoder) GeocodeMany(_ context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	f.calls = append(f.calls, addresses)
	if f.err != nil {
		return nil, f.err
	}
	return f.coords, nil
}

func TestResolveShipmentLocations_FillsOnlyMissingCoordinates(t *testing.T) {
	g := &fakeGeocoder{coords: map[string]domain.Coordinates{
		"1 Depot Rd": {Lat: 52.5, Lng: 13.4},
		"2 Main St":  {Lat: 52.6, Lng: 13.5},
	}}
	shipments := []domain.Shipment{{
		ID:    "s1",
		Depot: domain.Location{ID: "depot", Address: "1  Depot Rd"},
		Stops: []domain.Location{
			{ID: "a", Address: "2 Main St"},
			{ID: "b", Address: "3 Side St", Lat: 52.7, Lng: 13.6},
			{ID: "c", Lat: 52.8, Lng: 13.7},
		},
	}}

	require.NoError(t, ResolveShipmentLocations(context.Background(), g, shipments))

	require.Len(t, g.calls, 1)
	assert.Equal(t, []string{"1 Depot Rd", "2 Main St"}, g.calls[0])

	sh := shipments[0]
	assert.Equal(t, 52.5, sh.Depot.Lat)
	assert.Equal(t, 13.4, sh.Depot.Lng)
	assert.Equal(t, 52.6, sh.Stops[0].Lat)
	assert.Equal(t, 52.7, sh.Stops[1].Lat)
	assert.Equal(t, 52.8, sh.Stops[2].Lat)
}

func TestResolveShipmentLocations_NothingToResolve(t *testing.T) {
	g := &fakeGeocoder{}
	shipments := []domain.Shipment{{ID: "s1", Depot: domain.Location{Lat: 1, Lng: 1}}}

	require.NoError(t, ResolveShipmentLocations(context.Background(), g, shipments))
	assert.Empty(t, g.calls)
}

func TestResolveShipmentLocations_Errors(t *testing.T) {
	shipments := func() []domain.Shipment {
		return []domain.Shipment{{ID: "s1", Stops: []domain.Location{{ID: "a", Address: "nowhere"}}}}
	}

	boom := errors.New("boom")
	err := ResolveShipmentLocations(context.Background(), &fakeGeocoder{err: boom}, shipments())
	assert.ErrorIs(t, err, boom)

	err = ResolveShipmentLocations(context.Background(), &fakeGeocoder{coords: map[string]domain.Coordinates{}}, shipments())
	assert.ErrorContains(t, err, `no coordinates for "nowhere"`)
}
