package services

import (
	"dispatch-planning-service/internal/domain"
	"math"

	"github.com/shopspring/decimal"
)

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points.
func HaversineKm(a, b domain.Coordinates) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// Rounding can push h just outside [0, 1] for antipodal points.
	h = math.Max(0, math.Min(1, h))
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

func distanceKm(a, b domain.Location) float64 {
	return HaversineKm(a.Coordinates(), b.Coordinates())
}

// travelMinutes converts a distance into minutes at a fixed average speed.
func travelMinutes(km, speedKmh float64) float64 {
	return km / speedKmh * 60
}

// pathKm sums consecutive legs of a sequence as given.
func pathKm(seq []domain.Location) float64 {
	total := 0.0
	for i := 1; i < len(seq); i++ {
		total += distanceKm(seq[i-1], seq[i])
	}
	return total
}

// round rounds half away from zero on the decimal representation of v.
func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
