package domain

// Coordinates is a bare latitude/longitude pair.
type Coordinates struct {
	Lat float64
	Lng float64
}

func (l Location) Coordinates() Coordinates { return Coordinates{Lat: l.Lat, Lng: l.Lng} }

// RouteSegment is one leg between consecutive stops.
type RouteSegment struct {
	From        Location
	To          Location
	DistanceKm  float64
	DurationMin float64
}

// OptimizedRoute starts and ends at the depot. Totals are rounded: distance
// to 2 decimals, duration to whole minutes.
//
// FallbackApplied is set when construction was cut short and the sequence
// keeps the untouched input order.
type OptimizedRoute struct {
	Sequence         []Location
	Segments         []RouteSegment
	TotalDistanceKm  float64
	TotalDurationMin float64
	FallbackApplied  bool
}

// Stops returns the sequence without the depot at either end.
func (r OptimizedRoute) Stops() []Location {
	if len(r.Sequence) <= 2 {
		return []Location{}
	}
	return r.Sequence[1 : len(r.Sequence)-1]
}

// Cluster is a set of at least two destinations close enough to merge.
type Cluster struct {
	Members  []Location
	Centroid Coordinates
}

// Savings compares two stop orders. Negative values mean the second order
// is longer than the first.
type Savings struct {
	OriginalDistanceKm  float64
	OptimizedDistanceKm float64
	DistanceSaved       float64
	TimeSaved           float64
	PercentSaved        float64
}
