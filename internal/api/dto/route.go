package dto

import (
	"dispatch-planning-service/internal/domain"
	"time"
)

type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Location struct {
	ID         string      `json:"id"`
	Lat        float64     `json:"lat"`
	Lng        float64     `json:"lng"`
	Address    string      `json:"address,omitempty"`
	Priority   int         `json:"priority,omitempty"`
	TimeWindow *TimeWindow `json:"time_window,omitempty"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type OptimizeRouteRequest struct {
	Depot        Location   `json:"depot"`
	Destinations []Location `json:"destinations"`
}

type BatchRoutesRequest struct {
	Depot        Location   `json:"depot"`
	Destinations []Location `json:"destinations"`
	MaxStops     int        `json:"max_stops"`
}

type ConsolidateRequest struct {
	Destinations  []Location `json:"destinations"`
	MaxDistanceKm float64    `json:"max_distance_km"`
}

type SavingsRequest struct {
	Original  []Location `json:"original"`
	Optimized []Location `json:"optimized"`
}

type SegmentResponse struct {
	From        string  `json:"from"`
	To          string  `json:"to"`
	DistanceKm  float64 `json:"distance_km"`
	DurationMin float64 `json:"duration_min"`
}

type RouteResponse struct {
	Sequence         []Location        `json:"sequence"`
	Segments         []SegmentResponse `json:"segments"`
	TotalDistanceKm  float64           `json:"total_distance_km"`
	TotalDurationMin float64           `json:"total_duration_min"`
	FallbackApplied  bool              `json:"fallback_applied"`
}

type BatchRoutesResponse struct {
	Routes []RouteResponse `json:"routes"`
}

type ClusterResponse struct {
	Members  []Location  `json:"members"`
	Centroid Coordinates `json:"centroid"`
}

type ConsolidateResponse struct {
	Clusters []ClusterResponse `json:"clusters"`
}

type SavingsResponse struct {
	OriginalDistanceKm  float64 `json:"original_distance_km"`
	OptimizedDistanceKm float64 `json:"optimized_distance_km"`
	DistanceSaved       float64 `json:"distance_saved"`
	TimeSaved           float64 `json:"time_saved"`
	PercentSaved        float64 `json:"percent_saved"`
}

func (l Location) Domain() domain.Location {
	loc := domain.Location{ID: l.ID, Lat: l.Lat, Lng: l.Lng, Address: l.Address, Priority: l.Priority}
	if l.TimeWindow != nil {
		loc.TimeWindow = &domain.TimeWindow{Start: l.TimeWindow.Start, End: l.TimeWindow.End}
	}
	return loc
}

func Locations(in []Location) []domain.Location {
	out := make([]domain.Location, 0, len(in))
	for _, l := range in {
		out = append(out, l.Domain())
	}
	return out
}

func FromLocation(l domain.Location) Location {
	loc := Location{ID: l.ID, Lat: l.Lat, Lng: l.Lng, Address: l.Address, Priority: l.Priority}
	if l.TimeWindow != nil {
		loc.TimeWindow = &TimeWindow{Start: l.TimeWindow.Start, End: l.TimeWindow.End}
	}
	return loc
}

func FromLocations(in []domain.Location) []Location {
	out := make([]Location, 0, len(in))
	for _, l := range in {
		out = append(out, FromLocation(l))
	}
	return out
}

func FromRoute(r domain.OptimizedRoute) RouteResponse {
	res := RouteResponse{
		Sequence:         FromLocations(r.Sequence),
		Segments:         make([]SegmentResponse, 0, len(r.Segments)),
		TotalDistanceKm:  r.TotalDistanceKm,
		TotalDurationMin: r.TotalDurationMin,
		FallbackApplied:  r.FallbackApplied,
	}
	for _, s := range r.Segments {
		res.Segments = append(res.Segments, SegmentResponse{
			From:        s.From.ID,
			To:          s.To.ID,
			DistanceKm:  s.DistanceKm,
			DurationMin: s.DurationMin,
		})
	}
	return res
}

func FromRoutes(in []domain.OptimizedRoute) []RouteResponse {
	out := make([]RouteResponse, 0, len(in))
	for _, r := range in {
		out = append(out, FromRoute(r))
	}
	return out
}

func FromClusters(in []domain.Cluster) []ClusterResponse {
	out := make([]ClusterResponse, 0, len(in))
	for _, c := range in {
		out = append(out, ClusterResponse{
			Members:  FromLocations(c.Members),
			Centroid: Coordinates{Lat: c.Centroid.Lat, Lng: c.Centroid.Lng},
		})
	}
	return out
}

func FromSavings(s domain.Savings) SavingsResponse {
	return SavingsResponse{
		OriginalDistanceKm:  s.OriginalDistanceKm,
		OptimizedDistanceKm: s.OptimizedDistanceKm,
		DistanceSaved:       s.DistanceSaved,
		TimeSaved:           s.TimeSaved,
		PercentSaved:        s.PercentSaved,
	}
}
