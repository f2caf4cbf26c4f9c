package domain

import (
	"fmt"
	"math"
	"time"
)

const (
	MinPriority = 1
	MaxPriority = 5
)

// TimeWindow is recorded on a Location but not enforced by the route heuristic.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Location is a depot or delivery destination.
// Priority 0 means unset and is treated as the lowest priority (1).
type Location struct {
	ID         string
	Lat        float64
	Lng        float64
	Address    string
	Priority   int
	TimeWindow *TimeWindow
}

// EffectivePriority returns the priority used by the route heuristic.
func (l Location) EffectivePriority() int {
	if l.Priority == 0 {
		return MinPriority
	}
	return l.Priority
}

// Validate rejects non-finite or out-of-range coordinates and priorities.
func (l Location) Validate() error {
	name := l.ID
	if name == "" {
		name = "location"
	}

	if math.IsNaN(l.Lat) || math.IsInf(l.Lat, 0) || l.Lat < -90 || l.Lat > 90 {
		return invalid(ErrInvalidLocation, name+".lat", fmt.Sprintf("must be a finite value in [-90, 90], got %v", l.Lat))
	}
	if math.IsNaN(l.Lng) || math.IsInf(l.Lng, 0) || l.Lng < -180 || l.Lng > 180 {
		return invalid(ErrInvalidLocation, name+".lng", fmt.Sprintf("must be a finite value in [-180, 180], got %v", l.Lng))
	}
	if l.Priority != 0 && (l.Priority < MinPriority || l.Priority > MaxPriority) {
		return invalid(ErrInvalidLocation, name+".priority", fmt.Sprintf("must be between %d and %d, got %d", MinPriority, MaxPriority, l.Priority))
	}
	if tw := l.TimeWindow; tw != nil && !tw.End.IsZero() && tw.End.Before(tw.Start) {
		return invalid(ErrInvalidLocation, name+".time_window", "end must not precede start")
	}

	return nil
}

// ValidateLocations validates every location in order and returns the first failure.
func ValidateLocations(locs []Location) error {
	for i, l := range locs {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("location #%d: %w", i+1, err)
		}
	}
	return nil
}
