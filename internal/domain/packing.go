package domain

// Position is the offset of a placed unit's rear-left-bottom corner inside
// the load space: X across the width, Y along the length, Z upwards.
type Position struct {
	X float64
	Y float64
	Z float64
}

// PackedItem is one loading step. Geometric units are packed one per entry
// with a Position; volume-only items are aggregated into a single entry with
// no Position.
type PackedItem struct {
	ItemID    string
	ProductID string
	Sequence  int
	Quantity  int
	Position  *Position
	Length    float64
	Width     float64
	Height    float64
	Rotated   bool
	Weight    float64
	Volume    float64
}

type OverflowReason string

const (
	OverflowWeight   OverflowReason = "weight"
	OverflowVolume   OverflowReason = "volume"
	OverflowSpace    OverflowReason = "space"
	OverflowOversize OverflowReason = "oversize"
)

// UnpackedItem counts the units of one item rejected for one reason.
type UnpackedItem struct {
	ItemID   string
	Quantity int
	Reason   OverflowReason
}

// Utilization percentages are relative to the vehicle's max weight, max
// volume and load-space length.
type Utilization struct {
	WeightPct float64
	VolumePct float64
	LinearPct float64
}

type PackingResult struct {
	VehicleType string
	Success     bool
	Packed      []PackedItem
	Unpacked    []UnpackedItem
	TotalWeight float64
	TotalVolume float64
	Utilization Utilization
	Warnings    []string
}

// PackedQuantities sums packed units per item id.
func (r PackingResult) PackedQuantities() map[string]int {
	out := make(map[string]int)
	for _, p := range r.Packed {
		out[p.ItemID] += p.Quantity
	}
	return out
}

// UnpackedQuantities sums unpacked units per item id across all reasons.
func (r PackingResult) UnpackedQuantities() map[string]int {
	out := make(map[string]int)
	for _, u := range r.Unpacked {
		out[u.ItemID] += u.Quantity
	}
	return out
}

// VehicleSuggestion is the outcome of trying a catalog smallest-to-largest.
// When RequiresSplit is set, Recommended names the largest vehicle and its
// result still carries unpacked units.
type VehicleSuggestion struct {
	Recommended   string
	RequiresSplit bool
	Tried         []string
	Details       map[string]PackingResult
}

// Result returns the packing result of the recommended vehicle.
func (s VehicleSuggestion) Result() PackingResult { return s.Details[s.Recommended] }

// VehicleRun is one vehicle's share of a shipment.
type VehicleRun struct {
	Run         int
	VehicleType string
	Result      PackingResult
}
