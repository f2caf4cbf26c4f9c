package services

import (
	"dispatch-planning-service/internal/domain"
	"fmt"
	"math"
	"slices"

	"github.com/shopspring/decimal"
)

const eps = 1e-9

// packUnit is one physical unit of an item expanded from its quantity.
type packUnit struct {
	item    *domain.ItemDimensions
	index   int // position of the item in the input
	l, w, h float64
	weight  float64
	volume  float64
}

func (u packUnit) area() float64 { return u.l * u.w }

// shelf is the placement cursor. Rows run across the width, rows stack
// along the length into a layer, layers stack upwards.
type shelf struct {
	L, W, H     float64
	x, y, z     float64
	rowDepth    float64
	layerHeight float64
	reach       float64 // furthest point used along the length
}

// place returns the position for a unit of the given size and advances the
// cursor, or reports false leaving the cursor untouched.
func (s *shelf) place(l, w, h float64) (domain.Position, bool) {
	x, y, z := s.x, s.y, s.z
	rowDepth, layerHeight := s.rowDepth, s.layerHeight

	if x+w > s.W+eps {
		y += rowDepth
		x, rowDepth = 0, 0
	}
	if y+l > s.L+eps {
		z += layerHeight
		x, y, rowDepth, layerHeight = 0, 0, 0, 0
	}
	if z+h > s.H+eps {
		return domain.Position{}, false
	}

	s.x, s.y, s.z = x+w, y, z
	s.rowDepth = math.Max(rowDepth, l)
	s.layerHeight = math.Max(layerHeight, h)
	s.reach = math.Max(s.reach, y+l)
	return domain.Position{X: x, Y: y, Z: z}, true
}

// orient returns the floor orientation that fits the vehicle, trying the
// declared length/width first and the 90 degree rotation second.
func orient(u packUnit, v domain.VehicleProfile) (l, w float64, rotated, ok bool) {
	if u.h > v.Height+eps {
		return 0, 0, false, false
	}
	if u.l <= v.Length+eps && u.w <= v.Width+eps {
		return u.l, u.w, false, true
	}
	if u.w <= v.Length+eps && u.l <= v.Width+eps {
		return u.w, u.l, true, true
	}
	return 0, 0, false, false
}

// packState accumulates one Pack call.
type packState struct {
	vehicle domain.VehicleProfile
	result  domain.PackingResult

	unpacked       map[unpackedKey]int // index into result.Unpacked
	unpackedIndex  []int               // input index per result.Unpacked entry
	weightRejected float64
	weightOver     int // units that would exceed remaining weight
	volumeOver     int // units that would exceed remaining volume
	oversize       map[string]bool
	volumeOnlyVol  float64
}

type unpackedKey struct {
	itemID string
	reason domain.OverflowReason
}

func (st *packState) reject(u packUnit, reason domain.OverflowReason) {
	k := unpackedKey{itemID: u.item.ID, reason: reason}
	if i, ok := st.unpacked[k]; ok {
		st.result.Unpacked[i].Quantity++
		return
	}
	st.unpacked[k] = len(st.result.Unpacked)
	st.unpackedIndex = append(st.unpackedIndex, u.index)
	st.result.Unpacked = append(st.result.Unpacked, domain.UnpackedItem{ItemID: u.item.ID, Quantity: 1, Reason: reason})
}

// exceeds records whether one unit would overflow the remaining weight and
// volume. Both limits are counted for warnings even though a rejected unit
// is charged to a single reason.
func (st *packState) exceeds(u packUnit) (overWeight, overVolume bool) {
	overWeight = st.result.TotalWeight+u.weight > st.vehicle.MaxWeight+eps
	overVolume = st.result.TotalVolume+u.volume > st.vehicle.MaxVolume+eps
	if overWeight {
		st.weightRejected += u.weight
		st.weightOver++
	}
	if overVolume {
		st.volumeOver++
	}
	return overWeight, overVolume
}

// admit checks weight and volume capacity for one unit and rejects it when
// either would be exceeded. Weight is charged first.
func (st *packState) admit(u packUnit) bool {
	overWeight, overVolume := st.exceeds(u)
	switch {
	case overWeight:
		st.reject(u, domain.OverflowWeight)
		return false
	case overVolume:
		st.reject(u, domain.OverflowVolume)
		return false
	}
	return true
}

func (st *packState) take(u packUnit) {
	st.result.TotalWeight += u.weight
	st.result.TotalVolume += u.volume
}

func (st *packState) nextSequence() int { return len(st.result.Packed) + 1 }

// Pack loads items into one vehicle with a shelf/layer heuristic.
//
// Units with a full footprint are placed largest footprint first, then
// tallest, then highest priority; ties keep input order. Units without a
// footprint are packed afterwards by weight and volume only and carry no
// position. Items that do not fit are reported in the result, never as an
// error; errors are returned for invalid input only.
func (e *Engine) Pack(items []domain.ItemDimensions, vehicle domain.VehicleProfile) (domain.PackingResult, error) {
	if err := vehicle.Validate(); err != nil {
		return domain.PackingResult{}, fmt.Errorf("pack: %w", err)
	}
	if err := domain.ValidateItems(items); err != nil {
		return domain.PackingResult{}, fmt.Errorf("pack: %w", err)
	}

	total := 0
	for _, it := range items {
		total += it.Quantity
		if total > e.opts.MaxPackUnits {
			return domain.PackingResult{}, fmt.Errorf("pack: %w: more than %d units", domain.ErrTooManyItems, e.opts.MaxPackUnits)
		}
	}

	st := &packState{
		vehicle:  vehicle,
		unpacked: make(map[unpackedKey]int),
		oversize: make(map[string]bool),
		result: domain.PackingResult{
			VehicleType: vehicle.Type,
			Packed:      []domain.PackedItem{},
			Unpacked:    []domain.UnpackedItem{},
			Warnings:    []string{},
		},
	}

	var geometric []packUnit
	var volumeOnly []int
	for i := range items {
		it := &items[i]
		if !it.HasFootprint() {
			volumeOnly = append(volumeOnly, i)
			st.result.Warnings = append(st.result.Warnings,
				fmt.Sprintf("item %s: geometric placement skipped, no footprint dimensions", it.ID))
			continue
		}
		u := packUnit{
			item: it, index: i,
			l: it.LengthPerUnit, w: it.WidthPerUnit, h: it.HeightPerUnit,
			weight: it.WeightPerUnit, volume: it.UnitVolume(),
		}
		for range it.Quantity {
			geometric = append(geometric, u)
		}
	}

	slices.SortStableFunc(geometric, func(a, b packUnit) int {
		if c := cmpDesc(a.area(), b.area()); c != 0 {
			return c
		}
		if c := cmpDesc(a.h, b.h); c != 0 {
			return c
		}
		return b.item.Priority - a.item.Priority
	})

	sh := &shelf{L: vehicle.Length, W: vehicle.Width, H: vehicle.Height}
	for _, u := range geometric {
		l, w, rotated, ok := orient(u, vehicle)
		if !ok {
			st.exceeds(u)
			st.reject(u, domain.OverflowOversize)
			if !st.oversize[u.item.ID] {
				st.oversize[u.item.ID] = true
				st.result.Warnings = append(st.result.Warnings,
					fmt.Sprintf("item %s exceeds vehicle dimensions", u.item.ID))
			}
			continue
		}
		if !st.admit(u) {
			continue
		}

		pos, placed := sh.place(l, w, u.h)
		if !placed {
			st.reject(u, domain.OverflowSpace)
			continue
		}
		st.take(u)

		st.result.Packed = append(st.result.Packed, domain.PackedItem{
			ItemID:    u.item.ID,
			ProductID: u.item.ProductID,
			Sequence:  st.nextSequence(),
			Quantity:  1,
			Position:  &pos,
			Length:    l,
			Width:     w,
			Height:    u.h,
			Rotated:   rotated,
			Weight:    u.weight,
			Volume:    u.volume,
		})
	}

	// Volume-only fallback: largest units first, then priority, then input order.
	slices.SortStableFunc(volumeOnly, func(a, b int) int {
		if c := cmpDesc(items[a].UnitVolume(), items[b].UnitVolume()); c != 0 {
			return c
		}
		return items[b].Priority - items[a].Priority
	})
	for _, i := range volumeOnly {
		it := &items[i]
		u := packUnit{item: it, index: i, weight: it.WeightPerUnit, volume: it.UnitVolume()}

		n := 0
		for range it.Quantity {
			if st.admit(u) {
				st.take(u)
				n++
			}
		}
		if n == 0 {
			continue
		}
		st.volumeOnlyVol += float64(n) * u.volume
		st.result.Packed = append(st.result.Packed, domain.PackedItem{
			ItemID:    it.ID,
			ProductID: it.ProductID,
			Sequence:  st.nextSequence(),
			Quantity:  n,
			Weight:    float64(n) * u.weight,
			Volume:    float64(n) * u.volume,
		})
	}

	st.finish(sh)
	return st.result, nil
}

// finish orders the unpacked report, writes overflow warnings and computes
// utilization.
func (st *packState) finish(sh *shelf) {
	r := &st.result
	v := st.vehicle

	order := make([]int, len(r.Unpacked))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int { return st.unpackedIndex[a] - st.unpackedIndex[b] })
	sorted := make([]domain.UnpackedItem, 0, len(r.Unpacked))
	counts := make(map[domain.OverflowReason]int)
	for _, i := range order {
		sorted = append(sorted, r.Unpacked[i])
		counts[r.Unpacked[i].Reason] += r.Unpacked[i].Quantity
	}
	r.Unpacked = sorted

	// Weight and volume are reported independently of the charged reason.
	if st.weightOver > 0 {
		over := r.TotalWeight + st.weightRejected - v.MaxWeight
		r.Warnings = append(r.Warnings, fmt.Sprintf("overweight by %s kg", decimal.NewFromFloat(over).StringFixed(2)))
	}
	if st.volumeOver > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%d unit(s) exceed remaining volume", st.volumeOver))
	}
	if n := counts[domain.OverflowSpace]; n > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%d unit(s) did not fit remaining load space", n))
	}

	linear := sh.reach/v.Length + st.volumeOnlyVol/v.BoxVolume()
	r.Utilization = domain.Utilization{
		WeightPct: round(r.TotalWeight/v.MaxWeight*100, 2),
		VolumePct: round(r.TotalVolume/v.MaxVolume*100, 2),
		LinearPct: round(math.Min(linear, 1)*100, 2),
	}
	r.Success = len(r.Unpacked) == 0
}

func cmpDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}
