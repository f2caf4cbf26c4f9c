package services

import (
	"math"
	"testing"

	"dispatch-planning-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, opts EngineOptions) *Engine {
	t.Helper()
	e, err := NewEngine(opts)
	require.NoError(t, err)
	return e
}

func TestEngineOptionsDefaults(t *testing.T) {
	opts := DefaultEngineOptions()

	require.NotNil(t, opts.PriorityDiscount)
	assert.Equal(t, DefaultPriorityDiscount, *opts.PriorityDiscount)
	assert.Equal(t, DefaultAverageSpeedKmh, opts.AverageSpeedKmh)
	assert.Equal(t, DefaultWorkers, opts.Workers)
}

func TestNewEngineKeepsExplicitZeroDiscount(t *testing.T) {
	e := newTestEngine(t, EngineOptions{PriorityDiscount: Discount(0)})

	assert.Equal(t, 0.0, *e.Options().PriorityDiscount)
	assert.Equal(t, 1.0, e.priorityFactor(domain.Location{Priority: domain.MaxPriority}))
}

func TestNewEngineRejectsPriorityDiscount(t *testing.T) {
	tests := []struct {
		name     string
		discount float64
	}{
		{"negative", -0.1},
		{"upper bound", MaxPriorityDiscount},
		{"above upper bound", 0.5},
		{"NaN", math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEngine(EngineOptions{PriorityDiscount: Discount(tt.discount)})
			assert.Nil(t, e)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "priority_discount", ve.Field)
		})
	}
}

func TestNewEngineAcceptsDiscountBelowBound(t *testing.T) {
	e := newTestEngine(t, EngineOptions{PriorityDiscount: Discount(0.24)})

	assert.InDelta(t, 0.04, e.priorityFactor(domain.Location{Priority: domain.MaxPriority}), 1e-9)
}

func TestNewEngineRejectsNonFiniteSpeed(t *testing.T) {
	_, err := NewEngine(EngineOptions{AverageSpeedKmh: math.Inf(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewEngineDoesNotAliasDiscount(t *testing.T) {
	d := 0.2
	e := newTestEngine(t, EngineOptions{PriorityDiscount: &d})
	d = 0

	assert.Equal(t, 0.2, *e.Options().PriorityDiscount)
}
