package api

import (
	"context"
	"dispatch-planning-service/internal/adapters/catalog"
	"dispatch-planning-service/internal/api/dto"
	"dispatch-planning-service/internal/domain"
	"dispatch-planning-service/internal/platform/metrics"
	"dispatch-planning-service/internal/services"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type countingCache struct {
	mu     sync.Mutex
	routes map[string]domain.OptimizedRoute
	hits   int
}

func (c *countingCache) Get(_ context.Context, key string) (domain.OptimizedRoute, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.routes[key]
	if ok {
		c.hits++
	}
	return r, ok, nil
}

func (c *countingCache) Put(_ context.Context, key string, route domain.OptimizedRoute) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.routes[key] = route
	return nil
}

type stubShipments struct{ shipments []domain.Shipment }

func (s *stubShipments) ListPendingShipments(context.Context) ([]domain.Shipment, error) {
	return s.shipments, nil
}

type stubPlans struct{ saved []domain.DispatchPlan }

func (s *stubPlans) SaveDispatchPlan(_ context.Context, plan domain.DispatchPlan) error {
	s.saved = append(s.saved, plan)
	return nil
}

func mustEngine(opts services.EngineOptions) *services.Engine {
	e, err := services.NewEngine(opts)
	if err != nil {
		panic(err)
	}
	return e
}

func testDeps() Deps {
	return Deps{
		Engine:  mustEngine(services.EngineOptions{}),
		Catalog: catalog.NewStaticCatalog(),
		Cache:   &countingCache{routes: map[string]domain.OptimizedRoute{}},
	}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

func TestHealth(t *testing.T) {
	h := NewRouter(testDeps())

	rec := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])

	rec = do(t, h, http.MethodPost, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestRequestIDHeader(t *testing.T) {
	h := NewRouter(testDeps())

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Len(t, rec.Header().Get("X-Request-Id"), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "trace-42")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "trace-42", rec.Header().Get("X-Request-Id"))
}

func TestListVehicles(t *testing.T) {
	rec := do(t, NewRouter(testDeps()), http.MethodGet, "/vehicles", "")
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[dto.ListVehiclesResponse](t, rec)
	require.Len(t, res.Vehicles, 4)
	assert.Equal(t, "van_small", res.Vehicles[0].Type)
	assert.Equal(t, "trailer_semi", res.Vehicles[3].Type)
}

func TestPackByVehicleType(t *testing.T) {
	body := `{
		"vehicle_type": "van_small",
		"items": [{"id": "a", "quantity": 1, "weight_per_unit": 10, "length_per_unit": 1, "width_per_unit": 1, "height_per_unit": 1}]
	}`
	rec := do(t, NewRouter(testDeps()), http.MethodPost, "/packing/pack", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.PackingResultResponse](t, rec)
	assert.True(t, res.Success)
	assert.Equal(t, "van_small", res.VehicleType)
	require.Len(t, res.Packed, 1)
	require.NotNil(t, res.Packed[0].Position)
	assert.Equal(t, dto.PositionResponse{}, *res.Packed[0].Position)
	assert.Empty(t, res.Unpacked)
	assert.Equal(t, 10.0, res.TotalWeight)
}

func TestPackInlineVehicle(t *testing.T) {
	body := `{
		"vehicle": {"type": "crate", "length": 1, "width": 1, "height": 1, "max_weight": 100, "max_volume": 1},
		"items": [{"id": "a", "quantity": 2, "weight_per_unit": 1, "length_per_unit": 1, "width_per_unit": 1, "height_per_unit": 1}]
	}`
	rec := do(t, NewRouter(testDeps()), http.MethodPost, "/packing/pack", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.PackingResultResponse](t, rec)
	assert.False(t, res.Success)
	require.Len(t, res.Unpacked, 1)
	assert.Equal(t, "a", res.Unpacked[0].ItemID)
	assert.Equal(t, 1, res.Unpacked[0].Quantity)
}

func TestPackBadRequests(t *testing.T) {
	item := `[{"id": "a", "quantity": 1, "weight_per_unit": 1}]`
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown vehicle", `{"vehicle_type": "zeppelin", "items": ` + item + `}`, "unknown vehicle type"},
		{"no vehicle", `{"items": ` + item + `}`, "vehicle or vehicle_type is required"},
		{"both vehicles", `{"vehicle_type": "van_small", "vehicle": {"type": "x"}, "items": ` + item + `}`, "not both"},
		{"unknown field", `{"vehicle_type": "van_small", "colour": "red"}`, "invalid json body"},
		{"trailing object", `{"vehicle_type": "van_small"} {}`, "only one JSON object"},
		{"invalid item", `{"vehicle_type": "van_small", "items": [{"id": "a", "quantity": 0}]}`, "quantity"},
	}

	h := NewRouter(testDeps())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/packing/pack", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, errorBody(t, rec), tc.want)
		})
	}
}

func TestSuggestWithSplit(t *testing.T) {
	body := `{"items": [{"id": "ingot", "quantity": 10, "weight_per_unit": 3000, "length_per_unit": 1, "width_per_unit": 1, "height_per_unit": 1}]}`
	rec := do(t, NewRouter(testDeps()), http.MethodPost, "/packing/suggest", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.SuggestResponse](t, rec)
	assert.Equal(t, "trailer_semi", res.Recommended)
	assert.True(t, res.RequiresSplit)
	assert.Len(t, res.Tried, 4)
	assert.Len(t, res.Details, 4)
	require.Len(t, res.Runs, 2)
	assert.Equal(t, "trailer_semi", res.Runs[1].VehicleType)
}

func TestSuggestWithRequestCatalog(t *testing.T) {
	body := `{
		"items": [{"id": "a", "quantity": 1, "weight_per_unit": 1, "length_per_unit": 1, "width_per_unit": 1, "height_per_unit": 1}],
		"vehicles": [{"type": "crate", "length": 1, "width": 1, "height": 1, "max_weight": 10, "max_volume": 1}]
	}`
	rec := do(t, NewRouter(testDeps()), http.MethodPost, "/packing/suggest", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.SuggestResponse](t, rec)
	assert.Equal(t, "crate", res.Recommended)
	assert.False(t, res.RequiresSplit)
	assert.Empty(t, res.Runs)
}

func TestOptimizeRouteIsCached(t *testing.T) {
	deps := testDeps()
	cache := deps.Cache.(*countingCache)
	h := NewRouter(deps)

	body := `{
		"depot": {"id": "depot", "lat": 0, "lng": 0},
		"destinations": [{"id": "a", "lat": 0, "lng": 0.01}, {"id": "b", "lat": 0, "lng": -0.01}]
	}`

	first := do(t, h, http.MethodPost, "/routes/optimize", body)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	second := do(t, h, http.MethodPost, "/routes/optimize", body)
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, 1, cache.hits)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	res := decode[dto.RouteResponse](t, first)
	ids := make([]string, 0, len(res.Sequence))
	for _, l := range res.Sequence {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"depot", "a", "b", "depot"}, ids)
	require.Len(t, res.Segments, 3)
	assert.Equal(t, "depot", res.Segments[0].From)
	assert.False(t, res.FallbackApplied)
}

func TestOptimizeRouteRejectsInvalidLocation(t *testing.T) {
	body := `{"depot": {"id": "depot"}, "destinations": [{"id": "a", "lat": 95}]}`
	rec := do(t, NewRouter(testDeps()), http.MethodPost, "/routes/optimize", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatchRoutes(t *testing.T) {
	var dests []string
	for i := 1; i <= 5; i++ {
		dests = append(dests, `{"id": "s`+string(rune('0'+i))+`", "lat": 0, "lng": 0.0`+string(rune('0'+i))+`}`)
	}
	body := `{"depot": {"id": "depot"}, "max_stops": 2, "destinations": [` + strings.Join(dests, ",") + `]}`

	rec := do(t, NewRouter(testDeps()), http.MethodPost, "/routes/batch", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.BatchRoutesResponse](t, rec)
	require.Len(t, res.Routes, 3)
	assert.Len(t, res.Routes[0].Sequence, 4)
	assert.Len(t, res.Routes[2].Sequence, 3)
}

func TestConsolidate(t *testing.T) {
	body := `{
		"max_distance_km": 1,
		"destinations": [
			{"id": "a", "lat": 0, "lng": 0.01},
			{"id": "far", "lat": 0, "lng": 1},
			{"id": "b", "lat": 0, "lng": 0.011}
		]
	}`
	rec := do(t, NewRouter(testDeps()), http.MethodPost, "/routes/consolidate", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.ConsolidateResponse](t, rec)
	require.Len(t, res.Clusters, 1)
	require.Len(t, res.Clusters[0].Members, 2)
	assert.Equal(t, "a", res.Clusters[0].Members[0].ID)
	assert.Equal(t, "b", res.Clusters[0].Members[1].ID)

	rec = do(t, NewRouter(testDeps()), http.MethodPost, "/routes/consolidate", `{"max_distance_km": -1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSavings(t *testing.T) {
	body := `{
		"original": [{"id": "depot"}, {"id": "a", "lng": 0.02}, {"id": "b", "lng": 0.01}],
		"optimized": [{"id": "depot"}, {"id": "b", "lng": 0.01}, {"id": "a", "lng": 0.02}]
	}`
	rec := do(t, NewRouter(testDeps()), http.MethodPost, "/routes/savings", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.SavingsResponse](t, rec)
	assert.Equal(t, 3.34, res.OriginalDistanceKm)
	assert.Equal(t, 2.22, res.OptimizedDistanceKm)
	assert.Equal(t, 1.11, res.DistanceSaved)
	assert.Equal(t, 33.3, res.PercentSaved)
}

func TestDispatchPlanRequiresDatabase(t *testing.T) {
	rec := do(t, NewRouter(testDeps()), http.MethodPost, "/dispatch/plan", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDispatchPlan(t *testing.T) {
	deps := testDeps()
	plans := &stubPlans{}
	deps.Plans = plans
	deps.Shipments = &stubShipments{shipments: []domain.Shipment{{
		ID:    "s-1",
		Depot: domain.Location{ID: "depot"},
		Items: []domain.ItemDimensions{{ID: "box", Quantity: 2, WeightPerUnit: 5, LengthPerUnit: 1, WidthPerUnit: 1, HeightPerUnit: 1}},
		Stops: []domain.Location{{ID: "a", Lng: 0.01}, {ID: "b", Lng: 0.02}},
	}}}

	rec := do(t, NewRouter(deps), http.MethodPost, "/dispatch/plan", `{"max_stops_per_route": 5}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.DispatchPlanResponse](t, rec)
	assert.NotEmpty(t, res.ID)
	require.Len(t, res.Shipments, 1)
	assert.Equal(t, "s-1", res.Shipments[0].ShipmentID)
	assert.False(t, res.Shipments[0].RequiresSplit)
	require.Len(t, res.Shipments[0].Runs, 1)
	assert.Equal(t, "van_small", res.Shipments[0].Runs[0].VehicleType)
	require.Len(t, res.Shipments[0].Routes, 1)
	require.Len(t, plans.saved, 1)
	assert.Equal(t, res.ID, plans.saved[0].ID)

	rec = do(t, NewRouter(deps), http.MethodPost, "/dispatch/plan", `{"max_stops_per_route": -1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDispatchPlanReportsRejectedShipments(t *testing.T) {
	deps := testDeps()
	plans := &stubPlans{}
	deps.Plans = plans
	deps.Shipments = &stubShipments{shipments: []domain.Shipment{
		{
			ID:    "s-1",
			Depot: domain.Location{ID: "depot"},
			Items: []domain.ItemDimensions{{ID: "box", Quantity: 1, WeightPerUnit: 5, LengthPerUnit: 1, WidthPerUnit: 1, HeightPerUnit: 1}},
			Stops: []domain.Location{{ID: "a", Lng: 0.01}},
		},
		{
			ID:    "s-2",
			Depot: domain.Location{ID: "depot"},
			Items: []domain.ItemDimensions{{ID: "mast", Quantity: 1, LengthPerUnit: 30, WidthPerUnit: 1, HeightPerUnit: 1}},
		},
	}}

	rec := do(t, NewRouter(deps), http.MethodPost, "/dispatch/plan", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.DispatchPlanResponse](t, rec)
	require.Len(t, res.Shipments, 1)
	assert.Equal(t, "s-1", res.Shipments[0].ShipmentID)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "s-2", res.Failed[0].ShipmentID)
	assert.Contains(t, res.Failed[0].Error, "cannot fit any vehicle")
	require.Len(t, plans.saved, 1)
	assert.Len(t, plans.saved[0].Failed, 1)
}

func TestRateLimit(t *testing.T) {
	deps := testDeps()
	deps.Limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	h := NewRouter(deps)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate limit exceeded", errorBody(t, rec))
}

func TestMetricsEndpoint(t *testing.T) {
	metrics.RegisterDefault()
	h := NewRouter(testDeps())

	do(t, h, http.MethodGet, "/health", "")
	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/health",status="200"}`)
}
