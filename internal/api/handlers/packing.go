package handlers

import (
	"dispatch-planning-service/internal/api/dto"
	"dispatch-planning-service/internal/domain"
	"dispatch-planning-service/internal/ports"
	"dispatch-planning-service/internal/services"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type PackingHandler struct {
	Engine  *services.Engine
	Catalog ports.VehicleCatalog
}

// Pack loads items into one vehicle, given inline or by catalog type.
func (h *PackingHandler) Pack(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.PackRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var vehicle domain.VehicleProfile
	switch vt := strings.TrimSpace(req.VehicleType); {
	case req.Vehicle != nil && vt != "":
		writeError(w, r, http.StatusBadRequest, "set either vehicle or vehicle_type, not both")
		return
	case req.Vehicle != nil:
		vehicle = req.Vehicle.Domain()
	case vt != "":
		v, err := h.lookupVehicle(r, vt)
		if err != nil {
			writeServiceError(w, r, "pack", err)
			return
		}
		vehicle = v
	default:
		writeError(w, r, http.StatusBadRequest, "vehicle or vehicle_type is required")
		return
	}

	result, err := h.Engine.Pack(dto.Items(req.Items), vehicle)
	if err != nil {
		writeServiceError(w, r, "pack", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromPackingResult(result))
}

// Suggest picks the smallest sufficient vehicle. When no single vehicle
// fits, the response also carries the split into vehicle runs.
func (h *PackingHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.SuggestRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	catalog := dto.Vehicles(req.Vehicles)
	if len(catalog) == 0 {
		var err error
		catalog, err = h.Catalog.ListVehicleProfiles(r.Context())
		if err != nil {
			writeServiceError(w, r, "suggest vehicle", err)
			return
		}
	}

	items := dto.Items(req.Items)
	suggestion, err := h.Engine.SuggestVehicle(items, catalog)
	if err != nil {
		writeServiceError(w, r, "suggest vehicle", err)
		return
	}

	res := dto.FromSuggestion(suggestion)
	if suggestion.RequiresSplit {
		runs, err := h.Engine.PlanShipmentRuns(items, catalog)
		switch {
		case errors.Is(err, domain.ErrUnplaceableItem):
			// Oversize units are already reported in the details.
		case err != nil:
			writeServiceError(w, r, "suggest vehicle", err)
			return
		default:
			res.Runs = dto.FromRuns(runs)
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *PackingHandler) lookupVehicle(r *http.Request, vehicleType string) (domain.VehicleProfile, error) {
	vehicles, err := h.Catalog.ListVehicleProfiles(r.Context())
	if err != nil {
		return domain.VehicleProfile{}, err
	}
	for _, v := range vehicles {
		if v.Type == vehicleType {
			return v, nil
		}
	}
	return domain.VehicleProfile{}, &domain.ValidationError{
		Field:  "vehicle_type",
		Reason: fmt.Sprintf("unknown vehicle type %q", vehicleType),
		Err:    domain.ErrInvalidVehicle,
	}
}
