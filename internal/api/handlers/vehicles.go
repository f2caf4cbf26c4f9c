package handlers

import (
	"dispatch-planning-service/internal/api/dto"
	"dispatch-planning-service/internal/domain"
	"dispatch-planning-service/internal/ports"
	"net/http"
)

// VehicleHandler exposes the vehicle catalog.
type VehicleHandler struct {
	Catalog ports.VehicleCatalog
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	vehicles, err := h.Catalog.ListVehicleProfiles(r.Context())
	if err != nil {
		writeServiceError(w, r, "list vehicles", err)
		return
	}
	vehicles, err = domain.NormalizeCatalog(vehicles)
	if err != nil {
		writeServiceError(w, r, "list vehicles", err)
		return
	}

	res := dto.ListVehiclesResponse{Vehicles: make([]dto.Vehicle, 0, len(vehicles))}
	for _, v := range vehicles {
		res.Vehicles = append(res.Vehicles, dto.FromVehicle(v))
	}
	writeJSON(w, r, http.StatusOK, res)
}
