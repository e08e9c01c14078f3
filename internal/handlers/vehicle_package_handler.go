package handlers

import (
	"net/http"
	"strconv"

	"fleet-backend/internal/repositories"
	"fleet-backend/pkg/utils"
)

// VehiclePackageHandler exposes the read-only package catalog the allotment
// screens build on.
type VehiclePackageHandler struct {
	Repo *repositories.VehiclePackageRepository
}

func NewVehiclePackageHandler(repo *repositories.VehiclePackageRepository) *VehiclePackageHandler {
	return &VehiclePackageHandler{Repo: repo}
}

// ListByPeriod returns the active packages for a month
func (h *VehiclePackageHandler) ListByPeriod(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "year is required")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "month is required")
		return
	}

	packages, err := h.Repo.ListByPeriod(r.Context(), year, month)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to list vehicle packages")
		return
	}
	utils.JSON(w, http.StatusOK, packages)
}
