package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"fleet-backend/internal/models"
	"fleet-backend/internal/services"
	"fleet-backend/pkg/utils"
)

type VendorHandler struct {
	Service *services.VendorService
}

func NewVendorHandler(s *services.VendorService) *VendorHandler {
	return &VendorHandler{Service: s}
}

// Create registers a new diesel vendor
func (h *VendorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.SaveVendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	vendor, err := h.Service.CreateVendor(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, vendor)
}

// List returns all vendors
func (h *VendorHandler) List(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.Service.ListVendors(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to list vendors")
		return
	}
	utils.JSON(w, http.StatusOK, vendors)
}

// ListActiveWithStock returns active vendors with open receipt capacity for
// the allotment staging dropdown.
func (h *VendorHandler) ListActiveWithStock(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.Service.ListActiveWithStock(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to list vendors")
		return
	}
	utils.JSON(w, http.StatusOK, vendors)
}

// Get returns one vendor
func (h *VendorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid vendor id")
		return
	}

	vendor, err := h.Service.GetVendor(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Vendor not found")
		return
	}
	utils.JSON(w, http.StatusOK, vendor)
}

// Update updates a vendor
func (h *VendorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid vendor id")
		return
	}

	var req models.SaveVendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	vendor, err := h.Service.UpdateVendor(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, vendor)
}

// Delete removes a vendor without history
func (h *VendorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid vendor id")
		return
	}

	if err := h.Service.DeleteVendor(r.Context(), id); err != nil {
		utils.Error(w, http.StatusConflict, "Vendor has receipt book history and cannot be deleted")
		return
	}
	utils.Message(w, http.StatusOK, "Vendor deleted")
}
