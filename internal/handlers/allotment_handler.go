package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"fleet-backend/internal/models"
	"fleet-backend/internal/repositories"
	"fleet-backend/internal/services"
	"fleet-backend/pkg/utils"
)

type AllotmentHandler struct {
	Service *services.AllotmentService
}

func NewAllotmentHandler(s *services.AllotmentService) *AllotmentHandler {
	return &AllotmentHandler{Service: s}
}

// periodParams reads the year and month query parameters
func periodParams(r *http.Request) (int, int, error) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		return 0, 0, errors.New("year is required")
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		return 0, 0, errors.New("month is required")
	}
	return year, month, nil
}

// ListByPeriod returns a saved month's allotments with details
func (h *AllotmentHandler) ListByPeriod(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodParams(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	allotments, err := h.Service.ListByPeriod(r.Context(), year, month)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, allotments)
}

// CheckPeriod reports whether a month already has a saved batch
func (h *AllotmentHandler) CheckPeriod(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodParams(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.Service.CheckPeriod(r.Context(), year, month)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

// GenerateDetails proposes a staged batch for a month from its vehicle
// packages. Nothing is written until the batch is saved.
func (h *AllotmentHandler) GenerateDetails(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodParams(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	staged, err := h.Service.Generate(r.Context(), year, month)
	if err != nil {
		if errors.Is(err, services.ErrPeriodSaved) {
			utils.Error(w, http.StatusConflict, err.Error())
			return
		}
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, staged)
}

// Save persists a whole staged month atomically
func (h *AllotmentHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req models.SaveAllotmentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.Save(r.Context(), &req); err != nil {
		switch {
		case errors.Is(err, services.ErrPeriodSaved), errors.Is(err, repositories.ErrPeriodExists):
			utils.Error(w, http.StatusConflict, err.Error())
		case errors.Is(err, repositories.ErrDuplicateReceipt):
			utils.Error(w, http.StatusConflict, err.Error())
		default:
			utils.Error(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	utils.Message(w, http.StatusCreated, "Allotments saved")
}

// Update applies editor changes to one saved allotment
func (h *AllotmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateAllotmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	allotment, err := h.Service.Update(r.Context(), &req)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateReceipt) {
			utils.Error(w, http.StatusConflict, err.Error())
			return
		}
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, allotment)
}

// SetStatus toggles one allotment active or inactive
func (h *AllotmentHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid allotment id")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.SetStatus(r.Context(), id, req.Status); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.Message(w, http.StatusOK, "Allotment status updated")
}

// Get returns one allotment with details for the editor
func (h *AllotmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid allotment id")
		return
	}

	allotment, err := h.Service.GetWithDetails(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Allotment not found")
		return
	}
	utils.JSON(w, http.StatusOK, allotment)
}
