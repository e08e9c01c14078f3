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

type ReceiptBookHandler struct {
	Service *services.ReceiptBookService
}

func NewReceiptBookHandler(s *services.ReceiptBookService) *ReceiptBookHandler {
	return &ReceiptBookHandler{Service: s}
}

// Create registers a receipt book with its full balance
func (h *ReceiptBookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.SaveReceiptBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	book, err := h.Service.CreateBook(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, book)
}

// List returns all receipt books
func (h *ReceiptBookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.Service.ListBooks(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to list receipt books")
		return
	}
	utils.JSON(w, http.StatusOK, books)
}

// ListByVendor returns a vendor's books that can still issue receipts
func (h *ReceiptBookHandler) ListByVendor(w http.ResponseWriter, r *http.Request) {
	vendorID, err := strconv.Atoi(mux.Vars(r)["vendorId"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid vendor id")
		return
	}

	books, err := h.Service.ListActiveByVendor(r.Context(), vendorID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to list receipt books")
		return
	}
	utils.JSON(w, http.StatusOK, books)
}

// Numbers lists a book's number range with used flags. ?exclude=N keeps the
// number an edit form currently holds selectable.
func (h *ReceiptBookHandler) Numbers(w http.ResponseWriter, r *http.Request) {
	bookID, err := strconv.Atoi(mux.Vars(r)["receiptBookId"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid receipt book id")
		return
	}

	exclude := 0
	if raw := r.URL.Query().Get("exclude"); raw != "" {
		exclude, err = strconv.Atoi(raw)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid exclude parameter")
			return
		}
	}

	numbers, err := h.Service.AvailableNumbers(r.Context(), bookID, exclude)
	if err != nil {
		utils.Error(w, http.StatusNotFound, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, numbers)
}

// Update updates book metadata
func (h *ReceiptBookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid receipt book id")
		return
	}

	var req models.SaveReceiptBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	book, err := h.Service.UpdateBook(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, book)
}

// Delete removes an untouched receipt book
func (h *ReceiptBookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid receipt book id")
		return
	}

	if err := h.Service.DeleteBook(r.Context(), id); err != nil {
		utils.Error(w, http.StatusConflict, err.Error())
		return
	}
	utils.Message(w, http.StatusOK, "Receipt book deleted")
}
