package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"fleet-backend/internal/billfile"
	"fleet-backend/internal/services"
	"fleet-backend/internal/storage"
	"fleet-backend/pkg/utils"
)

// maxBillUpload caps bill uploads at 20 MB
const maxBillUpload = 20 << 20

type ReconciliationHandler struct {
	Service   *services.ReconciliationService
	Extractor billfile.TableExtractor
	Archive   *storage.BillArchive
}

func NewReconciliationHandler(s *services.ReconciliationService, extractor billfile.TableExtractor, archive *storage.BillArchive) *ReconciliationHandler {
	return &ReconciliationHandler{
		Service:   s,
		Extractor: extractor,
		Archive:   archive,
	}
}

// readUpload pulls the uploaded bill file fully into memory. Bills are a few
// hundred rows at most; the size cap protects against mistakes, not scale.
func readUpload(r *http.Request) (string, []byte, error) {
	if err := r.ParseMultipartForm(maxBillUpload); err != nil {
		return "", nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, fmt.Errorf("file field is required: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBillUpload))
	if err != nil {
		return "", nil, err
	}
	return header.Filename, data, nil
}

// ConvertPDF extracts the table from a vendor bill PDF and streams it back as
// an .xlsx workbook the reconcile endpoint accepts.
func (h *ReconciliationHandler) ConvertPDF(w http.ResponseWriter, r *http.Request) {
	filename, data, err := readUpload(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		utils.Error(w, http.StatusBadRequest, "Only .pdf files are accepted")
		return
	}

	rows, err := h.Extractor.Extract(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		utils.Error(w, http.StatusUnprocessableEntity, "Could not read PDF: "+err.Error())
		return
	}
	if len(rows) == 0 {
		utils.Error(w, http.StatusUnprocessableEntity, "No bill rows found in PDF")
		return
	}

	h.Archive.Store(r.Context(), filename, "application/pdf", data)

	outName := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)) + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+outName+`"`)
	if err := billfile.WriteWorkbook(w, rows); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to write workbook")
	}
}

// Reconcile matches an uploaded bill spreadsheet against the allotment ledger
func (h *ReconciliationHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	filename, data, err := readUpload(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		utils.Error(w, http.StatusBadRequest, "Only .xlsx files are accepted")
		return
	}

	rows, err := billfile.ReadWorkbook(bytes.NewReader(data))
	if err != nil {
		utils.Error(w, http.StatusUnprocessableEntity, "Could not read workbook: "+err.Error())
		return
	}
	if len(rows) == 0 {
		utils.Error(w, http.StatusUnprocessableEntity, "No bill rows found in workbook")
		return
	}

	h.Archive.Store(r.Context(), filename,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)

	summary := h.Service.Reconcile(r.Context(), rows)

	// ?format=xlsx streams the annotated rows back as a workbook instead of JSON
	if r.URL.Query().Get("format") == "xlsx" {
		outName := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)) + "_reconciled.xlsx"
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+outName+`"`)
		if err := billfile.WriteReconcileWorkbook(w, summary.Rows); err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to write workbook")
		}
		return
	}

	utils.JSON(w, http.StatusOK, summary)
}

// SlipDetails returns the ledger record behind one receipt number
func (h *ReconciliationHandler) SlipDetails(w http.ResponseWriter, r *http.Request) {
	slip, err := strconv.Atoi(mux.Vars(r)["slipNumber"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid slip number")
		return
	}

	details, err := h.Service.SlipDetails(r.Context(), slip)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "No allotment found for this slip")
		return
	}
	utils.JSON(w, http.StatusOK, details)
}
