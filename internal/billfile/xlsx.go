package billfile

import (
	"errors"
	"io"

	"github.com/xuri/excelize/v2"

	"fleet-backend/internal/models"
)

// billSheetHeader is the column layout of converted bill workbooks. Quantity
// sits next to the slip column, the layout reconciliation resolves from.
var billSheetHeader = []interface{}{"Slip No", "Quantity", "Date", "Vehicle No", "Rate", "Amount"}

// ReadWorkbook extracts bill rows from an uploaded .xlsx file. Only the first
// sheet is read; vendors send single-sheet bills.
func ReadWorkbook(r io.Reader) ([]models.BillRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return ParseTable(rows)
}

// WriteWorkbook renders extracted bill rows as an .xlsx workbook, the format
// the reconciliation upload accepts: vendor name on the first row, column
// header on the second, data below. Used by the PDF conversion endpoint so
// clerks can fix extraction mistakes by hand before reconciling.
func WriteWorkbook(w io.Writer, rows []models.BillRow) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	vendor := ""
	if len(rows) > 0 {
		vendor = rows[0].VendorName
	}
	if err := f.SetCellValue(sheet, "A1", vendor); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A2", &billSheetHeader); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return err
		}
		values := []interface{}{row.SlipNumber, row.Quantity, row.BillDate, row.VehicleNo, row.Rate, row.Amount}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// reconcileSheetHeader is the column layout of annotated reconciliation exports
var reconcileSheetHeader = []interface{}{
	"Slip No", "Date", "Vehicle No", "Bill Qty",
	"Ledger Vehicle", "Ledger Qty", "Difference", "Status",
}

// WriteReconcileWorkbook renders an annotated reconciliation run as an .xlsx
// workbook for clerks who finish the matching on paper.
func WriteReconcileWorkbook(w io.Writer, rows []models.ReconcileRow) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &reconcileSheetHeader); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			row.SlipNumber, row.BillDate, row.VehicleNo, row.Quantity,
			row.LedgerVehicle, row.LedgerQty, row.Difference, row.Status,
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	return f.Write(w)
}
