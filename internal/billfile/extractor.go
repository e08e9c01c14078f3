package billfile

import (
	"io"
	"math"
	"sort"
	"strings"

	"rsc.io/pdf"

	"fleet-backend/internal/models"
)

// TableExtractor pulls tabular bill rows out of an uploaded document. The
// interface keeps the PDF library at arm's length: handlers and services only
// ever see BillRows.
type TableExtractor interface {
	Extract(r io.ReaderAt, size int64) ([]models.BillRow, error)
}

// PDFExtractor reads vendor bill PDFs. It reconstructs table lines from the
// glyph positions, then parses each line like a spreadsheet row.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

func (e *PDFExtractor) Extract(r io.ReaderAt, size int64) ([]models.BillRow, error) {
	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, err
	}

	// All pages flatten into one cell grid; the header on the first page
	// fixes the column layout for the rows that follow.
	var lines [][]string
	for pageNum := 1; pageNum <= doc.NumPage(); pageNum++ {
		page := doc.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		lines = append(lines, pageLines(page)...)
	}
	return ParseTable(lines)
}

// pageLines groups a page's text fragments into visual lines and each line
// into cells. Fragments on the same baseline belong to one line; a horizontal
// gap wider than about two characters starts a new cell.
func pageLines(page pdf.Page) [][]string {
	texts := page.Content().Text
	if len(texts) == 0 {
		return nil
	}

	sort.Slice(texts, func(i, j int) bool {
		if texts[i].Y != texts[j].Y {
			return texts[i].Y > texts[j].Y // top of page first
		}
		return texts[i].X < texts[j].X
	})

	var lines [][]string
	var current []pdf.Text
	flush := func() {
		if len(current) > 0 {
			lines = append(lines, splitCells(current))
			current = nil
		}
	}

	baseline := texts[0].Y
	for _, t := range texts {
		if math.Abs(t.Y-baseline) > 2 {
			flush()
			baseline = t.Y
		}
		current = append(current, t)
	}
	flush()
	return lines
}

func splitCells(line []pdf.Text) []string {
	var cells []string
	var cell strings.Builder
	var prevEnd float64

	for i, t := range line {
		gap := t.X - prevEnd
		charWidth := t.FontSize * 0.5
		if charWidth == 0 {
			charWidth = 5
		}

		if i > 0 && gap > charWidth*2 {
			cells = append(cells, cell.String())
			cell.Reset()
		} else if i > 0 && gap > charWidth*0.3 {
			cell.WriteByte(' ')
		}

		cell.WriteString(t.S)
		prevEnd = t.X + t.W
	}
	if cell.Len() > 0 {
		cells = append(cells, cell.String())
	}
	return cells
}
