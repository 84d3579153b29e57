package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
)

const (
	pdfFont       = "Helvetica"
	pdfLineHeight = 6.0
	pdfMargin     = 12.0
)

type pdfColumn struct {
	title string
	width float64
	align string
}

// Widths add up to the printable width of an A4 page with pdfMargin margins.
var pdfColumns = []pdfColumn{
	{title: "Part No", width: 30, align: "L"},
	{title: "Description", width: 56, align: "L"},
	{title: "Procedure", width: 24, align: "L"},
	{title: "Qty", width: 14, align: "R"},
	{title: "Base USD", width: 22, align: "R"},
	{title: "Mult", width: 14, align: "R"},
	{title: "Total USD", width: 26, align: "R"},
}

const descriptionColumn = 1

// WritePDF renders doc as a PDF and writes it to w.
func WritePDF(w io.Writer, doc Document) error {
	pdf, err := buildPDF(doc)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func buildPDF(doc Document) (*fpdf.Fpdf, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin+8)
	pdf.AliasNbPages("")
	pdf.SetTitle(doc.Title(), true)
	pdf.SetCreator(doc.Company, true)

	// Core fonts are cp1252; translate so part descriptions keep accents.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont(pdfFont, "B", 14)
		pdf.CellFormat(0, 10, tr(doc.Title()), "", 1, "C", false, 0, "")
		pdf.Ln(2)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(pdfFont, "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont(pdfFont, "", 10)
	meta := [][2]string{
		{"Reference", doc.Reference},
		{"Engine model", doc.EngineModel},
		{"Assembly", doc.AssemblyCode},
	}
	if !doc.GeneratedAt.IsZero() {
		meta = append(meta, [2]string{"Generated", doc.GeneratedAt.UTC().Format("2006-01-02 15:04 MST")})
	}
	for _, kv := range meta {
		if kv[1] == "" {
			continue
		}
		pdf.SetFont(pdfFont, "B", 10)
		pdf.CellFormat(32, pdfLineHeight, kv[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont(pdfFont, "", 10)
		pdf.CellFormat(0, pdfLineHeight, tr(kv[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont(pdfFont, "B", 12)
	pdf.CellFormat(0, 8, "Detailed Breakdown", "", 1, "L", false, 0, "")
	drawTableHeader(pdf)

	pdf.SetFont(pdfFont, "", 9)
	for _, item := range doc.Quote.LineItems {
		cells := []string{
			tr(item.PartNumber),
			tr(item.Description),
			tr(item.ProcedureCode),
			strconv.Itoa(item.Quantity),
			Money(item.BaseCost),
			item.Multiplier.StringFixed(2),
			Money(item.Total),
		}
		drawRow(pdf, cells)
	}

	pdf.Ln(6)
	pdf.SetFont(pdfFont, "B", 12)
	pdf.CellFormat(0, 8, "Subtotals per Part", "", 1, "L", false, 0, "")
	pdf.SetFont(pdfFont, "", 10)
	for _, s := range doc.Quote.Subtotals {
		pdf.MultiCell(0, pdfLineHeight, tr(SubtotalLine(s)), "", "L", false)
	}

	pdf.Ln(4)
	pdf.SetFont(pdfFont, "B", 12)
	pdf.CellFormat(0, 8, "Grand Total: "+GrandTotalLine(doc.Quote), "", 1, "L", false, 0, "")

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return pdf, nil
}

func drawTableHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont(pdfFont, "B", 9)
	pdf.SetFillColor(225, 230, 240)
	for i, col := range pdfColumns {
		ln := 0
		if i == len(pdfColumns)-1 {
			ln = 1
		}
		pdf.CellFormat(col.width, 7, col.title, "1", ln, "C", true, 0, "")
	}
	pdf.SetFont(pdfFont, "", 9)
}

// drawRow draws one table row. The description wraps onto several lines and
// the row grows to fit; rows never split across pages.
func drawRow(pdf *fpdf.Fpdf, cells []string) {
	desc := pdf.SplitText(cells[descriptionColumn], pdfColumns[descriptionColumn].width-2)
	lines := len(desc)
	if lines == 0 {
		lines = 1
	}
	rowHeight := float64(lines) * pdfLineHeight

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	if pdf.GetY()+rowHeight > pageHeight-bottom {
		pdf.AddPage()
		drawTableHeader(pdf)
	}

	x, y := pdf.GetXY()
	for i, col := range pdfColumns {
		if i == descriptionColumn {
			pdf.Rect(x, y, col.width, rowHeight, "D")
			pdf.MultiCell(col.width, pdfLineHeight, cells[i], "", col.align, false)
			x += col.width
			pdf.SetXY(x, y)
			continue
		}
		pdf.CellFormat(col.width, rowHeight, cells[i], "1", 0, col.align, false, 0, "")
		x += col.width
	}
	pdf.SetXY(pdfMargin, y+rowHeight)
}
