package export

import (
	"github.com/dpulseai/Mospi/internal/survey"
	"github.com/jung-kurt/gofpdf"
)

func writePDF(path string, s *survey.Survey) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; characters outside it are dropped.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, tr(s.Title))
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 12)
	for i, l := range lines(s) {
		if i == 0 {
			// Header line repeats the title with metadata.
			pdf.SetFont("Arial", "I", 10)
			pdf.MultiCell(0, 6, tr(l), "", "L", false)
			pdf.Ln(4)
			pdf.SetFont("Arial", "", 12)
			continue
		}
		pdf.MultiCell(0, 7, tr(l), "", "L", false)
	}
	return pdf.OutputFileAndClose(path)
}
