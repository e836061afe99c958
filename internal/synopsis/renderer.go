// Package synopsis renders the session memory and research results into the
// fixed ten-section project synopsis PDF.
package synopsis

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"aura/internal/logger"
	"aura/pkg/auratypes"
)

// tocItems is the fixed table of contents. The document always carries all
// ten sections, placeholdered when no data exists for one.
var tocItems = []string{
	"1. Introduction",
	"2. Literature Review",
	"3. Problem Statement",
	"4. Objectives and Scope",
	"5. Methodology",
	"6. System Requirements",
	"7. Feasibility Analysis",
	"8. Implementation Plan",
	"9. Expected Outcomes",
	"10. References",
}

// Renderer writes synopsis PDFs into outputDir.
type Renderer struct {
	outputDir string
}

// NewRenderer creates a renderer targeting outputDir. The directory is
// created on first render.
func NewRenderer(outputDir string) *Renderer {
	return &Renderer{outputDir: outputDir}
}

// OutputDir returns the directory rendered documents are written to.
func (r *Renderer) OutputDir() string {
	return r.outputDir
}

// Render produces the synopsis document for one session and returns the
// generated filename (relative to the output directory). idea is the fallback
// title when the memory holds none.
func (r *Renderer) Render(mem auratypes.SessionMemory, idea string) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := fmt.Sprintf("synopsis_%s.pdf", time.Now().Format("20060102_150405"))
	outputPath := filepath.Join(r.outputDir, filename)

	title := strings.TrimSpace(mem.Title)
	if title == "" {
		title = strings.TrimSpace(idea)
	}
	if title == "" {
		title = "Project Title"
	}
	groupDetails := strings.TrimSpace(mem.GroupDetails)
	if groupDetails == "" {
		groupDetails = "Team Details"
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	translate := pdf.UnicodeTranslatorFromDescriptor("")

	writeTitlePage(pdf, translate, title, groupDetails)
	writeTableOfContents(pdf, translate)

	for _, sec := range buildSections(mem, mem.ResearchResults) {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.MultiCell(0, 8, translate(sec.Heading), "", "L", false)
		pdf.Ln(4)
		for _, b := range sec.Blocks {
			switch b.kind {
			case blockSubheading:
				pdf.Ln(2)
				pdf.SetFont("Helvetica", "BU", 12)
				pdf.MultiCell(0, 7, translate(b.text), "", "L", false)
			case blockBullet:
				pdf.SetFont("Helvetica", "", 11)
				pdf.MultiCell(0, 6, translate("- "+b.text), "", "L", false)
			default:
				pdf.SetFont("Helvetica", "", 11)
				pdf.MultiCell(0, 6, translate(b.text), "", "L", false)
				pdf.Ln(2)
			}
		}
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return "", fmt.Errorf("failed to write synopsis PDF: %w", err)
	}

	logger.Info("Synopsis generated", "filename", filename, "path", outputPath)
	return filename, nil
}

func writeTitlePage(pdf *fpdf.Fpdf, translate func(string) string, title, groupDetails string) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 20)
	pdf.MultiCell(0, 10, translate(title), "", "C", false)
	pdf.Ln(14)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 9, "PROJECT SYNOPSIS", "", "C", false)
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.MultiCell(0, 7, "Submitted for the partial fulfillment of", "", "C", false)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.MultiCell(0, 8, "BACHELOR OF TECHNOLOGY", "", "C", false)
	pdf.Ln(14)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.MultiCell(0, 7, "BRCM COLLEGE OF ENGINEERING & TECHNOLOGY", "", "C", false)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 7, "BAHAL, BHIWANI - 127028", "", "C", false)
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 7, translate("Submitted by: "+groupDetails), "", "C", false)
}

func writeTableOfContents(pdf *fpdf.Fpdf, translate func(string) string) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.MultiCell(0, 8, "TABLE OF CONTENTS", "", "L", false)
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 11)
	for _, item := range tocItems {
		pdf.MultiCell(0, 7, translate(item), "", "L", false)
	}
}
