package pdf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"todolist/internal/models"
)

// MetricsReport is the data rendered into the metrics PDF.
type MetricsReport struct {
	GeneratedAt time.Time
	Total       int
	Open        int
	Done        int
	Overdue     int
	DueToday    int
	Metrics     models.Metrics
}

// ReportGenerator renders metrics reports with gofpdf.
type ReportGenerator struct {
	RootDir  string // where saved reports go, e.g. "./files"
	FontPath string // optional TTF; core Helvetica is used without it
	fontName string
}

func NewReportGenerator(rootDir, fontPath string) *ReportGenerator {
	g := &ReportGenerator{
		RootDir:  filepath.Clean(rootDir),
		FontPath: fontPath,
		fontName: "Helvetica",
	}
	if fontPath != "" {
		if _, err := os.Stat(fontPath); err == nil {
			g.fontName = "DejaVu"
		}
	}
	return g
}

// Write renders the report as PDF into w.
func (g *ReportGenerator) Write(w io.Writer, r MetricsReport) error {
	pdf := g.render(r)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render metrics report: %w", err)
	}
	return nil
}

// Save renders the report into RootDir and returns the file path.
func (g *ReportGenerator) Save(r MetricsReport) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	path := filepath.Join(g.RootDir, fmt.Sprintf("metrics_%s.pdf", r.GeneratedAt.Format("20060102_150405")))
	pdf := g.render(r)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("save metrics report: %w", err)
	}
	return path, nil
}

func (g *ReportGenerator) render(r MetricsReport) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Todo metrics", false)
	pdf.SetAuthor("todolist", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	g.setupFont(pdf)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "Todo metrics", "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 7, "Generated "+r.GeneratedAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	g.hr(pdf)

	g.sectionTitle(pdf, "List")
	g.kvLine(pdf, "Total", fmt.Sprintf("%d", r.Total))
	g.kvLine(pdf, "Open", fmt.Sprintf("%d", r.Open))
	g.kvLine(pdf, "Done", fmt.Sprintf("%d", r.Done))
	g.kvLine(pdf, "Overdue", fmt.Sprintf("%d", r.Overdue))
	g.kvLine(pdf, "Due today", fmt.Sprintf("%d", r.DueToday))
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, "Average time to finish (minutes)")
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(60, 7, "Tier", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, "Average", "1", 1, "R", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	row := func(label string, avg models.Average) {
		pdf.CellFormat(60, 7, label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, avg.String(), "1", 1, "R", false, 0, "")
	}
	row("All", r.Metrics.AvgTime)
	for _, p := range models.Priorities {
		row(p.String(), r.Metrics.ForPriority(p))
	}

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	return pdf
}

func (g *ReportGenerator) setupFont(pdf *gofpdf.Fpdf) {
	if g.fontName != "DejaVu" {
		return
	}
	pdf.AddUTF8Font(g.fontName, "", g.FontPath)
	pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
}

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}
