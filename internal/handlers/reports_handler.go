package handlers

import (
	"bytes"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"todolist/internal/pdf"
	"todolist/internal/services"
)

type ReportHandler struct {
	digest *services.DigestService
	pdfGen *pdf.ReportGenerator
}

func NewReportHandler(digest *services.DigestService, pdfGen *pdf.ReportGenerator) *ReportHandler {
	return &ReportHandler{digest: digest, pdfGen: pdfGen}
}

// MetricsPDF godoc
// @Summary  Metrics report as PDF
// @Tags     Todos
// @Produce  application/pdf
// @Success  200  {file}    file
// @Failure  500  {object}  ErrorResponse
// @Router   /api/todos/metrics/report.pdf [get]
func (h *ReportHandler) MetricsPDF(c *gin.Context) {
	d, err := h.digest.Build(c.Request.Context())
	if err != nil {
		respondError(c, "report", "pdf", err)
		return
	}

	var buf bytes.Buffer
	if err := h.pdfGen.Write(&buf, ReportFromDigest(d, time.Now())); err != nil {
		respondError(c, "report", "pdf", err)
		return
	}
	log.Printf("[report][pdf][ok] rid=%s bytes=%d", requestID(c), buf.Len())
	c.Header("Content-Disposition", `inline; filename="metrics.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// ReportFromDigest converts a digest into the PDF report payload.
func ReportFromDigest(d *services.Digest, at time.Time) pdf.MetricsReport {
	return pdf.MetricsReport{
		GeneratedAt: at,
		Total:       d.Total,
		Open:        d.Open,
		Done:        d.Done,
		Overdue:     d.Overdue,
		DueToday:    d.DueToday,
		Metrics:     d.Metrics,
	}
}
