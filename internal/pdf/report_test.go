package pdf

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"todolist/internal/models"
)

func sampleReport() MetricsReport {
	return MetricsReport{
		GeneratedAt: time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC),
		Total:       3,
		Open:        2,
		Done:        1,
		Metrics: models.Metrics{
			AvgTime:    models.Average{Minutes: 15, Valid: true},
			AvgTimeLow: models.Average{Minutes: 15, Valid: true},
		},
	}
}

func TestWriteProducesPDF(t *testing.T) {
	g := NewReportGenerator(t.TempDir(), "")
	var buf bytes.Buffer
	if err := g.Write(&buf, sampleReport()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("expected PDF header, got %q", buf.Bytes()[:8])
	}
}

func TestSaveWritesFileUnderRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "reports")
	g := NewReportGenerator(root, "missing-font.ttf")
	path, err := g.Save(sampleReport())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Dir(path) != root || filepath.Base(path) != "metrics_20240510_080000.pdf" {
		t.Fatalf("unexpected path %q", path)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Fatalf("expected non-empty file, err=%v", err)
	}
}
