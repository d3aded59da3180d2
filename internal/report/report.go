// Package report renders evaluation results into the output folder: the
// violations CSV and summary, plus the audit trail files describing how the
// input was interpreted.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/schedeval/schedeval/internal/catalog"
	"github.com/schedeval/schedeval/internal/config"
	"github.com/schedeval/schedeval/internal/evaluate"
	"github.com/schedeval/schedeval/pkg/export"
)

// Output file names.
const (
	ViolationsCSVFile   = "violations_analyzed.csv"
	SummaryFile         = "violations_summary.txt"
	SummaryPDFFile      = "violations_summary.pdf"
	UnmappedFile        = "unmapped_subjects.txt"
	ConflictsFile       = "data_conflicts.txt"
	StructuralFile      = "structural_violations.csv"
	UnificationFile     = "meeting_unification.txt"
	SectionsFile        = "sections_summary.txt"
	EntityGroupingsFile = "entity_groupings.txt"
)

type Reporter interface {
	WriteAll(dir string, result *evaluate.Result) error
}

func NewReporter(cat *catalog.Catalog, cfg config.Config, logger *zap.Logger) Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &reporter{
		catalog: cat,
		config:  cfg,
		logger:  logger,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		now:     time.Now,
	}
}

type reporter struct {
	catalog *catalog.Catalog
	config  config.Config
	logger  *zap.Logger
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	now     func() time.Time
}

func (r *reporter) WriteAll(dir string, result *evaluate.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output folder %s: %w", dir, err)
	}

	violationsCSV, err := r.csv.Render(violationsDataset(result))
	if err != nil {
		return err
	}
	files := map[string][]byte{
		ViolationsCSVFile:   violationsCSV,
		SummaryFile:         []byte(r.summaryText(result)),
		UnificationFile:     []byte(r.unificationText(result)),
		SectionsFile:        []byte(r.sectionsText(result)),
		EntityGroupingsFile: []byte(r.groupingsText(result)),
	}

	if pdfBytes, err := r.summaryPDF(result); err != nil {
		// A PDF failure never blocks the text reports
		r.logger.Warn("summary pdf failed", zap.Error(err))
	} else {
		files[SummaryPDFFile] = pdfBytes
	}

	if len(result.UnmappedSubjects) > 0 {
		files[UnmappedFile] = []byte(unmappedText(result.UnmappedSubjects))
	}
	if conflicts := allConflicts(result); len(conflicts) > 0 {
		files[ConflictsFile] = []byte(conflictsText(conflicts))
	}
	if structural := structuralDataset(result); len(structural.Rows) > 0 {
		if files[StructuralFile], err = r.csv.Render(structural); err != nil {
			return err
		}
	}

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return fmt.Errorf("write report %s: %w", path, err)
		}
	}

	r.logger.Info("reports written", zap.String("folder", dir), zap.Int("files", len(files)))
	return nil
}
