package service

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-admin/internal/models"
	appErrors "github.com/noah-isme/sma-adp-admin/pkg/errors"
	"github.com/noah-isme/sma-adp-admin/pkg/export"
)

// ExportFormat names a supported download format.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatXLSX ExportFormat = "xlsx"
)

var exportContentTypes = map[ExportFormat]string{
	ExportFormatCSV:  "text/csv; charset=utf-8",
	ExportFormatPDF:  "application/pdf",
	ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ExportResult is a rendered download.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportService renders the rows currently displayed in a view.
type ExportService struct {
	renderers map[ExportFormat]datasetRenderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService with the csv, pdf and xlsx
// renderers.
func NewExportService(logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		renderers: map[ExportFormat]datasetRenderer{
			ExportFormatCSV:  export.NewCSVExporter(),
			ExportFormatPDF:  export.NewPDFExporter(),
			ExportFormatXLSX: export.NewXLSXExporter(),
		},
		logger: logger,
		now:    time.Now,
	}
}

// ParseExportFormat validates a user supplied format; "" means csv.
func ParseExportFormat(raw string) (ExportFormat, error) {
	format := ExportFormat(strings.ToLower(strings.TrimSpace(raw)))
	if format == "" {
		return ExportFormatCSV, nil
	}
	if _, ok := exportContentTypes[format]; !ok {
		return "", appErrors.Clone(appErrors.ErrBadRequest, fmt.Sprintf("unsupported export format %q", raw))
	}
	return format, nil
}

// Render builds the table for kind's rows and renders it as format.
func (s *ExportService) Render(kind models.Kind, rows []models.Record, format ExportFormat) (*ExportResult, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrBadRequest, fmt.Sprintf("unsupported export format %q", format))
	}
	payload, err := renderer.Render(BuildDataset(kind, rows))
	if err != nil {
		s.logger.Error("export failed", zap.String("kind", kind.Name), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportResult{
		Filename:    fmt.Sprintf("%s_%s.%s", kind.Plural, s.now().UTC().Format("20060102_150405"), format),
		ContentType: exportContentTypes[format],
		Payload:     payload,
	}, nil
}

// BuildDataset lays rows out with the same columns as the view's table.
func BuildDataset(kind models.Kind, rows []models.Record) export.Dataset {
	data := export.Dataset{
		Title:   kind.Plural,
		Headers: []string{kind.FirstNameLabel, "Last Name", kind.CategoryLabel},
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		data.Rows = append(data.Rows, []string{r.FirstName, r.LastName, r.Category})
	}
	return data
}
