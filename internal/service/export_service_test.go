package service

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-admin/internal/models"
	appErrors "github.com/noah-isme/sma-adp-admin/pkg/errors"
	"github.com/noah-isme/sma-adp-admin/pkg/export"
)

type failingRenderer struct{}

func (failingRenderer) Render(export.Dataset) ([]byte, error) { return nil, errors.New("disk full") }

func newExportServiceForTest() *ExportService {
	svc := NewExportService(zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }
	return svc
}

func rowsForExport() []models.Record {
	return []models.Record{
		{ID: "1", FirstName: "Ann", LastName: "Lee", Category: "N58"},
		{ID: "2", FirstName: "Bob", LastName: "Ray", Category: "N30"},
	}
}

func TestParseExportFormat(t *testing.T) {
	format, err := ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatCSV, format)

	format, err = ParseExportFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatXLSX, format)

	_, err = ParseExportFormat("docx")
	assert.True(t, appErrors.Is(err, appErrors.ErrBadRequest))
}

func TestExportServiceRenderCSV(t *testing.T) {
	svc := newExportServiceForTest()
	result, err := svc.Render(models.StudentKind(""), rowsForExport(), ExportFormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "students_20240501_093000.csv", result.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", result.ContentType)
	assert.Equal(t, "First Name,Last Name,Group\nAnn,Lee,N58\nBob,Ray,N30\n", string(result.Payload))
}

func TestExportServiceRenderPDFAndXLSX(t *testing.T) {
	svc := newExportServiceForTest()

	pdf, err := svc.Render(models.TeacherKind(""), nil, ExportFormatPDF)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf.Payload, []byte("%PDF")))

	xlsx, err := svc.Render(models.TeacherKind(""), rowsForExport(), ExportFormatXLSX)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(xlsx.Payload, []byte("PK")))
	assert.Equal(t, "teachers_20240501_093000.xlsx", xlsx.Filename)
}

func TestExportServiceRendererFailure(t *testing.T) {
	svc := newExportServiceForTest()
	svc.renderers[ExportFormatCSV] = failingRenderer{}

	_, err := svc.Render(models.TeacherKind(""), rowsForExport(), ExportFormatCSV)
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))

	_, err = svc.Render(models.TeacherKind(""), rowsForExport(), ExportFormat("odt"))
	assert.True(t, appErrors.Is(err, appErrors.ErrBadRequest))
}

func TestBuildDatasetUsesKindColumns(t *testing.T) {
	data := BuildDataset(models.TeacherKind(""), []models.Record{{FirstName: "Ann", LastName: "Lee", Category: "Senior"}})
	assert.Equal(t, []string{"Name", "Last Name", "Level"}, data.Headers)
	assert.Equal(t, [][]string{{"Ann", "Lee", "Senior"}}, data.Rows)
	assert.Equal(t, "teachers", data.Title)

	students := BuildDataset(models.StudentKind(""), nil)
	assert.Equal(t, []string{"First Name", "Last Name", "Group"}, students.Headers)
}
