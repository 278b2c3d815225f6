package health

import (
	"archive/zip"
	"io"
	"strings"

	apperrors "github.com/yungbote/mindbridge-backend/internal/pkg/errors"
)

// ExportPath is where Apple Health places the export document inside its archive.
const ExportPath = "apple_health_export/export.xml"

// OpenExport locates the export document inside a ZIP archive. The caller closes the
// returned reader. Nothing is decompressed until it is read.
func OpenExport(r io.ReaderAt, size int64) (io.ReadCloser, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, &apperrors.InvalidArchiveError{Err: err}
	}
	f := findZipFile(zr.File, ExportPath)
	if f == nil {
		return nil, &apperrors.MissingExportError{Path: ExportPath}
	}
	rc, err := f.Open()
	if err != nil {
		return nil, &apperrors.InvalidArchiveError{Err: err}
	}
	return rc, nil
}

func findZipFile(files []*zip.File, target string) *zip.File {
	for _, f := range files {
		if f == nil {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(f.Name), target) {
			return f
		}
	}
	return nil
}
