package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/austinm2151/ECON-434-FinalProject/internal/errors"
)

// Table file extensions accepted as run inputs
var (
	TableExtensions = []string{".csv", ".txt", ".xlsx", ".xlsm"}
	StataExtensions = []string{".dta"}
)

// FileValidator checks run inputs and the report directory before any
// table is read
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateFile checks that path is an existing, readable, non-empty file
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return apperrors.Newf(apperrors.KindInvalidInput, "validate", "file %s does not exist", path)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.KindInvalidInput, "validate", err,
			fmt.Sprintf("failed to stat file %s", path))
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return apperrors.Newf(apperrors.KindInvalidInput, "validate", "%s is a directory, not a file", path)
	}
	if info.Size() == 0 {
		return apperrors.Newf(apperrors.KindInvalidInput, "validate", "file %s is empty", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.Wrap(apperrors.KindInvalidInput, "validate", err,
			fmt.Sprintf("file %s is not readable", path))
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateTable checks an input table: it must exist, carry a supported
// extension and not be an Excel lock file
func (v *FileValidator) ValidateTable(path string, allowStata bool) error {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Refusing temporary Excel file",
			slog.String("file", path))
		return apperrors.Newf(apperrors.KindInvalidInput, "validate", "file %s is a temporary Excel file", path)
	}

	allowed := TableExtensions
	if allowStata {
		allowed = append(append([]string(nil), TableExtensions...), StataExtensions...)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !contains(allowed, ext) {
		return apperrors.Newf(apperrors.KindInvalidInput, "validate",
			"file %s has unsupported extension %q (want one of %s)", path, ext, strings.Join(allowed, ", "))
	}

	return v.ValidateFile(path)
}

// ValidateOutputDirectory ensures dir exists and is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// IsStata reports whether path names a Stata dta file
func IsStata(path string) bool {
	return contains(StataExtensions, strings.ToLower(filepath.Ext(path)))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
