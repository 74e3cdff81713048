package export

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// OutputManager handles output directory organization and path management.
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager.
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{
		BaseOutputDir: baseOutputDir,
	}
}

// NewRunID returns a fresh run identifier.
func (om *OutputManager) NewRunID() string {
	return uuid.NewString()
}

// CreateRunDir creates the directory holding one run's outputs.
func (om *OutputManager) CreateRunDir(runID string) (string, error) {
	if runID == "" || filepath.Base(runID) != runID {
		return "", errors.Newf("invalid run id %q", runID)
	}

	runDir := filepath.Join(om.BaseOutputDir, runID)

	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create run output directory")
	}

	return runDir, nil
}

// EnsureOutputDirExists ensures the base output directory exists.
func (om *OutputManager) EnsureOutputDirExists() error {
	return os.MkdirAll(om.BaseOutputDir, 0o755)
}

// FileType determines the file type based on extension.
func FileType(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return "csv"
	case ".xlsx", ".xlsm":
		return "excel"
	case ".zip":
		return "archive"
	default:
		return "unknown"
	}
}
