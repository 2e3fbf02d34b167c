package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// NewDownloadID returns an opaque id for a stored prediction result.
func NewDownloadID() string {
	return uuid.NewString()
}

// ValidDownloadID reports whether id could have come from NewDownloadID.
func ValidDownloadID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// CheckCSVFilename rejects uploads that are not .csv files.
func CheckCSVFilename(name string) error {
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return fmt.Errorf("expected a .csv file, got %q", name)
	}
	return nil
}

// ProcessingError is the single message shown for any failure while handling an upload.
func ProcessingError(err error) string {
	return fmt.Sprintf("an error occurred while processing your file: %v", err)
}
