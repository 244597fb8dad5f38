package dataprocessing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/muhammad-o98/Bike-Accidents-GB/pkg/contracts/domain"
)

// WriteQualityReport persists the data-quality report as indented JSON
// next to the cache, creating the directory if needed.
func WriteQualityReport(path string, report *domain.QualityReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for quality report: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal quality report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write quality report: %w", err)
	}
	return nil
}

// ReadQualityReport loads a previously written quality report.
func ReadQualityReport(path string) (*domain.QualityReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read quality report: %w", err)
	}
	var report domain.QualityReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse quality report: %w", err)
	}
	return &report, nil
}
