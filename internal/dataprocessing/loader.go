package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jszwec/csvutil"

	apperrors "github.com/muhammad-o98/Bike-Accidents-GB/internal/errors"
	"github.com/muhammad-o98/Bike-Accidents-GB/pkg/contracts/domain"
)

// Required column sets for the two inputs. Time is deliberately absent
// from the accidents contract: the hour feature is optional and a dataset
// without a Time column is still usable.
var (
	accidentColumns = []string{
		"Accident_Index",
		"Date",
		"Severity",
		"Number_of_Vehicles",
		"Number_of_Casualties",
		"Speed_limit",
		"Road_type",
		"Road_conditions",
		"Weather_conditions",
		"Light_conditions",
	}
	casualtyColumns = []string{
		"Accident_Index",
		"Gender",
		"Age_Grp",
	}
)

// LoadAccidents reads the accidents CSV into typed records. It fails with
// FileNotFoundError when the path does not exist and SchemaError when a
// required column is absent; it has no side effects beyond reading.
func LoadAccidents(path string) ([]domain.AccidentRecord, error) {
	var records []domain.AccidentRecord
	if err := loadCSV(path, accidentColumns, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// LoadCasualties reads the bikers CSV into typed records with the same
// error contract as LoadAccidents.
func LoadCasualties(path string) ([]domain.CasualtyRecord, error) {
	var records []domain.CasualtyRecord
	if err := loadCSV(path, casualtyColumns, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// loadCSV decodes a CSV file into out (a pointer to a slice of csv-tagged
// structs) after validating the header against the required column set.
func loadCSV(path string, required []string, out interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &apperrors.FileNotFoundError{Path: path}
		}
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	decoder, err := csvutil.NewDecoder(reader)
	if err != nil {
		return fmt.Errorf("failed to create CSV decoder for %s: %w", path, err)
	}

	if err := checkColumns(path, decoder.Header(), required); err != nil {
		return err
	}

	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// checkColumns verifies every required column appears in the header.
// Header names are compared after trimming, matching how the raw exports
// occasionally pad column names.
func checkColumns(path string, header, required []string) error {
	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[strings.TrimSpace(name)] = true
	}
	for _, column := range required {
		if !present[column] {
			return &apperrors.SchemaError{File: filepath.Base(path), Column: column}
		}
	}
	return nil
}
