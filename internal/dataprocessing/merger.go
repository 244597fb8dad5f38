package dataprocessing

import (
	apperrors "github.com/muhammad-o98/Bike-Accidents-GB/internal/errors"
	"github.com/muhammad-o98/Bike-Accidents-GB/pkg/contracts/domain"
)

// joinKey is the shared identifier the two inputs are merged on.
const joinKey = "Accident_Index"

// Merge inner-joins accidents and casualties on Accident_Index, producing
// one row per matching accident x casualty pair. Rows without a
// counterpart on either side are dropped: only accidents with matched
// casualty records are analyzed. A join whose key sets are entirely
// disjoint is a structural failure, not an empty result.
func Merge(accidents []domain.AccidentRecord, casualties []domain.CasualtyRecord) ([]domain.MergedRecord, error) {
	byIndex := make(map[string][]domain.AccidentRecord, len(accidents))
	for _, accident := range accidents {
		byIndex[accident.AccidentIndex] = append(byIndex[accident.AccidentIndex], accident)
	}

	merged := make([]domain.MergedRecord, 0, len(casualties))
	for _, casualty := range casualties {
		for _, accident := range byIndex[casualty.AccidentIndex] {
			merged = append(merged, domain.MergedRecord{Accident: accident, Casualty: casualty})
		}
	}

	if len(merged) == 0 {
		return nil, &apperrors.KeyMismatchError{
			Key:   joinKey,
			Left:  len(accidents),
			Right: len(casualties),
		}
	}
	return merged, nil
}
