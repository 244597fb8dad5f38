package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "file not found",
			err:  &FileNotFoundError{Path: "data/Accidents.csv"},
			want: "input file not found: data/Accidents.csv",
		},
		{
			name: "schema",
			err:  &SchemaError{File: "Bikers.csv", Column: "Accident_Index"},
			want: `Bikers.csv: required column "Accident_Index" is missing`,
		},
		{
			name: "key mismatch",
			err:  &KeyMismatchError{Key: "Accident_Index", Left: 10, Right: 4},
			want: `join on "Accident_Index" produced no rows (10 left, 4 right records share no keys)`,
		},
		{
			name: "unknown category",
			err:  &UnknownCategoryError{Column: "severity", Value: "Catastrophic", Row: 7},
			want: `row 7: unrecognized severity value "Catastrophic"`,
		},
		{
			name: "malformed value",
			err:  &MalformedValueError{Column: "speed_limit", Value: "fast", Row: 3},
			want: `row 3: malformed speed_limit value "fast"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.want)
		})
	}
}

func TestPipelineErrorsUnwrapWithAs(t *testing.T) {
	wrapped := fmt.Errorf("loading accidents: %w", &SchemaError{File: "Accidents.csv", Column: "Date"})

	var schemaErr *SchemaError
	assert.True(t, errors.As(wrapped, &schemaErr))
	assert.Equal(t, "Date", schemaErr.Column)

	var notFound *FileNotFoundError
	assert.False(t, errors.As(wrapped, &notFound))
}
