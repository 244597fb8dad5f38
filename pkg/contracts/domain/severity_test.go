package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  Severity
		ok    bool
	}{
		{name: "slight", label: "Slight", want: SeveritySlight, ok: true},
		{name: "serious", label: "Serious", want: SeveritySerious, ok: true},
		{name: "fatal", label: "Fatal", want: SeverityFatal, ok: true},
		{name: "lowercase", label: "fatal", want: SeverityFatal, ok: true},
		{name: "padded", label: "  Serious  ", want: SeveritySerious, ok: true},
		{name: "unknown", label: "Catastrophic", ok: false},
		{name: "empty", label: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseSeverity(tt.label)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSeverityOrdinalOrdering(t *testing.T) {
	// The ordinal encoding is a schema contract: Slight < Serious < Fatal.
	assert.Equal(t, Severity(0), SeveritySlight)
	assert.Equal(t, Severity(1), SeveritySerious)
	assert.Equal(t, Severity(2), SeverityFatal)
	assert.True(t, SeveritySlight < SeveritySerious)
	assert.True(t, SeveritySerious < SeverityFatal)
}

func TestSeverityJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(SeverityFatal)
	require.NoError(t, err)
	assert.Equal(t, `"Fatal"`, string(data))

	var s Severity
	require.NoError(t, json.Unmarshal([]byte(`"Serious"`), &s))
	assert.Equal(t, SeveritySerious, s)

	require.NoError(t, json.Unmarshal([]byte(`2`), &s))
	assert.Equal(t, SeverityFatal, s)

	assert.Error(t, json.Unmarshal([]byte(`"Unknown"`), &s))
	assert.Error(t, json.Unmarshal([]byte(`7`), &s))

	_, err = json.Marshal(Severity(9))
	assert.Error(t, err)
}
