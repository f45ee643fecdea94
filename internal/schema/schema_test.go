package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	doc := []byte(`{
		"request/latency": {"type": "timer", "dimensions": ["host", "dataSource", "host"]},
		"query/count": {"type": "count", "dimensions": []},
		"jvm/mem/used": {"type": "gauge", "dimensions": ["memKind"], "help": "Used memory.", "conversionFactor": 0}
	}`)

	s, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, s, 3)

	latency := s["request/latency"]
	require.Equal(t, TypeTimer, latency.Type)
	require.Equal(t, []string{"dataSource", "host"}, latency.Dimensions)
	require.Equal(t, 1.0, latency.ConversionFactor)

	require.Empty(t, s["query/count"].Dimensions)
	require.Equal(t, "Used memory.", s["jvm/mem/used"].Help)
	require.Equal(t, 1.0, s["jvm/mem/used"].ConversionFactor)

	require.Equal(t, []string{"jvm/mem/used", "query/count", "request/latency"}, s.Names())
}

func TestParse_AcceptsYAML(t *testing.T) {
	doc := []byte(`
query/time:
  type: timer
  conversionFactor: 1000
  dimensions: [type, dataSource]
`)
	s, err := Parse(doc)
	require.NoError(t, err)
	require.Equal(t, []string{"dataSource", "type"}, s["query/time"].Dimensions)
	require.Equal(t, 1000.0, s["query/time"].ConversionFactor)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "malformed", doc: `{"a": {"type": "count", "dimensions": [}`},
		{name: "empty document", doc: ``},
		{name: "empty dimension", doc: `{"a": {"type": "count", "dimensions": [""]}}`},
		{name: "negative factor", doc: `{"a": {"type": "timer", "dimensions": [], "conversionFactor": -1}}`},
		{name: "empty metric name", doc: `{"": {"type": "count", "dimensions": []}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
		})
	}
}

func TestParse_KeepsUnknownTypes(t *testing.T) {
	s, err := Parse([]byte(`{"a": {"type": "summary", "dimensions": []}}`))
	require.NoError(t, err)
	require.Equal(t, "summary", s["a"].Type)
}

func TestLoad_Default(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	require.NotEmpty(t, s)

	qt, ok := s["query/time"]
	require.True(t, ok)
	require.Equal(t, TypeTimer, qt.Type)
	require.Equal(t, []string{"dataSource", "type"}, qt.Dimensions)
	require.Equal(t, 1000.0, qt.ConversionFactor)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"x/y": {"type": "gauge", "dimensions": ["b", "a"]}}`), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, s["x/y"].Dimensions)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
