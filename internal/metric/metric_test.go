package metric

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "request/latency", want: "request_latency"},
		{in: "query/cache/total/numEntries", want: "query_cache_total_numentries"},
		{in: "Jvm/GC/count", want: "jvm_gc_count"},
		{in: "a.b-c d", want: "a_b_c_d"},
		{in: "ns:metric_1", want: "ns:metric_1"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Normalize(tt.in)
			require.Equal(t, tt.want, got)
			require.Equal(t, got, Normalize(got), "normalize must be idempotent")
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindCount, KindGauge, KindTimer} {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		require.Equal(t, k, got)
	}

	_, err := ParseKind("summary")
	require.Error(t, err)
}
