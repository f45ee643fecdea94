package exporter

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/neox5/emitbox/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type pushRecord struct {
	method string
	path   string
	body   string
}

func fakePushgateway(t *testing.T) (*httptest.Server, func() []pushRecord) {
	t.Helper()
	var (
		mu      sync.Mutex
		records []pushRecord
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		records = append(records, pushRecord{method: r.Method, path: r.URL.Path, body: string(body)})
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	return srv, func() []pushRecord {
		mu.Lock()
		defer mu.Unlock()
		return append([]pushRecord(nil), records...)
	}
}

func TestPushgatewayExporter_Push(t *testing.T) {
	srv, records := fakePushgateway(t)

	reg := prometheus.NewRegistry()
	testGauge(reg).Set(7)

	cfg := &config.PushgatewayExportConfig{Enabled: true, Address: srv.URL, Job: "druid"}
	e := NewPushgatewayExporter(cfg, reg)

	require.NoError(t, e.Push(t.Context()))

	got := records()
	require.Len(t, got, 1)
	require.Equal(t, http.MethodPut, got[0].method)
	require.Equal(t, "/metrics/job/druid", got[0].path)
	require.NotEmpty(t, got[0].body)
}

func TestPushgatewayExporter_StopDeletes(t *testing.T) {
	srv, records := fakePushgateway(t)

	cfg := &config.PushgatewayExportConfig{
		Enabled:          true,
		Address:          srv.URL,
		Job:              "druid",
		DeleteOnShutdown: true,
	}
	e := NewPushgatewayExporter(cfg, prometheus.NewRegistry())

	require.NoError(t, e.Stop())

	got := records()
	require.Len(t, got, 1)
	require.Equal(t, http.MethodDelete, got[0].method)
	require.Equal(t, "/metrics/job/druid", got[0].path)
}

func TestPushgatewayExporter_PushError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	testGauge(reg)

	cfg := &config.PushgatewayExportConfig{Enabled: true, Address: srv.URL, Job: "druid"}
	e := NewPushgatewayExporter(cfg, reg)

	require.Error(t, e.Push(t.Context()))
}
