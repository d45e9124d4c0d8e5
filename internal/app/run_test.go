package app

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"climate-api/internal/config"
	db "climate-api/internal/db"
	climateviews "climate-api/internal/modules/climate/views"
)

const datasetSQL = `
CREATE TABLE station (id INTEGER PRIMARY KEY, station TEXT, name TEXT, latitude FLOAT, longitude FLOAT, elevation FLOAT);
CREATE TABLE measurement (id INTEGER PRIMARY KEY, station TEXT, date TEXT, prcp FLOAT, tobs FLOAT);
INSERT INTO station (station, name, latitude, longitude, elevation)
  VALUES ('USC00519397', 'WAIKIKI 717.2, HI US', 21.2716, -157.8168, 3.0);
INSERT INTO measurement (station, date, prcp, tobs)
  VALUES ('USC00519397', '2017-01-01', 0.0, 70);
`

func writeDataset(t *testing.T, ddl string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hawaii.sqlite")
	w, err := sql.Open("sqlite3", "file:"+path)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()
	_, err = w.Exec(ddl)
	require.NoError(t, err)
	return path
}

func testConfig(path string) config.Config {
	return config.Config{
		AppEnv:          "dev",
		LogLevel:        slog.LevelError,
		HTTPAddr:        "127.0.0.1:0",
		ShutdownTimeout: 2 * time.Second,
		Driver:          "sqlite3",
		Path:            path,
		MaxOpenConns:    2,
		MaxIdleConns:    2,
	}
}

func TestNewServer_endToEnd(t *testing.T) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, climateviews.LoadTemplates())

	cfg := testConfig(writeDataset(t, datasetSQL))
	conn, err := openStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(conn) })

	srv := NewServer(cfg, conn, prometheus.NewRegistry(), clockwork.NewRealClock())
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{path: "/api/v1.0/stations", status: http.StatusOK, body: `[{"name":"WAIKIKI 717.2, HI US","station":"USC00519397","elevation":3.0}]`},
		{path: "/api/v1.0/2017-01-01/2017-01-01/", status: http.StatusOK, body: `[{"Start Date":"2017-01-01","End Date":"2017-01-01","Average Temperature":70.0,"Max Temperature":70.0,"Minimum Temperature":70.0}]`},
		{path: "/api/v1.0/tobs", status: http.StatusOK, body: `[{"Station":"WAIKIKI 717.2, HI US","Date":"2017-01-01","Temperature":70}]`},
		{path: "/healthz", status: http.StatusOK, body: `{"status":"ok"}`},
		{path: "/readyz", status: http.StatusOK, body: `{"status":"ready"}`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := ts.Client().Get(ts.URL + tt.path)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			b, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.body, strings.TrimSpace(string(b)))
		})
	}

	resp, err := ts.Client().Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(b), `climate_api_http_requests_total{method="GET",route="GET /api/v1.0/stations",status="200"} 1`)
	assert.Contains(t, string(b), "go_goroutines")
}

func TestOpenStore_schemaMismatch(t *testing.T) {
	cfg := testConfig(writeDataset(t, `CREATE TABLE station (id INTEGER PRIMARY KEY, station TEXT)`))

	_, err := openStore(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "climate schema")
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(testConfig(writeDataset(t, datasetSQL))))
	assert.Error(t, Check(testConfig(filepath.Join(t.TempDir(), "absent.sqlite"))))
}

func TestRun_stopsOnCancel(t *testing.T) {
	cfg := testConfig(writeDataset(t, datasetSQL))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg) }()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled), "Run() = %v, want context.Canceled", err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_failsWithoutDataset(t *testing.T) {
	err := Run(context.Background(), testConfig(filepath.Join(t.TempDir(), "absent.sqlite")))
	assert.Error(t, err)
}
