package httpapi

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMux returns a mux carrying the operational endpoints. Feature modules
// register their own routes on it afterwards.
func NewMux(db *sql.DB, ready ReadinessChecker, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, db, ready)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}
