package httpapi

import (
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"climate-api/internal/config"
)

func NewServer(cfg config.Config, mux *http.ServeMux, m *Metrics, clock clockwork.Clock) *http.Server {
	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      instrument(mux, m, clock),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
