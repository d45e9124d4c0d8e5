package httpapi

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"climate-api/internal/utils"
)

// ReadinessChecker reports whether the store can serve the climate queries.
type ReadinessChecker interface {
	CheckSchema() error
}

type healthchecker interface {
	handleHealthz(w http.ResponseWriter, r *http.Request)
	handleReadyz(w http.ResponseWriter, r *http.Request)
}

type healthcheckerImpl struct {
	db    *sql.DB
	ready ReadinessChecker
}

func NewHealthchecker(db *sql.DB, ready ReadinessChecker) healthchecker {
	return &healthcheckerImpl{db: db, ready: ready}
}

func (h *healthcheckerImpl) handleHealthz(w http.ResponseWriter, r *http.Request) {
	var ok int
	if err := h.db.QueryRowContext(r.Context(), `SELECT 1`).Scan(&ok); err != nil {
		slog.Error("failed to check database connectivity", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to check database connectivity")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *healthcheckerImpl) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- h.ready.CheckSchema() }()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		slog.Warn("readiness check failed", "error", err)
		utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func registerHealthcheck(mux *http.ServeMux, db *sql.DB, ready ReadinessChecker) {
	healthchecker := NewHealthchecker(db, ready)
	mux.HandleFunc("GET /healthz", healthchecker.handleHealthz)
	mux.HandleFunc("GET /readyz", healthchecker.handleReadyz)
}
