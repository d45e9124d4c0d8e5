package controller

import (
	"bytes"
	"log/slog"
	"net/http"

	"climate-api/internal/modules/climate/types"
	"climate-api/internal/modules/climate/views"
	"climate-api/internal/utils"
)

func (c *climateControllerImpl) handleHome(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := views.RenderHome(&buf, homeData()); err != nil {
		slog.Error("home template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	utils.WriteHTML(w, http.StatusOK, buf.Bytes())
}

func (c *climateControllerImpl) handlePrecipitation(w http.ResponseWriter, r *http.Request) {
	rows, err := c.repository.ListDatedTemperatures(lastYear)
	if err != nil {
		slog.Error("precipitation: query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, rows)
}

func (c *climateControllerImpl) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := c.repository.ListStations()
	if err != nil {
		slog.Error("stations: query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, stations)
}

func (c *climateControllerImpl) handleTemperatureObservations(w http.ResponseWriter, r *http.Request) {
	observations, err := c.repository.ListStationTemperatures(lastYear)
	if err != nil {
		slog.Error("tobs: query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, observations)
}

func (c *climateControllerImpl) handleSummaryFrom(w http.ResponseWriter, r *http.Request) {
	c.writeSummary(w, pathDateRange(r))
}

func (c *climateControllerImpl) handleSummaryBetween(w http.ResponseWriter, r *http.Request) {
	c.writeSummary(w, pathDateRange(r))
}

// writeSummary wraps the single aggregate row in a one-element list to match
// the list routes.
func (c *climateControllerImpl) writeSummary(w http.ResponseWriter, dr types.DateRange) {
	summary, err := c.repository.SummarizeTemperatures(dr)
	if err != nil {
		slog.Error("summary: query failed", "start", dr.Start, "end", dr.End, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, []types.TemperatureSummary{summary})
}
