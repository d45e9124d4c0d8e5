package controller

import (
	"net/http"

	"climate-api/internal/modules/climate/repository"
)

type ClimateController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type climateControllerImpl struct {
	repository repository.ClimateRepository
}

func NewClimateController(repository repository.ClimateRepository) ClimateController {
	return &climateControllerImpl{repository: repository}
}

func (c *climateControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", c.handleHome)
	mux.HandleFunc("GET "+apiPrefix+"/precipitation", c.handlePrecipitation)
	mux.HandleFunc("GET "+apiPrefix+"/stations", c.handleStations)
	mux.HandleFunc("GET "+apiPrefix+"/tobs", c.handleTemperatureObservations)
	mux.HandleFunc("GET "+apiPrefix+"/{start}", c.handleSummaryFrom)
	mux.HandleFunc("GET "+apiPrefix+"/{start}/{end}/{$}", c.handleSummaryBetween)
	mux.HandleFunc("GET "+apiPrefix+"/{start}/{end}", redirectToTrailingSlash)
}
