package climate

import (
	"net/http"

	"climate-api/internal/modules/climate/controller"
	"climate-api/internal/modules/climate/repository"
)

func RegisterFeature(mux *http.ServeMux, climateRepository repository.ClimateRepository) {
	climateController := controller.NewClimateController(climateRepository)
	climateController.RegisterRoutes(mux)
}
