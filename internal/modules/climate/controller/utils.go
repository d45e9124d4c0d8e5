package controller

import (
	"net/http"

	"climate-api/internal/modules/climate/types"
	"climate-api/internal/modules/climate/views"
)

const apiPrefix = "/api/v1.0"

// The dataset ends on 2017-08-23; "last year" is the twelve months up to it.
const (
	datasetFirstDate = "2010-01-01"
	lastYearStart    = "2016-08-24"
	lastYearEnd      = "2017-08-23"
)

var lastYear = types.DateRange{Start: lastYearStart, End: lastYearEnd}

var homeRoutes = []views.Route{
	{Path: apiPrefix + "/precipitation", Description: "Returns dates and temperature from the last year."},
	{Path: apiPrefix + "/stations", Description: "Returns a json list of stations."},
	{Path: apiPrefix + "/tobs", Description: "Returns list of Temperature Observations (tobs) for previous year."},
	{Path: apiPrefix + "/yyyy-mm-dd", Description: "Returns an Average, Max, and Min temperatures for a given start date."},
	{Path: apiPrefix + "/yyyy-mm-dd/yyyy-mm-dd/", Description: "Returns an Average, Max, and Min temperatures for a given date range."},
}

func homeData() *views.HomeData {
	return &views.HomeData{
		Title:     "Hawaii Climate API",
		FirstDate: datasetFirstDate,
		LastDate:  lastYearEnd,
		Routes:    homeRoutes,
	}
}

// pathDateRange reads the start (and, if present, end) path values verbatim.
// Dates are not validated; a malformed value simply matches nothing.
func pathDateRange(r *http.Request) types.DateRange {
	return types.DateRange{
		Start: r.PathValue("start"),
		End:   r.PathValue("end"),
	}
}

func redirectToTrailingSlash(w http.ResponseWriter, r *http.Request) {
	u := *r.URL
	u.Path += "/"
	http.Redirect(w, r, u.String(), http.StatusMovedPermanently)
}
