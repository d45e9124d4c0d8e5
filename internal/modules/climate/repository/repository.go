package repository

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	"climate-api/internal/modules/climate/types"
)

//go:embed sql/list-dated-temperatures.sql
var listDatedTemperaturesSQL string

//go:embed sql/list-stations.sql
var listStationsSQL string

//go:embed sql/list-station-temperatures.sql
var listStationTemperaturesSQL string

//go:embed sql/summarize-temperatures-from.sql
var summarizeTemperaturesFromSQL string

//go:embed sql/summarize-temperatures-between.sql
var summarizeTemperaturesBetweenSQL string

//go:embed sql/check-schema.sql
var checkSchemaSQL string

// ClimateRepository is the read-only view of the station/measurement dataset.
// Errors from the store are returned as-is; nothing is retried.
type ClimateRepository interface {
	ListDatedTemperatures(r types.DateRange) ([]types.DatedTemperature, error)
	ListStations() ([]types.Station, error)
	ListStationTemperatures(r types.DateRange) ([]types.StationTemperature, error)
	SummarizeTemperatures(r types.DateRange) (types.TemperatureSummary, error)
	CheckSchema() error
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ClimateRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) ListDatedTemperatures(dr types.DateRange) ([]types.DatedTemperature, error) {
	rows, err := r.db.Query(listDatedTemperaturesSQL, dr.Start, dr.End)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close dated temperature rows", "error", err)
		}
	}()
	out := []types.DatedTemperature{}
	for rows.Next() {
		var (
			rec  types.DatedTemperature
			tobs float64
		)
		if err := rows.Scan(&rec.Date, &tobs); err != nil {
			return nil, err
		}
		rec.Temperature = types.Float(tobs)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) ListStations() ([]types.Station, error) {
	rows, err := r.db.Query(listStationsSQL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close stations rows", "error", err)
		}
	}()
	out := []types.Station{}
	for rows.Next() {
		var (
			s         types.Station
			elevation float64
		)
		if err := rows.Scan(&s.Name, &s.Code, &elevation); err != nil {
			return nil, err
		}
		s.Elevation = types.Float(elevation)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) ListStationTemperatures(dr types.DateRange) ([]types.StationTemperature, error) {
	rows, err := r.db.Query(listStationTemperaturesSQL, dr.Start, dr.End)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close station temperature rows", "error", err)
		}
	}()
	out := []types.StationTemperature{}
	for rows.Next() {
		var (
			rec  types.StationTemperature
			tobs float64
		)
		if err := rows.Scan(&rec.Station, &rec.Date, &tobs); err != nil {
			return nil, err
		}
		// int() truncates toward zero: 71.9 -> 71, -0.5 -> 0.
		rec.Temperature = int(tobs)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SummarizeTemperatures aggregates tobs over the range. When no row matches,
// the aggregates are NULL and the scan into float64 fails; that error is
// returned unchanged.
func (r *repositoryImpl) SummarizeTemperatures(dr types.DateRange) (types.TemperatureSummary, error) {
	var row *sql.Row
	if dr.Open() {
		row = r.db.QueryRow(summarizeTemperaturesFromSQL, dr.Start)
	} else {
		row = r.db.QueryRow(summarizeTemperaturesBetweenSQL, dr.Start, dr.End)
	}

	var avg, maxTobs, minTobs float64
	if err := row.Scan(&avg, &maxTobs, &minTobs); err != nil {
		return types.TemperatureSummary{}, err
	}
	return types.TemperatureSummary{
		StartDate: dr.Start,
		EndDate:   dr.End,
		Average:   types.Float(avg),
		Max:       types.Float(maxTobs),
		Min:       types.Float(minTobs),
	}, nil
}

// CheckSchema confirms every column the queries above read is present.
func (r *repositoryImpl) CheckSchema() error {
	rows, err := r.db.Query(checkSchemaSQL)
	if err != nil {
		return fmt.Errorf("climate schema: %w", err)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("climate schema: %w", err)
	}
	return nil
}
