package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"

	intconfig "busgo/internal/config"
	"busgo/internal/domain/models"
)

type RouteMapRepository struct {
	DB *sql.DB
}

func (r RouteMapRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Exists reports whether a route id is taken.
func (r RouteMapRepository) Exists(routeID string) (bool, error) {
	var n int
	if err := r.db().QueryRow(`SELECT COUNT(*) FROM route_maps WHERE route_id=?`, routeID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts a route map; stops and fare chart persist as JSON.
func (r RouteMapRepository) Create(m models.RouteMap) error {
	stops, err := json.Marshal(m.Stops)
	if err != nil {
		return fmt.Errorf("marshal stops: %w", err)
	}
	chart, err := json.Marshal(m.FareChart)
	if err != nil {
		return fmt.Errorf("marshal fare chart: %w", err)
	}
	_, err = r.db().Exec(`
		INSERT INTO route_maps (route_id, origin, destination, stops, fare_chart, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NOW(), NOW())`,
		m.RouteID, m.Origin, m.Destination, stops, chart,
	)
	return err
}

// GetByID fetches one route map including its fare chart.
// Callers strip the chart for non-admin reads.
func (r RouteMapRepository) GetByID(routeID string) (models.RouteMap, error) {
	var (
		m        models.RouteMap
		stopsRaw []byte
		chartRaw []byte
	)
	err := r.db().QueryRow(`
		SELECT route_id, origin, destination, stops, fare_chart
		FROM route_maps WHERE route_id=? LIMIT 1`, routeID).
		Scan(&m.RouteID, &m.Origin, &m.Destination, &stopsRaw, &chartRaw)
	if err != nil {
		return models.RouteMap{}, err
	}

	if err := json.Unmarshal(stopsRaw, &m.Stops); err != nil {
		return models.RouteMap{}, fmt.Errorf("unmarshal stops for %s: %w", routeID, err)
	}
	if err := json.Unmarshal(chartRaw, &m.FareChart); err != nil {
		return models.RouteMap{}, fmt.Errorf("unmarshal fare chart for %s: %w", routeID, err)
	}
	return m, nil
}

// Update replaces the route wholesale (origin, destination, stops, chart).
func (r RouteMapRepository) Update(m models.RouteMap) (bool, error) {
	stops, err := json.Marshal(m.Stops)
	if err != nil {
		return false, fmt.Errorf("marshal stops: %w", err)
	}
	chart, err := json.Marshal(m.FareChart)
	if err != nil {
		return false, fmt.Errorf("marshal fare chart: %w", err)
	}
	res, err := r.db().Exec(`
		UPDATE route_maps
		SET origin=?, destination=?, stops=?, fare_chart=?, updated_at=NOW()
		WHERE route_id=?`,
		m.Origin, m.Destination, stops, chart, m.RouteID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Delete removes the route. Hard delete; bookings keep their route_id as a
// dangling but informative reference.
func (r RouteMapRepository) Delete(routeID string) (bool, error) {
	res, err := r.db().Exec(`DELETE FROM route_maps WHERE route_id=?`, routeID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
