package services

import (
	"database/sql"
	"errors"
	"fmt"

	"busgo/internal/domain"
	"busgo/internal/domain/models"
	"busgo/internal/repositories"
	"busgo/internal/utils"
)

// RouteMapService owns route topology and fare schedules. Writes are
// admin-only (enforced by the role middleware in front of the handlers).
type RouteMapService struct {
	RouteRepo repositories.RouteMapRepository
	UserRepo  repositories.UserRepository
	RequestID string
}

// Create validates and stores a new route map.
func (s RouteMapService) Create(m models.RouteMap) error {
	if err := validateRouteMap(m); err != nil {
		return err
	}

	taken, err := s.RouteRepo.Exists(m.RouteID)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if taken {
		return domain.ConflictError{Resource: "route map", Msg: "route ID already exists"}
	}

	if err := s.RouteRepo.Create(m); err != nil {
		return domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "routemap", "create", "route_id="+m.RouteID)
	return nil
}

// Get returns a route map. The fare chart is server-side pricing data;
// non-admin callers get the route with the chart stripped.
func (s RouteMapService) Get(rc domain.RequestContext, routeID string) (models.RouteMap, error) {
	if err := validateRouteID(routeID); err != nil {
		return models.RouteMap{}, err
	}

	m, err := s.RouteRepo.GetByID(routeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RouteMap{}, domain.NotFoundError{Resource: "route map"}
		}
		return models.RouteMap{}, domain.InternalError{Err: err}
	}

	if !rc.IsAdmin() {
		m.FareChart = nil
	}
	return m, nil
}

// Update replaces the route wholesale after full re-validation.
func (s RouteMapService) Update(routeID string, m models.RouteMap) error {
	m.RouteID = routeID
	if err := validateRouteMap(m); err != nil {
		return err
	}

	ok, err := s.RouteRepo.Update(m)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if !ok {
		return domain.NotFoundError{Resource: "route map"}
	}
	utils.LogEvent(s.RequestID, "routemap", "update", "route_id="+routeID)
	return nil
}

// Delete hard-deletes the route. Existing bookings keep their route id.
func (s RouteMapService) Delete(routeID string) error {
	if err := validateRouteID(routeID); err != nil {
		return err
	}

	ok, err := s.RouteRepo.Delete(routeID)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if !ok {
		return domain.NotFoundError{Resource: "route map"}
	}
	utils.LogEvent(s.RequestID, "routemap", "delete", "route_id="+routeID)
	return nil
}

// BusesByRoute lists conductors whose buses serve the route.
func (s RouteMapService) BusesByRoute(routeID string) ([]models.PublicUser, error) {
	if err := validateRouteID(routeID); err != nil {
		return nil, err
	}

	taken, err := s.RouteRepo.Exists(routeID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	if !taken {
		return nil, domain.NotFoundError{Resource: "route map"}
	}

	conductors, err := s.UserRepo.ListConductorsByRoute(routeID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return conductors, nil
}

func validateRouteID(routeID string) error {
	if len(routeID) < 2 || len(routeID) > 10 {
		return domain.ValidationError{Field: "routeID", Msg: "must be between 2 and 10 characters"}
	}
	return nil
}

// validateRouteMap enforces the route invariants shared by create and
// update: stop ordering, cumulative distance/time monotonicity, fare tier
// ordering, and full-span fare coverage.
func validateRouteMap(m models.RouteMap) error {
	if err := validateRouteID(m.RouteID); err != nil {
		return err
	}
	if m.Origin == "" || len(m.Origin) > 50 {
		return domain.ValidationError{Field: "origin", Msg: "must be 1-50 characters"}
	}
	if m.Destination == "" || len(m.Destination) > 50 {
		return domain.ValidationError{Field: "destination", Msg: "must be 1-50 characters"}
	}
	if len(m.Stops) == 0 {
		return domain.ValidationError{Field: "stops", Msg: "at least one stop is required"}
	}
	if len(m.FareChart) == 0 {
		return domain.ValidationError{Field: "fareChart", Msg: "at least one fare tier is required"}
	}

	for i, stop := range m.Stops {
		// The fare calculator addresses stops by 1-based position, so
		// stop numbers must be the contiguous sequence 1..n.
		if stop.StopNumber != i+1 {
			return domain.ValidationError{Field: "stops", Msg: fmt.Sprintf("stop %d has number %d, expected %d", i+1, stop.StopNumber, i+1)}
		}
		if len(stop.Name) < 3 || len(stop.Name) > 50 {
			return domain.ValidationError{Field: "stops", Msg: fmt.Sprintf("stop %d name must be 3-50 characters", i+1)}
		}
		if stop.DistanceFromOrigin < 0 {
			return domain.ValidationError{Field: "stops", Msg: fmt.Sprintf("stop %d distance must be non-negative", i+1)}
		}
		if stop.TimeFromOrigin < 0 {
			return domain.ValidationError{Field: "stops", Msg: fmt.Sprintf("stop %d time must be non-negative", i+1)}
		}
		if i > 0 {
			prev := m.Stops[i-1]
			if stop.DistanceFromOrigin < prev.DistanceFromOrigin {
				return domain.ValidationError{Field: "stops", Msg: fmt.Sprintf("stop %d distance decreases along the route", i+1)}
			}
			if stop.TimeFromOrigin < prev.TimeFromOrigin {
				return domain.ValidationError{Field: "stops", Msg: fmt.Sprintf("stop %d time decreases along the route", i+1)}
			}
		}
	}

	for i, tier := range m.FareChart {
		if tier.KmUpperLimit <= 0 {
			return domain.ValidationError{Field: "fareChart", Msg: fmt.Sprintf("tier %d km upper limit must be positive", i+1)}
		}
		if tier.Fare < 0 {
			return domain.ValidationError{Field: "fareChart", Msg: fmt.Sprintf("tier %d fare must be non-negative", i+1)}
		}
		if i > 0 && tier.KmUpperLimit <= m.FareChart[i-1].KmUpperLimit {
			return domain.ValidationError{Field: "fareChart", Msg: fmt.Sprintf("tier %d km upper limit must exceed tier %d", i+1, i)}
		}
	}

	// The top tier must cover the full route span, otherwise the route is
	// unbookable end to end.
	top := m.FareChart[len(m.FareChart)-1]
	if top.KmUpperLimit < m.Span() {
		return domain.ValidationError{
			Field: "fareChart",
			Msg:   fmt.Sprintf("top tier covers %.0f km but the route spans %.0f km", top.KmUpperLimit, m.Span()),
		}
	}

	return nil
}
