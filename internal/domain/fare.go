package domain

import (
	"fmt"
	"math"

	"busgo/internal/domain/models"
)

// FareQuote is the result of a fare calculation over a route segment.
type FareQuote struct {
	DistanceKm  int64   `json:"distanceKm"`
	DurationMin float64 `json:"durationMin"`
	FarePerHead float64 `json:"farePerHead"`
	TotalPrice  float64 `json:"totalPrice"`
}

// CalculateFare prices a trip between two stops of a route for headCount
// passengers. Stop numbers are 1-based positions in the stop sequence.
// Direction does not matter; boarding and alighting at the same stop is a
// zero-distance trip priced by whichever tier covers 0 km.
func CalculateFare(route models.RouteMap, startStop, endStop, headCount int) (FareQuote, error) {
	if headCount < 1 || headCount > 10 {
		return FareQuote{}, ValidationError{Field: "headCount", Msg: "must be between 1 and 10"}
	}
	if startStop < 1 || startStop > len(route.Stops) {
		return FareQuote{}, ValidationError{Field: "startStop", Msg: fmt.Sprintf("stop %d is not on route %s", startStop, route.RouteID)}
	}
	if endStop < 1 || endStop > len(route.Stops) {
		return FareQuote{}, ValidationError{Field: "endStop", Msg: fmt.Sprintf("stop %d is not on route %s", endStop, route.RouteID)}
	}

	start := route.Stops[startStop-1]
	end := route.Stops[endStop-1]

	distance := int64(math.Round(math.Abs(start.DistanceFromOrigin - end.DistanceFromOrigin)))
	duration := math.Abs(start.TimeFromOrigin - end.TimeFromOrigin)

	fare, ok := fareForDistance(route.FareChart, distance)
	if !ok {
		// Route validation guarantees the top tier covers the full span,
		// but the chart may predate that rule.
		return FareQuote{}, NotFoundError{Resource: "fare tier"}
	}

	return FareQuote{
		DistanceKm:  distance,
		DurationMin: duration,
		FarePerHead: fare,
		TotalPrice:  fare * float64(headCount),
	}, nil
}

// fareForDistance picks the first tier (ascending kmUpperLimit) that covers
// the distance: the cheapest fitting tier, not the nearest.
func fareForDistance(chart []models.FareTier, distanceKm int64) (float64, bool) {
	for _, tier := range chart {
		if tier.KmUpperLimit >= float64(distanceKm) {
			return tier.Fare, true
		}
	}
	return 0, false
}
