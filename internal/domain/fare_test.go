package domain

import (
	"testing"

	"busgo/internal/domain/models"
)

func sampleRoute() models.RouteMap {
	return models.RouteMap{
		RouteID:     "R1",
		Origin:      "Central",
		Destination: "Airport",
		Stops: []models.Stop{
			{StopNumber: 1, Name: "Central", DistanceFromOrigin: 0, TimeFromOrigin: 0},
			{StopNumber: 2, Name: "Market", DistanceFromOrigin: 5, TimeFromOrigin: 12},
			{StopNumber: 3, Name: "Lakeview", DistanceFromOrigin: 12, TimeFromOrigin: 25},
			{StopNumber: 4, Name: "Airport", DistanceFromOrigin: 30, TimeFromOrigin: 55},
		},
		FareChart: []models.FareTier{
			{KmUpperLimit: 10, Fare: 20},
			{KmUpperLimit: 20, Fare: 35},
			{KmUpperLimit: 40, Fare: 50},
		},
	}
}

func TestCalculateFareSegment(t *testing.T) {
	quote, err := CalculateFare(sampleRoute(), 1, 3, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.DistanceKm != 12 {
		t.Fatalf("distance: got %d want 12", quote.DistanceKm)
	}
	if quote.FarePerHead != 35 {
		t.Fatalf("fare per head: got %v want 35 (second tier)", quote.FarePerHead)
	}
	if quote.TotalPrice != 70 {
		t.Fatalf("total price: got %v want 70", quote.TotalPrice)
	}
	if quote.DurationMin != 25 {
		t.Fatalf("duration: got %v want 25", quote.DurationMin)
	}
}

func TestCalculateFareSameStop(t *testing.T) {
	route := sampleRoute()
	quote, err := CalculateFare(route, 2, 2, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.DistanceKm != 0 || quote.DurationMin != 0 {
		t.Fatalf("same-stop trip should be zero distance/duration, got %+v", quote)
	}
	if quote.TotalPrice != route.FareChart[0].Fare*3 {
		t.Fatalf("total price: got %v want %v", quote.TotalPrice, route.FareChart[0].Fare*3)
	}
}

func TestCalculateFareSymmetry(t *testing.T) {
	route := sampleRoute()
	for i := 1; i <= len(route.Stops); i++ {
		for j := i; j <= len(route.Stops); j++ {
			fwd, err := CalculateFare(route, i, j, 1)
			if err != nil {
				t.Fatalf("forward %d->%d: %v", i, j, err)
			}
			rev, err := CalculateFare(route, j, i, 1)
			if err != nil {
				t.Fatalf("reverse %d->%d: %v", j, i, err)
			}
			if fwd.DistanceKm != rev.DistanceKm {
				t.Fatalf("distance asymmetry %d<->%d: %d vs %d", i, j, fwd.DistanceKm, rev.DistanceKm)
			}
			if fwd.TotalPrice != rev.TotalPrice {
				t.Fatalf("price asymmetry %d<->%d: %v vs %v", i, j, fwd.TotalPrice, rev.TotalPrice)
			}
		}
	}
}

func TestCalculateFareTierMonotonic(t *testing.T) {
	chart := sampleRoute().FareChart
	prev := -1.0
	for d := int64(0); d <= 40; d++ {
		fare, ok := fareForDistance(chart, d)
		if !ok {
			t.Fatalf("distance %d uncovered by chart", d)
		}
		if fare < prev {
			t.Fatalf("fare decreased at distance %d: %v < %v", d, fare, prev)
		}
		prev = fare
	}
}

func TestCalculateFareBadStops(t *testing.T) {
	route := sampleRoute()
	cases := []struct {
		name       string
		start, end int
	}{
		{"start zero", 0, 2},
		{"start past end", 5, 2},
		{"end zero", 1, 0},
		{"end past end", 1, 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := CalculateFare(route, tc.start, tc.end, 1); !IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCalculateFareUncoveredDistance(t *testing.T) {
	route := sampleRoute()
	route.FareChart = []models.FareTier{{KmUpperLimit: 10, Fare: 20}}
	if _, err := CalculateFare(route, 1, 4, 1); !IsNotFound(err) {
		t.Fatalf("expected fare-not-found, got %v", err)
	}
}

func TestCalculateFareHeadCountBounds(t *testing.T) {
	route := sampleRoute()
	if _, err := CalculateFare(route, 1, 2, 0); !IsValidation(err) {
		t.Fatalf("head count 0 should be rejected")
	}
	if _, err := CalculateFare(route, 1, 2, 11); !IsValidation(err) {
		t.Fatalf("head count 11 should be rejected")
	}
}
