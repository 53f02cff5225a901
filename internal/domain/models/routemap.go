package models

// Stop is one point on a bus route. Distances and times are cumulative
// from the route origin.
type Stop struct {
	StopNumber         int     `json:"stopNumber"`
	Name               string  `json:"name"`
	DistanceFromOrigin float64 `json:"distanceFromOrigin"`
	TimeFromOrigin     float64 `json:"timeFromOrigin"`
}

// FareTier maps a trip distance band to a per-head fare. The cheapest tier
// whose upper limit covers the distance applies.
type FareTier struct {
	KmUpperLimit float64 `json:"kmUpperLimit"`
	Fare         float64 `json:"fare"`
}

// RouteMap is the topology and fare schedule of one bus route.
type RouteMap struct {
	RouteID     string     `json:"routeID"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	Stops       []Stop     `json:"stops"`
	FareChart   []FareTier `json:"fareChart,omitempty"`
}

// Span is the full route length: cumulative distance of the last stop.
func (r RouteMap) Span() float64 {
	if len(r.Stops) == 0 {
		return 0
	}
	return r.Stops[len(r.Stops)-1].DistanceFromOrigin
}

// StopByName resolves a stop label to its position. Matching is exact on
// the trimmed name; returns false when the label is not on the route.
func (r RouteMap) StopByName(name string) (Stop, bool) {
	for _, s := range r.Stops {
		if s.Name == name {
			return s, true
		}
	}
	return Stop{}, false
}
