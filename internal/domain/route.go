package domain

import "time"

// LineChange records one transfer along a route: the traveller leaves line
// From and boards line To at station At.
type LineChange struct {
	From string
	To   string
	At   string
}

// Route is the answer to a route query.
//
// Stations lists the station names along the path in travel order. A transfer
// contributes two consecutive entries with the same name, one per line.
type Route struct {
	Stations      []string
	TotalStations int
	TotalFare     float64
	Interchanges  []string
	EstimatedTime string
	LineChanges   []LineChange
}

// NetworkStats summarises the currently published network graph.
type NetworkStats struct {
	Nodes             int
	RideEdgePairs     int
	TransferEdgePairs int
	Interchanges      []string
	Version           uint64
	BuiltAt           time.Time
}
