// Package network builds the in-memory metro graph and answers route queries
// over it. It works on plain domain records and knows nothing about HTTP or
// storage; callers rebuild the graph wholesale whenever topology changes and
// publish it through a Snapshot.
package network

import (
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/metro-router/internal/domain"
)

// Edge costs and fare rules.
const (
	rideMinutes     = 2.5
	transferMinutes = 5.0
	transferFare    = 2.0
	// hopFare is charged for every ride hop beyond the free hops of a segment.
	hopFare            = 5.0
	freeHopsPerSegment = 2
	// baseFare is charged once for any journey covering at least one station.
	baseFare = 10.0
)

// Node is one station on one line. Stations sharing a name across lines stay
// separate nodes; interchanges are modelled as transfer edges between them.
type Node struct {
	StationID     uuid.UUID
	Name          string
	LineID        uuid.UUID
	LineName      string
	Sequence      int
	IsInterchange bool
}

// Edge is a directed connection leaving a node.
//
// Ride edges join sequence-adjacent stations of one line and carry LineID.
// Transfer edges join same-named interchange stations on different lines and
// carry FromLineID and ToLineID.
type Edge struct {
	To           uuid.UUID
	Transfer     bool
	StationDelta int
	TimeMinutes  float64
	FareDelta    float64
	LineID       uuid.UUID
	FromLineID   uuid.UUID
	ToLineID     uuid.UUID

	to int
}

// Graph is an immutable network snapshot. It is safe for concurrent readers.
type Graph struct {
	nodes     []Node
	byID      map[uuid.UUID]int
	adjacency [][]Edge
	nameIndex map[string][]int
	// names holds every station name in order of first appearance.
	names []string
}

// Build converts line and station records into a graph.
//
// Stations are grouped by line and ordered by SequenceOnLine; each adjacent
// pair gets a ride edge in both directions. Stations sharing a name get a
// transfer edge pair between every two of them on different lines, but only
// when every station with that name is flagged as an interchange.
//
// Build returns a *BuildError for duplicate ids, stations on unknown lines,
// empty names, and missing or duplicate sequence numbers within a line.
func Build(lines []domain.Line, stations []domain.Station) (*Graph, error) {
	lineNames := make(map[uuid.UUID]string, len(lines))
	for _, l := range lines {
		if _, dup := lineNames[l.ID]; dup {
			return nil, buildErrorf("duplicate line id %s", l.ID)
		}
		lineNames[l.ID] = l.Name
	}

	g := &Graph{
		nodes:     make([]Node, 0, len(stations)),
		byID:      make(map[uuid.UUID]int, len(stations)),
		nameIndex: make(map[string][]int),
	}
	byLine := make(map[uuid.UUID][]int, len(lines))

	for _, s := range stations {
		lineName, ok := lineNames[s.LineID]
		if !ok {
			return nil, buildErrorf("station %q (%s) references unknown line %s", s.Name, s.ID, s.LineID)
		}
		if strings.TrimSpace(s.Name) == "" {
			return nil, buildErrorf("station %s has an empty name", s.ID)
		}
		if s.SequenceOnLine < 1 {
			return nil, buildErrorf("station %q on line %q has sequence %d, want >= 1", s.Name, lineName, s.SequenceOnLine)
		}
		if _, dup := g.byID[s.ID]; dup {
			return nil, buildErrorf("duplicate station id %s", s.ID)
		}

		idx := len(g.nodes)
		g.nodes = append(g.nodes, Node{
			StationID:     s.ID,
			Name:          s.Name,
			LineID:        s.LineID,
			LineName:      lineName,
			Sequence:      s.SequenceOnLine,
			IsInterchange: s.IsInterchange,
		})
		g.byID[s.ID] = idx
		if _, seen := g.nameIndex[s.Name]; !seen {
			g.names = append(g.names, s.Name)
		}
		g.nameIndex[s.Name] = append(g.nameIndex[s.Name], idx)
		byLine[s.LineID] = append(byLine[s.LineID], idx)
	}

	g.adjacency = make([][]Edge, len(g.nodes))

	// Lines are walked in input order so adjacency order is deterministic.
	for _, l := range lines {
		members := byLine[l.ID]
		sort.SliceStable(members, func(i, j int) bool {
			return g.nodes[members[i]].Sequence < g.nodes[members[j]].Sequence
		})
		for i := 1; i < len(members); i++ {
			a, b := members[i-1], members[i]
			if g.nodes[a].Sequence == g.nodes[b].Sequence {
				return nil, buildErrorf("line %q has two stations at sequence %d (%q and %q)",
					l.Name, g.nodes[a].Sequence, g.nodes[a].Name, g.nodes[b].Name)
			}
			g.addRide(a, b, l.ID)
			g.addRide(b, a, l.ID)
		}
	}

	for _, name := range g.names {
		members := g.nameIndex[name]
		if len(members) < 2 || !g.allInterchange(members) {
			continue
		}
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				a, b := members[i], members[j]
				if g.nodes[a].LineID == g.nodes[b].LineID {
					continue
				}
				g.addTransfer(a, b)
				g.addTransfer(b, a)
			}
		}
	}

	return g, nil
}

// allInterchange reports whether every node in members is flagged as an
// interchange. A partly flagged name gets no transfer edges at all.
func (g *Graph) allInterchange(members []int) bool {
	for _, idx := range members {
		if !g.nodes[idx].IsInterchange {
			return false
		}
	}
	return true
}

func (g *Graph) addRide(from, to int, lineID uuid.UUID) {
	g.adjacency[from] = append(g.adjacency[from], Edge{
		To:           g.nodes[to].StationID,
		StationDelta: 1,
		TimeMinutes:  rideMinutes,
		FareDelta:    hopFare,
		LineID:       lineID,
		to:           to,
	})
}

func (g *Graph) addTransfer(from, to int) {
	g.adjacency[from] = append(g.adjacency[from], Edge{
		To:          g.nodes[to].StationID,
		Transfer:    true,
		TimeMinutes: transferMinutes,
		FareDelta:   transferFare,
		FromLineID:  g.nodes[from].LineID,
		ToLineID:    g.nodes[to].LineID,
		to:          to,
	})
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node built from the station with the given id.
func (g *Graph) Node(stationID uuid.UUID) (Node, bool) {
	idx, ok := g.byID[stationID]
	if !ok {
		return Node{}, false
	}
	return g.nodes[idx], true
}

// Edges returns a copy of the edges leaving the given station's node.
func (g *Graph) Edges(stationID uuid.UUID) []Edge {
	idx, ok := g.byID[stationID]
	if !ok {
		return nil
	}
	return slices.Clone(g.adjacency[idx])
}

// NodesNamed returns the station ids of every node carrying name, in input order.
func (g *Graph) NodesNamed(name string) []uuid.UUID {
	members := g.nameIndex[name]
	out := make([]uuid.UUID, len(members))
	for i, idx := range members {
		out[i] = g.nodes[idx].StationID
	}
	return out
}

// HasStation reports whether name is present in the name index.
func (g *Graph) HasStation(name string) bool {
	_, ok := g.nameIndex[name]
	return ok
}

// StationNames returns every distinct station name, sorted.
func (g *Graph) StationNames() []string {
	out := slices.Clone(g.names)
	slices.Sort(out)
	return out
}

// Stats counts nodes and bidirectional edge pairs, and lists the names that
// received transfer edges (sorted).
func (g *Graph) Stats() domain.NetworkStats {
	var rides, transfers int
	interchange := make(map[string]struct{})
	for idx, edges := range g.adjacency {
		for _, e := range edges {
			if e.Transfer {
				transfers++
				interchange[g.nodes[idx].Name] = struct{}{}
			} else {
				rides++
			}
		}
	}

	names := make([]string, 0, len(interchange))
	for name := range interchange {
		names = append(names, name)
	}
	slices.Sort(names)

	return domain.NetworkStats{
		Nodes:             len(g.nodes),
		RideEdgePairs:     rides / 2,
		TransferEdgePairs: transfers / 2,
		Interchanges:      names,
	}
}
