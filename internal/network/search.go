package network

import (
	"container/heap"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/metro-router/internal/domain"
)

// label is the best known state for reaching a node during one search run.
type label struct {
	stations int
	fare     float64
	minutes  float64
	lineID   uuid.UUID
	// segment counts ride hops since the last transfer.
	segment int
	parent  int
	via     *Edge
}

// FindRoute returns the route between two station names that passes the
// fewest stations.
//
// Every node named source starts its own search run; a run's result replaces
// the best one only when it covers strictly fewer stations, so among equally
// short routes the first one discovered wins. Within a run, ties in the queue
// are broken by node order (input order of the station records).
//
// Errors: *UnknownStationError when either name is absent from the graph,
// domain.ErrNoRoute (wrapped) when no destination node is reachable.
func FindRoute(g *Graph, source, destination string) (domain.Route, error) {
	starts, ok := g.nameIndex[source]
	if !ok {
		return domain.Route{}, &UnknownStationError{Name: source}
	}
	if _, ok := g.nameIndex[destination]; !ok {
		return domain.Route{}, &UnknownStationError{Name: destination}
	}

	if source == destination {
		return domain.Route{
			Stations:      []string{source},
			Interchanges:  []string{},
			EstimatedTime: "0 minutes",
			LineChanges:   []domain.LineChange{},
		}, nil
	}

	var (
		best      []label
		bestEnd   = -1
		bestCount int
	)
	for _, start := range starts {
		labels, end := g.search(start, destination)
		if end < 0 {
			continue
		}
		if bestEnd < 0 || labels[end].stations < bestCount {
			best, bestEnd, bestCount = labels, end, labels[end].stations
		}
	}
	if bestEnd < 0 {
		return domain.Route{}, fmt.Errorf("network.FindRoute: %w between %q and %q", domain.ErrNoRoute, source, destination)
	}

	return g.assemble(best, bestEnd), nil
}

// search runs a single-source search from start keyed on station count and
// returns the labels together with the first destination node popped, or -1.
func (g *Graph) search(start int, destination string) ([]label, int) {
	labels := make([]label, len(g.nodes))
	reached := make([]bool, len(g.nodes))
	visited := make([]bool, len(g.nodes))

	labels[start] = label{lineID: g.nodes[start].LineID, parent: -1}
	reached[start] = true

	pq := &queue{{node: start}}
	var pushed int

	for pq.Len() > 0 {
		item := heap.Pop(pq).(queueItem)
		u := item.node
		if visited[u] {
			continue
		}
		visited[u] = true

		// The first destination popped has the minimal count for this run.
		if g.nodes[u].Name == destination {
			return labels, u
		}

		for i := range g.adjacency[u] {
			e := &g.adjacency[u][i]
			next := relax(labels[u], u, e)
			if reached[e.to] && next.stations >= labels[e.to].stations {
				continue
			}
			labels[e.to] = next
			reached[e.to] = true
			pushed++
			heap.Push(pq, queueItem{stations: next.stations, node: e.to, seq: pushed})
		}
	}

	return labels, -1
}

// relax applies the fare and time rules for traversing e from node from.
// A transfer costs the flat transfer fare and resets the segment; ride hops
// are free for the first freeHopsPerSegment hops of a segment.
func relax(cur label, from int, e *Edge) label {
	next := cur
	next.parent = from
	next.via = e
	next.stations += e.StationDelta
	next.minutes += e.TimeMinutes

	if e.Transfer {
		next.fare += e.FareDelta
		next.lineID = e.ToLineID
		next.segment = 0
		return next
	}

	next.lineID = e.LineID
	next.segment++
	if next.segment > freeHopsPerSegment {
		next.fare += e.FareDelta
	}
	return next
}

// assemble walks parent links back from end and shapes the route result.
func (g *Graph) assemble(labels []label, end int) domain.Route {
	var path []int
	for n := end; n >= 0; n = labels[n].parent {
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	route := domain.Route{
		Stations:     make([]string, 0, len(path)),
		Interchanges: []string{},
		LineChanges:  []domain.LineChange{},
	}
	seen := make(map[string]bool)
	for _, n := range path {
		node := g.nodes[n]
		route.Stations = append(route.Stations, node.Name)

		l := labels[n]
		if l.via == nil || !l.via.Transfer {
			continue
		}
		from := g.nodes[l.parent]
		if !seen[from.Name] {
			seen[from.Name] = true
			route.Interchanges = append(route.Interchanges, from.Name)
		}
		route.LineChanges = append(route.LineChanges, domain.LineChange{
			From: from.LineName,
			To:   node.LineName,
			At:   from.Name,
		})
	}

	last := labels[end]
	route.TotalStations = last.stations
	route.TotalFare = last.fare
	if last.stations > 0 {
		route.TotalFare += baseFare
	}
	route.EstimatedTime = formatMinutes(last.minutes)
	return route
}

// formatMinutes renders a duration such as 5 as "5.0 minutes".
func formatMinutes(m float64) string {
	s := strconv.FormatFloat(m, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + " minutes"
}

type queueItem struct {
	stations int
	node     int
	seq      int
}

// queue is a min-heap of queueItem ordered by station count, then node
// order, then push order.
type queue []queueItem

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if q[i].stations != q[j].stations {
		return q[i].stations < q[j].stations
	}
	if q[i].node != q[j].node {
		return q[i].node < q[j].node
	}
	return q[i].seq < q[j].seq
}

func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *queue) Push(x any) {
	*q = append(*q, x.(queueItem))
}

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
