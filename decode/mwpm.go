package decode

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/qec-tools/mobiusdec/dem"
)

// MwpmMatcher is the built-in minimum-weight perfect matcher over the
// mobius model's edge graph.
//
// Edges get weight ln((1-p)/p) with parallel edges combined through
// p₁(1-p₂)+p₂(1-p₁), the standard log-likelihood weighting. Matching runs
// in three steps: Dijkstra from every detection event over the mobius
// graph, a perfect matching on the resulting event-to-event distances
// (exact bitmask DP for small event sets, nearest-neighbour greedy pairing
// beyond), and path expansion so that every returned edge is a real mobius
// graph edge. The interleaved output therefore never contains shortcut
// pairs the lift couldn't walk.
type MwpmMatcher struct {
	numNodes int
	adj      [][]mwpmEdge

	// Per-shot scratch, reused across calls. distTag marks which query
	// last wrote each dist entry, so the arrays never need clearing.
	dist    []float64
	prev    []int32
	distTag []uint64
	tag     uint64
	queue   mwpmQueue
}

type mwpmEdge struct {
	to     int32
	weight float64
}

// exactMatchingLimit bounds the bitmask DP; beyond this many events the
// matcher falls back to greedy pairing.
const exactMatchingLimit = 16

// NewMwpmMatcher returns an unconfigured matcher. It must be bound to a
// mobius model through ConfiguredForMobiusDem before use.
func NewMwpmMatcher() *MwpmMatcher {
	return &MwpmMatcher{}
}

// ConfiguredForMobiusDem builds a new matcher over the given mobius model.
func (m *MwpmMatcher) ConfiguredForMobiusDem(d *dem.Model) (Matcher, error) {
	numNodes := int(d.CountDetectors())
	probs := make(map[[2]int32]float64)
	err := d.IterFlattenErrors(func(e dem.ErrorInstruction) error {
		var pair []int32
		flush := func() error {
			if len(pair) == 0 {
				return nil
			}
			if len(pair) != 2 {
				return fmt.Errorf("%w: error component %v in %q", ErrNotGraphlike, pair, e.String())
			}
			a, bn := pair[0], pair[1]
			if a > bn {
				a, bn = bn, a
			}
			key := [2]int32{a, bn}
			q := probs[key]
			p := e.Probability
			probs[key] = q*(1-p) + p*(1-q)
			pair = pair[:0]
			return nil
		}
		for _, t := range e.Targets {
			switch t.Kind {
			case dem.TargetDetector:
				pair = append(pair, int32(t.Val))
			case dem.TargetSeparator:
				if err := flush(); err != nil {
					return err
				}
			case dem.TargetObservable:
				return fmt.Errorf("%w: observable target in mobius error %q", ErrNotGraphlike, e.String())
			}
		}
		return flush()
	})
	if err != nil {
		return nil, err
	}

	adj := make([][]mwpmEdge, numNodes)
	for key, p := range probs {
		if p <= 0 || p >= 1 {
			continue
		}
		w := math.Log((1 - p) / p)
		if w < 0 {
			w = 0
		}
		adj[key[0]] = append(adj[key[0]], mwpmEdge{to: key[1], weight: w})
		adj[key[1]] = append(adj[key[1]], mwpmEdge{to: key[0], weight: w})
	}

	return &MwpmMatcher{
		numNodes: numNodes,
		adj:      adj,
		dist:     make([]float64, numNodes),
		prev:     make([]int32, numNodes),
		distTag:  make([]uint64, numNodes),
	}, nil
}

// MatchEdges pairs up the detection events and appends the interleaved
// path-edge list to out.
func (m *MwpmMatcher) MatchEdges(events []uint64, out *[]int64, outWeight *float64) error {
	if m.adj == nil {
		return ErrUnconfigured
	}
	k := len(events)
	if k == 0 {
		return nil
	}
	if k%2 != 0 {
		return fmt.Errorf("%w: %d events", ErrOddEvents, k)
	}

	// Shortest-path trees from every event.
	distMatrix := make([][]float64, k)
	prevTrees := make([][]int32, k)
	for i := 0; i < k; i++ {
		m.dijkstra(int32(events[i]))
		row := make([]float64, k)
		for j := 0; j < k; j++ {
			row[j] = m.distAt(int32(events[j]))
		}
		distMatrix[i] = row
		prevTrees[i] = append([]int32(nil), m.prev...)
	}

	var pairs [][2]int
	if k <= exactMatchingLimit {
		pairs = exactPerfectMatching(distMatrix)
	} else {
		pairs = greedyPerfectMatching(distMatrix)
	}
	if pairs == nil {
		return fmt.Errorf("%w: %d events", ErrNoMatching, k)
	}

	var total float64
	for _, pr := range pairs {
		i, j := pr[0], pr[1]
		if math.IsInf(distMatrix[i][j], 1) {
			return fmt.Errorf("%w: no path between D%d and D%d", ErrNoMatching, events[i], events[j])
		}
		total += distMatrix[i][j]
		// Walk the shortest path from events[j] back to events[i],
		// emitting every edge along the way.
		cur := int32(events[j])
		src := int32(events[i])
		for cur != src {
			p := prevTrees[i][cur]
			*out = append(*out, int64(p), int64(cur))
			cur = p
		}
	}
	if outWeight != nil {
		*outWeight = total
	}
	return nil
}

// dijkstra fills m.dist / m.prev with the shortest-path tree from src,
// using the tag trick to skip clearing between runs.
func (m *MwpmMatcher) dijkstra(src int32) {
	m.tag++
	m.queue = m.queue[:0]
	m.setDist(src, 0, -1)
	heap.Push(&m.queue, mwpmQueueItem{node: src, dist: 0})
	for m.queue.Len() > 0 {
		item := heap.Pop(&m.queue).(mwpmQueueItem)
		if item.dist > m.distAt(item.node) {
			continue
		}
		for _, e := range m.adj[item.node] {
			nd := item.dist + e.weight
			if nd < m.distAt(e.to) {
				m.setDist(e.to, nd, item.node)
				heap.Push(&m.queue, mwpmQueueItem{node: e.to, dist: nd})
			}
		}
	}
}

func (m *MwpmMatcher) distAt(n int32) float64 {
	if m.distTag[n] != m.tag {
		return math.Inf(1)
	}
	return m.dist[n]
}

func (m *MwpmMatcher) setDist(n int32, d float64, p int32) {
	m.distTag[n] = m.tag
	m.dist[n] = d
	m.prev[n] = p
}

// exactPerfectMatching solves minimum-weight perfect matching by dynamic
// programming over subsets. O(2^k · k).
func exactPerfectMatching(dist [][]float64) [][2]int {
	k := len(dist)
	full := 1 << k
	dp := make([]float64, full)
	choice := make([]int, full)
	for mask := 1; mask < full; mask++ {
		dp[mask] = math.Inf(1)
		choice[mask] = -1
	}
	for mask := 0; mask < full; mask++ {
		if math.IsInf(dp[mask], 1) {
			continue
		}
		// Pair the lowest unmatched event with every other unmatched one.
		first := -1
		for i := 0; i < k; i++ {
			if mask&(1<<i) == 0 {
				first = i
				break
			}
		}
		if first < 0 {
			continue
		}
		for j := first + 1; j < k; j++ {
			if mask&(1<<j) != 0 || math.IsInf(dist[first][j], 1) {
				continue
			}
			next := mask | 1<<first | 1<<j
			cost := dp[mask] + dist[first][j]
			if cost < dp[next] {
				dp[next] = cost
				choice[next] = first<<8 | j
			}
		}
	}
	if math.IsInf(dp[full-1], 1) {
		return nil
	}
	var pairs [][2]int
	mask := full - 1
	for mask != 0 {
		c := choice[mask]
		i, j := c>>8, c&0xff
		pairs = append(pairs, [2]int{i, j})
		mask &^= 1<<i | 1<<j
	}
	return pairs
}

// greedyPerfectMatching repeatedly pairs the first remaining event with its
// nearest remaining partner. O(k²); used beyond the exact DP limit.
func greedyPerfectMatching(dist [][]float64) [][2]int {
	k := len(dist)
	remaining := make([]int, 0, k)
	for i := 0; i < k; i++ {
		remaining = append(remaining, i)
	}
	var pairs [][2]int
	for len(remaining) > 1 {
		u := remaining[0]
		remaining = remaining[1:]
		bestIdx, bestD := -1, math.Inf(1)
		for i, v := range remaining {
			if d := dist[u][v]; d < bestD {
				bestD, bestIdx = d, i
			}
		}
		if bestIdx < 0 {
			return nil
		}
		v := remaining[bestIdx]
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
		pairs = append(pairs, [2]int{u, v})
	}
	return pairs
}

// mwpmQueue is a binary heap of (node, dist) items.
type mwpmQueue []mwpmQueueItem

type mwpmQueueItem struct {
	node int32
	dist float64
}

func (q mwpmQueue) Len() int            { return len(q) }
func (q mwpmQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q mwpmQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *mwpmQueue) Push(x interface{}) { *q = append(*q, x.(mwpmQueueItem)) }
func (q *mwpmQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
