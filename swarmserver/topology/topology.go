// Package topology computes the unit-disc neighbour graph of the swarm.
//
// Two agents are neighbours iff the chord distance between them is less than
// or equal to the communication range (inclusive boundary). An agent is never
// its own neighbour. Every recompute builds a fresh Topology; nothing is
// carried over from the previous round.
package topology

import (
	"math"
	"sort"
	"strconv"

	"github.com/bytearena/geoswarm/common/geo"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

var ErrInvalidConfiguration = errors.New("invalid configuration")

type Node interface {
	GetId() uuid.UUID
	GetPosition() geo.Position
}

type NeighborSet map[uuid.UUID]struct{}

func (set NeighborSet) Contains(id uuid.UUID) bool {
	_, ok := set[id]
	return ok
}

// Topology is the neighbour graph for one round, together with the positions
// it was computed from. It is read-only once built.
type Topology struct {
	commrange float64
	ids       []uuid.UUID
	index     map[uuid.UUID]int
	positions map[uuid.UUID]geo.Position
	neighbors map[uuid.UUID]NeighborSet
	nbedges   int
}

type Strategy interface {
	Recompute(nodes []Node, commRange float64) (*Topology, error)
}

func ValidateRange(commRange float64) error {
	if math.IsNaN(commRange) || math.IsInf(commRange, 0) || commRange < 0 {
		return errors.Wrap(ErrInvalidConfiguration, "communication range must be a finite, non negative number of metres; got "+strconv.FormatFloat(commRange, 'g', -1, 64))
	}

	return nil
}

// Recompute uses the brute force strategy.
func Recompute(nodes []Node, commRange float64) (*Topology, error) {
	return BruteForce{}.Recompute(nodes, commRange)
}

func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "", "bruteforce":
		return BruteForce{}, nil
	case "indexed":
		return MakeIndexed(), nil
	}

	return nil, errors.Wrap(ErrInvalidConfiguration, "unknown topology strategy "+strconv.Quote(name))
}

func newTopology(nodes []Node, commRange float64) (*Topology, error) {
	if err := ValidateRange(commRange); err != nil {
		return nil, err
	}

	t := &Topology{
		commrange: commRange,
		ids:       make([]uuid.UUID, len(nodes)),
		index:     make(map[uuid.UUID]int, len(nodes)),
		positions: make(map[uuid.UUID]geo.Position, len(nodes)),
		neighbors: make(map[uuid.UUID]NeighborSet, len(nodes)),
	}

	for i, node := range nodes {
		id := node.GetId()
		if _, found := t.index[id]; found {
			return nil, errors.Wrap(ErrInvalidConfiguration, "duplicate agent id "+id.String())
		}

		t.ids[i] = id
		t.index[id] = i
		t.positions[id] = node.GetPosition()
		t.neighbors[id] = make(NeighborSet)
	}

	return t, nil
}

// link tests one unordered pair and records the edge both ways.
func (t *Topology) link(a, b uuid.UUID) {
	if uuid.Equal(a, b) {
		return
	}

	if t.positions[a].Distance3D(t.positions[b]) <= t.commrange {
		t.neighbors[a][b] = struct{}{}
		t.neighbors[b][a] = struct{}{}
		t.nbedges++
	}
}

func (t *Topology) Range() float64 {
	return t.commrange
}

// Ids are in insertion order.
func (t *Topology) Ids() []uuid.UUID {
	ids := make([]uuid.UUID, len(t.ids))
	copy(ids, t.ids)
	return ids
}

func (t *Topology) Len() int {
	return len(t.ids)
}

func (t *Topology) Contains(id uuid.UUID) bool {
	_, ok := t.index[id]
	return ok
}

// Neighbors are returned in insertion order.
func (t *Topology) Neighbors(id uuid.UUID) []uuid.UUID {
	set := t.neighbors[id]
	res := make([]uuid.UUID, 0, len(set))
	for neighbor := range set {
		res = append(res, neighbor)
	}

	sort.Slice(res, func(i, j int) bool { return t.index[res[i]] < t.index[res[j]] })

	return res
}

func (t *Topology) NeighborSet(id uuid.UUID) NeighborSet {
	set := make(NeighborSet, len(t.neighbors[id]))
	for neighbor := range t.neighbors[id] {
		set[neighbor] = struct{}{}
	}

	return set
}

func (t *Topology) HasEdge(a, b uuid.UUID) bool {
	return t.neighbors[a].Contains(b)
}

// Position is the position the topology was computed from.
func (t *Topology) Position(id uuid.UUID) (geo.Position, bool) {
	p, ok := t.positions[id]
	return p, ok
}

// EdgeCount counts undirected edges.
func (t *Topology) EdgeCount() int {
	return t.nbedges
}

// Components lists the connected components, each in insertion order,
// ordered by their first member.
func (t *Topology) Components() [][]uuid.UUID {
	g := simple.NewUndirectedGraph()
	for i := range t.ids {
		g.AddNode(simple.Node(int64(i)))
	}

	for i, id := range t.ids {
		for neighbor := range t.neighbors[id] {
			j := t.index[neighbor]
			if i < j {
				g.SetEdge(g.NewEdge(simple.Node(int64(i)), simple.Node(int64(j))))
			}
		}
	}

	components := make([][]uuid.UUID, 0)
	for _, component := range topo.ConnectedComponents(g) {
		indices := make([]int, len(component))
		for k, node := range component {
			indices[k] = int(node.ID())
		}
		sort.Ints(indices)

		ids := make([]uuid.UUID, len(indices))
		for k, i := range indices {
			ids[k] = t.ids[i]
		}

		components = append(components, ids)
	}

	sort.Slice(components, func(i, j int) bool {
		return t.index[components[i][0]] < t.index[components[j][0]]
	})

	return components
}
