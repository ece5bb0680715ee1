package topology

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/bytearena/geoswarm/common/geo"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testNode struct {
	id       uuid.UUID
	position geo.Position
}

func (n *testNode) GetId() uuid.UUID          { return n.id }
func (n *testNode) GetPosition() geo.Position { return n.position }

func makeNode(p geo.Position) *testNode {
	return &testNode{id: uuid.NewV4(), position: p}
}

func asNodes(nodes ...*testNode) []Node {
	res := make([]Node, len(nodes))
	for i, n := range nodes {
		res[i] = n
	}
	return res
}

var equator = geo.FromDegrees(0.5, 10, 0)

var strategies = map[string]Strategy{
	"bruteforce": BruteForce{},
	"indexed":    MakeIndexed(),
}

func TestSymmetryOverRandomPairs(t *testing.T) {
	random := rand.New(rand.NewSource(42))

	for name, strategy := range strategies {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 500; i++ {
				a := makeNode(equator.Move(random.Float64()*1000-500, random.Float64()*1000-500, random.Float64()*100))
				b := makeNode(equator.Move(random.Float64()*1000-500, random.Float64()*1000-500, random.Float64()*100))
				commRange := random.Float64() * 800

				topo, err := strategy.Recompute(asNodes(a, b), commRange)
				require.Nil(t, err)

				assert.Equal(t, topo.HasEdge(a.id, b.id), topo.HasEdge(b.id, a.id))
				assert.Equal(t, a.position.Distance3D(b.position) <= commRange, topo.HasEdge(a.id, b.id))
			}
		})
	}
}

func TestBoundaryIsInclusive(t *testing.T) {
	a := makeNode(equator)
	b := makeNode(equator.Move(0, 250, 0))
	exact := a.position.Distance3D(b.position)

	for name, strategy := range strategies {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				topo, err := strategy.Recompute(asNodes(a, b), exact)
				require.Nil(t, err)
				assert.True(t, topo.HasEdge(a.id, b.id))
				assert.True(t, topo.HasEdge(b.id, a.id))
			}

			topo, err := strategy.Recompute(asNodes(a, b), math.Nextafter(exact, 0))
			require.Nil(t, err)
			assert.False(t, topo.HasEdge(a.id, b.id))
		})
	}
}

func TestNoSelfNeighbor(t *testing.T) {
	a := makeNode(equator)
	b := makeNode(equator) // same spot

	for name, strategy := range strategies {
		t.Run(name, func(t *testing.T) {
			for _, commRange := range []float64{0, 1, 1e6} {
				topo, err := strategy.Recompute(asNodes(a, b), commRange)
				require.Nil(t, err)

				assert.False(t, topo.HasEdge(a.id, a.id))
				assert.False(t, topo.HasEdge(b.id, b.id))
				assert.True(t, topo.HasEdge(a.id, b.id))
				assert.NotContains(t, topo.Neighbors(a.id), a.id)
			}
		})
	}
}

func TestGridOfFour(t *testing.T) {
	//  c---d
	//  |   |
	//  a---b
	a := makeNode(equator)
	b := makeNode(equator.Move(100, 0, 0))
	c := makeNode(equator.Move(0, 100, 0))
	d := makeNode(equator.Move(100, 100, 0))

	commRange := 120.0
	require.True(t, a.position.Distance3D(b.position) < commRange)
	require.True(t, a.position.Distance3D(c.position) < commRange)
	require.True(t, a.position.Distance3D(d.position) > commRange)
	require.True(t, b.position.Distance3D(c.position) > commRange)

	for name, strategy := range strategies {
		t.Run(name, func(t *testing.T) {
			topo, err := strategy.Recompute(asNodes(a, b, c, d), commRange)
			require.Nil(t, err)

			assert.Equal(t, []uuid.UUID{b.id, c.id}, topo.Neighbors(a.id))
			assert.Equal(t, []uuid.UUID{a.id, d.id}, topo.Neighbors(b.id))
			assert.Equal(t, []uuid.UUID{a.id, d.id}, topo.Neighbors(c.id))
			assert.Equal(t, []uuid.UUID{b.id, c.id}, topo.Neighbors(d.id))

			assert.False(t, topo.HasEdge(a.id, d.id))
			assert.False(t, topo.HasEdge(b.id, c.id))
			assert.Equal(t, 4, topo.EdgeCount())
		})
	}
}

func TestMovingAwayDropsEdgeBothWays(t *testing.T) {
	commRange := 500.0
	a := makeNode(equator)
	b := makeNode(equator.Move(0, 300, 0))

	topo, err := Recompute(asNodes(a, b), commRange)
	require.Nil(t, err)
	require.True(t, topo.HasEdge(a.id, b.id))

	// more than commRange - distance(a, b) directly away from b
	a.position = a.position.Move(0, -250, 0)

	topo, err = Recompute(asNodes(a, b), commRange)
	require.Nil(t, err)
	assert.False(t, topo.HasEdge(a.id, b.id))
	assert.False(t, topo.HasEdge(b.id, a.id))
	assert.Empty(t, topo.Neighbors(a.id))
	assert.Empty(t, topo.Neighbors(b.id))
}

func TestIndexedMatchesBruteForce(t *testing.T) {
	random := rand.New(rand.NewSource(7))

	nodes := make([]*testNode, 120)
	for i := range nodes {
		nodes[i] = makeNode(equator.Move(random.Float64()*3000, random.Float64()*3000, random.Float64()*50))
	}

	for _, commRange := range []float64{0, 150, 400, 5000} {
		brute, err := BruteForce{}.Recompute(asNodes(nodes...), commRange)
		require.Nil(t, err)

		indexed, err := MakeIndexed().Recompute(asNodes(nodes...), commRange)
		require.Nil(t, err)

		assert.Equal(t, brute.EdgeCount(), indexed.EdgeCount())
		for _, n := range nodes {
			assert.Equal(t, brute.Neighbors(n.id), indexed.Neighbors(n.id))
		}
	}
}

func TestInvalidConfiguration(t *testing.T) {
	a := makeNode(equator)

	for _, commRange := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := Recompute(asNodes(a), commRange)
		assert.True(t, errors.Is(err, ErrInvalidConfiguration))
	}

	_, err := Recompute(asNodes(a, a), 10)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))

	_, err = ParseStrategy("quadtree")
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))
}

func TestTopologyIsRebuiltFromScratch(t *testing.T) {
	a := makeNode(equator)
	b := makeNode(equator.Move(0, 50, 0))

	first, err := Recompute(asNodes(a, b), 100)
	require.Nil(t, err)

	b.position = b.position.Move(0, 200, 0)
	second, err := Recompute(asNodes(a, b), 100)
	require.Nil(t, err)

	// the older topology keeps its own frozen view
	assert.True(t, first.HasEdge(a.id, b.id))
	assert.False(t, second.HasEdge(a.id, b.id))

	frozen, ok := first.Position(b.id)
	assert.True(t, ok)
	assert.NotEqual(t, b.position, frozen)
}

func TestComponents(t *testing.T) {
	a := makeNode(equator)
	b := makeNode(equator.Move(0, 50, 0))
	c := makeNode(equator.Move(0, 1000, 0))
	d := makeNode(equator.Move(0, 1040, 0))
	e := makeNode(equator.Move(0, 5000, 0))

	topo, err := Recompute(asNodes(a, b, c, d, e), 60)
	require.Nil(t, err)

	assert.Equal(t, [][]uuid.UUID{
		{a.id, b.id},
		{c.id, d.id},
		{e.id},
	}, topo.Components())
}
