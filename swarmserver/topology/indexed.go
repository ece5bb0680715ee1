package topology

import (
	"github.com/dhconnelly/rtreego"
	"github.com/pkg/errors"
)

const (
	pointTolerance = 1e-6 // metres
	searchSlack    = 1e-3 // metres
)

// Indexed prefilters candidate pairs with an r-tree over Earth-centred
// cartesian points, then applies the same distance test as BruteForce. Both
// strategies always produce the same graph.
type Indexed struct {
	MinChildren int
	MaxChildren int
}

func MakeIndexed() Indexed {
	return Indexed{
		MinChildren: 25,
		MaxChildren: 50,
	}
}

type indexedPoint struct {
	index int
	point rtreego.Point
}

var _ rtreego.Spatial = (*indexedPoint)(nil)

func (p *indexedPoint) Bounds() *rtreego.Rect {
	return p.point.ToRect(pointTolerance)
}

func (strategy Indexed) Recompute(nodes []Node, commRange float64) (*Topology, error) {
	t, err := newTopology(nodes, commRange)
	if err != nil {
		return nil, err
	}

	tree := rtreego.NewTree(3, strategy.MinChildren, strategy.MaxChildren)

	points := make([]*indexedPoint, len(t.ids))
	for i, id := range t.ids {
		x, y, z := t.positions[id].ECEF().Get()
		points[i] = &indexedPoint{
			index: i,
			point: rtreego.Point{x, y, z},
		}
		tree.Insert(points[i])
	}

	half := commRange + searchSlack
	side := 2 * half

	for _, p := range points {
		corner := rtreego.Point{p.point[0] - half, p.point[1] - half, p.point[2] - half}
		box, err := rtreego.NewRect(corner, []float64{side, side, side})
		if err != nil {
			return nil, errors.Wrap(err, "could not build topology search box")
		}

		for _, candidate := range tree.SearchIntersect(box) {
			other := candidate.(*indexedPoint)

			// each unordered pair is tested once, from its lower index
			if other.index > p.index {
				t.link(t.ids[p.index], t.ids[other.index])
			}
		}
	}

	return t, nil
}
