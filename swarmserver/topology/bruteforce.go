package topology

// BruteForce tests every unordered pair once: O(n²) distance evaluations per
// round. Fine for tens to low hundreds of agents.
type BruteForce struct{}

func (BruteForce) Recompute(nodes []Node, commRange float64) (*Topology, error) {
	t, err := newTopology(nodes, commRange)
	if err != nil {
		return nil, err
	}

	for i := 0; i < len(t.ids); i++ {
		for j := i + 1; j < len(t.ids); j++ {
			t.link(t.ids[i], t.ids[j])
		}
	}

	return t, nil
}
