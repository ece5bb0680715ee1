// Package state holds the read-only snapshots the server publishes to its
// observers after every round.
package state

import (
	"github.com/bytearena/geoswarm/common/geo"
	"github.com/bytearena/geoswarm/swarmserver/protocol"
	"github.com/bytearena/geoswarm/swarmserver/topology"
	uuid "github.com/satori/go.uuid"
)

type Observable interface {
	GetId() uuid.UUID
	GetPosition() geo.Position
	GetOutgoing() protocol.Message
	GetEnvironment() *protocol.Environment
}

type AgentState struct {
	Id        uuid.UUID        `json:"id"`
	Position  geo.Position     `json:"position"`
	Leader    bool             `json:"leader"`
	Neighbors []uuid.UUID      `json:"neighbors"`
	Message   protocol.Message `json:"message"`
}

type Snapshot struct {
	RunId        string       `json:"runid"`
	Round        uint32       `json:"round"`
	Range        float64      `json:"range"`
	Agents       []AgentState `json:"agents"`
	NbEdges      int          `json:"nbedges"`
	NbComponents int          `json:"nbcomponents"`
}

// MakeSnapshot copies everything it needs; the result shares nothing mutable
// with the agents or the topology.
func MakeSnapshot(runid string, round uint32, topo *topology.Topology, agents []Observable) Snapshot {
	agentstates := make([]AgentState, len(agents))

	for i, ag := range agents {
		agentstates[i] = AgentState{
			Id:        ag.GetId(),
			Position:  ag.GetPosition(),
			Leader:    ag.GetEnvironment().GetBool("leader"),
			Neighbors: topo.Neighbors(ag.GetId()),
			Message:   ag.GetOutgoing(),
		}
	}

	return Snapshot{
		RunId:        runid,
		Round:        round,
		Range:        topo.Range(),
		Agents:       agentstates,
		NbEdges:      topo.EdgeCount(),
		NbComponents: len(topo.Components()),
	}
}

func (s Snapshot) GetAgentState(id uuid.UUID) (AgentState, bool) {
	for _, agentstate := range s.Agents {
		if uuid.Equal(agentstate.Id, id) {
			return agentstate, true
		}
	}

	return AgentState{}, false
}
