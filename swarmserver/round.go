package swarmserver

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/bytearena/geoswarm/common/utils"
	"github.com/bytearena/geoswarm/swarmserver/agent"
	"github.com/bytearena/geoswarm/swarmserver/protocol"
	"github.com/bytearena/geoswarm/swarmserver/relay"
	"github.com/bytearena/geoswarm/swarmserver/state"
	"github.com/bytearena/geoswarm/swarmserver/topology"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

// prepare freezes the population and computes the topology round 1 senses.
func (server *Server) prepare() error {
	server.agentsmutex.Lock()
	defer server.agentsmutex.Unlock()

	if server.topology != nil {
		return nil
	}

	topo, err := server.strategy.Recompute(nodesOf(server.agents), server.commrange)
	if err != nil {
		return errors.Wrap(err, "could not compute initial topology")
	}

	server.topology = topo

	utils.Debug("core-loop", "initial topology: "+strconv.Itoa(topo.Len())+" agents, "+strconv.Itoa(topo.EdgeCount())+" links")

	return nil
}

// doRound runs the three phases of one round, each one completing before the
// next starts. A failure before the commit leaves every agent untouched.
func (server *Server) doRound() error {
	turn := server.GetTurn().Next()
	round := turn.GetSeq()

	dolog := server.tickspersec > 0 && (int(round)%server.tickspersec) == 0
	if dolog {
		utils.Debug("core-loop", "######## Round ######## "+strconv.Itoa(int(round)))
	}

	agents := server.GetAgents()
	sensing := server.GetTopology()

	///////////////////////////////////////////////////////////////////////////
	// Executing every agent against last round's topology
	///////////////////////////////////////////////////////////////////////////
	results, err := server.executeAll(agents, round, sensing)
	if err != nil {
		return err
	}

	for i, ag := range agents {
		if err := ag.Commit(results[i]); err != nil {
			return errors.Wrap(err, "could not commit round "+strconv.Itoa(int(round)))
		}

		for _, announcement := range results[i].GetAnnouncements() {
			server.emit(EventAnnounce{AgentId: ag.GetId(), Round: round, Value: announcement})
		}
	}

	///////////////////////////////////////////////////////////////////////////
	// Recomputing the topology from the committed positions
	///////////////////////////////////////////////////////////////////////////
	topo, err := server.strategy.Recompute(nodesOf(agents), server.commrange)
	if err != nil {
		return errors.Wrap(err, "could not recompute topology on round "+strconv.Itoa(int(round)))
	}

	///////////////////////////////////////////////////////////////////////////
	// Relaying outgoing messages over the new topology
	///////////////////////////////////////////////////////////////////////////
	outgoing := make(map[uuid.UUID]protocol.Message, len(agents))
	receivers := make([]relay.Receiver, len(agents))
	for i, ag := range agents {
		outgoing[ag.GetId()] = ag.GetOutgoing()
		receivers[i] = ag
	}

	nbtransfers, err := relay.Deliver(receivers, topo, outgoing)
	if err != nil {
		return errors.Wrap(err, "could not relay messages on round "+strconv.Itoa(int(round)))
	}

	server.agentsmutex.Lock()
	server.topology = topo
	server.agentsmutex.Unlock()

	server.setTurn(turn)
	atomic.AddUint64(&server.debugNbRounds, 1)
	atomic.AddUint64(&server.debugNbTransfers, uint64(nbtransfers))

	///////////////////////////////////////////////////////////////////////////
	// Pushing the snapshot to observers
	///////////////////////////////////////////////////////////////////////////
	observables := make([]state.Observable, len(agents))
	for i, ag := range agents {
		observables[i] = ag
	}

	server.publish(state.MakeSnapshot(server.runid, round, topo, observables))

	return nil
}

// executeAll returns one result per agent, in agent order, or the fault of
// the first failing agent in that order.
func (server *Server) executeAll(agents []*agent.Agent, round uint32, sensing agent.Sensing) ([]*agent.RoundResult, error) {
	results := make([]*agent.RoundResult, len(agents))
	errs := make([]error, len(agents))

	if server.parallel {
		wg := sync.WaitGroup{}
		wg.Add(len(agents))

		for i, ag := range agents {
			go func(i int, ag *agent.Agent) {
				defer wg.Done()
				results[i], errs[i] = ag.ExecuteRound(round, sensing)
			}(i, ag)
		}

		wg.Wait()
	} else {
		for i, ag := range agents {
			results[i], errs[i] = ag.ExecuteRound(round, sensing)
			if errs[i] != nil {
				break
			}
		}
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	for i := range results {
		utils.Assert(results[i] != nil, "no round result for agent "+agents[i].GetId().String())
	}

	return results, nil
}

func nodesOf(agents []*agent.Agent) []topology.Node {
	nodes := make([]topology.Node, len(agents))
	for i, ag := range agents {
		nodes[i] = ag
	}

	return nodes
}
