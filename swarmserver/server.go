// Package swarmserver drives the synchronous simulation: every round executes
// all agents, recomputes the topology from their new positions, relays the
// outgoing messages over that topology and publishes a snapshot.
package swarmserver

import (
	"math/rand"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytearena/geoswarm/common/types"
	"github.com/bytearena/geoswarm/common/utils"
	"github.com/bytearena/geoswarm/swarmserver/agent"
	"github.com/bytearena/geoswarm/swarmserver/state"
	"github.com/bytearena/geoswarm/swarmserver/topology"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

const (
	defaultEventBuffer    = 256
	defaultObserverBuffer = 16

	observerDrainTimeout = 2 * time.Second
)

type Options struct {
	RunId    string
	Range    float64 // metres
	Strategy topology.Strategy

	// Execute agents concurrently within a round.
	Parallel bool

	// Non zero seeds every agent random source, for reproducible runs.
	Seed int64

	// Rounds per second for Run; 0 runs as fast as possible.
	Tps int

	ObserverBuffer int
}

type Server struct {
	runid       string
	commrange   float64
	strategy    topology.Strategy
	parallel    bool
	seed        int64
	tickspersec int

	agents      []*agent.Agent
	agentindex  map[uuid.UUID]*agent.Agent
	agentsmutex *sync.Mutex

	// topology computed at the end of the last round; the sensing of the next
	topology *topology.Topology

	roundmutex       *sync.Mutex
	currentturn      utils.Tickturn
	currentturnmutex *sync.Mutex

	status      Status
	statusmutex *sync.Mutex
	haltcause   error

	events         chan interface{}
	observerbuffer int
	observers      []chan state.Snapshot
	observersmutex *sync.Mutex
	observersclose bool
	observerswg    *sync.WaitGroup

	tearDownCallbacks      []types.TearDownCallback
	tearDownCallbacksMutex *sync.Mutex
	monitoringonce         *sync.Once

	debugNbRounds    uint64
	debugNbTransfers uint64
}

func NewServer(options Options) (*Server, error) {
	if err := topology.ValidateRange(options.Range); err != nil {
		return nil, err
	}

	if options.Tps < 0 {
		return nil, errors.Wrap(ErrInvalidConfiguration, "tps must not be negative; got "+strconv.Itoa(options.Tps))
	}

	strategy := options.Strategy
	if strategy == nil {
		strategy = topology.BruteForce{}
	}

	runid := options.RunId
	if runid == "" {
		runid = uuid.NewV4().String()
	}

	observerbuffer := options.ObserverBuffer
	if observerbuffer <= 0 {
		observerbuffer = defaultObserverBuffer
	}

	return &Server{
		runid:       runid,
		commrange:   options.Range,
		strategy:    strategy,
		parallel:    options.Parallel,
		seed:        options.Seed,
		tickspersec: options.Tps,

		agents:      make([]*agent.Agent, 0),
		agentindex:  make(map[uuid.UUID]*agent.Agent),
		agentsmutex: &sync.Mutex{},

		roundmutex:       &sync.Mutex{},
		currentturn:      utils.MakeTickturn(0),
		currentturnmutex: &sync.Mutex{},

		status:      StatusIdle,
		statusmutex: &sync.Mutex{},

		events:         make(chan interface{}, defaultEventBuffer),
		observerbuffer: observerbuffer,
		observersmutex: &sync.Mutex{},
		observerswg:    &sync.WaitGroup{},

		tearDownCallbacksMutex: &sync.Mutex{},
		monitoringonce:         &sync.Once{},
	}, nil
}

func (server *Server) GetRunId() string {
	return server.runid
}

func (server *Server) GetRange() float64 {
	return server.commrange
}

func (server *Server) GetTicksPerSecond() int {
	return server.tickspersec
}

// RegisterAgent adds an agent before the first round. The population is
// fixed once the simulation has started.
func (server *Server) RegisterAgent(ag *agent.Agent) error {
	if err := ag.GetPosition().Validate(); err != nil {
		return errors.Wrapf(ErrInvalidConfiguration, "cannot register %s: %v", ag, err)
	}

	server.agentsmutex.Lock()
	defer server.agentsmutex.Unlock()

	if server.topology != nil {
		return errors.Wrap(ErrInvalidConfiguration, "cannot register "+ag.String()+": simulation already started")
	}

	if _, found := server.agentindex[ag.GetId()]; found {
		return errors.Wrap(ErrInvalidConfiguration, "duplicate agent id "+ag.GetId().String())
	}

	if server.seed != 0 {
		ag.SetRandomSource(rand.New(rand.NewSource(server.seed + int64(len(server.agents)))))
	}

	server.agents = append(server.agents, ag)
	server.agentindex[ag.GetId()] = ag

	return nil
}

func (server *Server) GetAgents() []*agent.Agent {
	server.agentsmutex.Lock()
	defer server.agentsmutex.Unlock()

	res := make([]*agent.Agent, len(server.agents))
	copy(res, server.agents)

	return res
}

func (server *Server) GetAgent(id uuid.UUID) (*agent.Agent, bool) {
	server.agentsmutex.Lock()
	defer server.agentsmutex.Unlock()

	ag, ok := server.agentindex[id]
	return ag, ok
}

func (server *Server) DoFindAgent(agentid string) (*agent.Agent, error) {
	foundkey, err := uuid.FromString(agentid)
	if err != nil {
		return nil, errors.Wrap(err, "invalid agent id "+agentid)
	}

	if ag, ok := server.GetAgent(foundkey); ok {
		return ag, nil
	}

	return nil, errors.New("Agent " + agentid + " not found")
}

// GetTopology is the topology of the last completed round, or nil before the
// simulation starts.
func (server *Server) GetTopology() *topology.Topology {
	server.agentsmutex.Lock()
	defer server.agentsmutex.Unlock()

	return server.topology
}

func (server *Server) setTurn(turn utils.Tickturn) {
	server.currentturnmutex.Lock()
	server.currentturn = turn
	server.currentturnmutex.Unlock()
}

func (server *Server) GetTurn() utils.Tickturn {
	server.currentturnmutex.Lock()
	res := server.currentturn
	server.currentturnmutex.Unlock()
	return res
}

func (server *Server) GetNbRounds() uint64 {
	return atomic.LoadUint64(&server.debugNbRounds)
}

func (server *Server) GetNbTransfers() uint64 {
	return atomic.LoadUint64(&server.debugNbTransfers)
}

// tickDuration is zero, meaning unpaced, when tps is 0 or too high for a
// nanosecond period.
func (server *Server) tickDuration() time.Duration {
	if server.tickspersec <= 0 {
		return 0
	}

	return time.Second / time.Duration(server.tickspersec)
}
