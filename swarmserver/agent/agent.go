package agent

import (
	"math/rand"
	"time"

	"github.com/bytearena/geoswarm/common/geo"
	"github.com/bytearena/geoswarm/swarmserver/protocol"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

// Agent is one simulated device. It is not safe for concurrent use: the
// server runs at most one ExecuteRound per agent at a time and never delivers
// messages while agents execute.
type Agent struct {
	id          uuid.UUID
	position    geo.Position
	program     Program
	environment *protocol.Environment
	inbox       map[uuid.UUID]protocol.Message
	outgoing    protocol.Message
	random      *rand.Rand

	executedround uint32
}

func NewAgent(program Program, position geo.Position) *Agent {
	return NewAgentWithId(uuid.NewV4(), program, position)
}

func NewAgentWithId(id uuid.UUID, program Program, position geo.Position) *Agent {
	return &Agent{
		id:          id,
		position:    position,
		program:     program,
		environment: protocol.NewEnvironment(),
		inbox:       make(map[uuid.UUID]protocol.Message),
		outgoing:    protocol.MakeEmptyMessage(),
		random:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (agent *Agent) GetId() uuid.UUID {
	return agent.id
}

func (agent *Agent) GetPosition() geo.Position {
	return agent.position
}

func (agent *Agent) String() string {
	return "<Agent(" + agent.id.String() + ")>"
}

// GetEnvironment gives direct access to the environment, for bootstrap
// markers written before the first round.
func (agent *Agent) GetEnvironment() *protocol.Environment {
	return agent.environment
}

func (agent *Agent) SetRandomSource(random *rand.Rand) {
	agent.random = random
}

// GetOutgoing is the message committed at the end of the last round.
func (agent *Agent) GetOutgoing() protocol.Message {
	return agent.outgoing
}

// ReceiveMessage replaces whatever was previously received from sender.
func (agent *Agent) ReceiveMessage(sender uuid.UUID, message protocol.Message) {
	agent.inbox[sender] = message
}

func (agent *Agent) GetMessageFrom(sender uuid.UUID) (protocol.Message, bool) {
	message, ok := agent.inbox[sender]
	return message, ok
}

// GetInbox returns every stored message, including those of agents that are
// no longer neighbours.
func (agent *Agent) GetInbox() map[uuid.UUID]protocol.Message {
	inbox := make(map[uuid.UUID]protocol.Message, len(agent.inbox))
	for sender, message := range agent.inbox {
		inbox[sender] = message
	}

	return inbox
}

// ExecuteRound runs the program once. Nothing on the agent changes until the
// returned result is committed, so a failed round can simply be dropped.
func (agent *Agent) ExecuteRound(round uint32, sensing Sensing) (result *RoundResult, err error) {
	if round <= agent.executedround {
		return nil, errors.Wrapf(ErrAlreadyExecuted, "%s, round %d", agent, round)
	}
	agent.executedround = round

	ctx := newExecutionContext(agent, round, sensing)

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &ProgramFault{
				AgentId: agent.id,
				Round:   round,
				Err:     errors.Errorf("panic: %v", r),
			}
		}
	}()

	message, programerr := agent.program.RunOneRound(ctx)
	if programerr != nil {
		return nil, &ProgramFault{
			AgentId: agent.id,
			Round:   round,
			Err:     programerr,
		}
	}

	return &RoundResult{
		agentid:       agent.id,
		round:         round,
		position:      ctx.position,
		environment:   ctx.environment,
		message:       message,
		announcements: ctx.announcements,
	}, nil
}

// Commit applies a result produced by ExecuteRound on this agent.
func (agent *Agent) Commit(result *RoundResult) error {
	if result == nil || !uuid.Equal(result.agentid, agent.id) {
		return errors.Wrap(ErrForeignResult, agent.String())
	}

	agent.position = result.position
	agent.environment = result.environment
	agent.outgoing = result.message

	return nil
}
