package agent

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/bytearena/geoswarm/common/geo"
	"github.com/bytearena/geoswarm/swarmserver/protocol"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSensing struct {
	neighbors map[uuid.UUID][]uuid.UUID
	positions map[uuid.UUID]geo.Position
}

func (s fakeSensing) Neighbors(id uuid.UUID) []uuid.UUID {
	return s.neighbors[id]
}

func (s fakeSensing) Position(id uuid.UUID) (geo.Position, bool) {
	p, ok := s.positions[id]
	return p, ok
}

var origin = geo.FromDegrees(42.3858, -71.1515, 300)

func exportRound() Program {
	return ProgramFunc(func(ctx ExecutionContext) (protocol.Message, error) {
		return protocol.NewMessageBuilder().
			Set("round", protocol.Number(float64(ctx.GetRound()))).
			Build(), nil
	})
}

func TestExecuteRoundStagesEffects(t *testing.T) {
	program := ProgramFunc(func(ctx ExecutionContext) (protocol.Message, error) {
		ctx.Move(0, 50, 0)
		ctx.GetEnvironment().Put("visited", protocol.Bool(true))
		ctx.Announce("moved")
		return protocol.NewMessageBuilder().Set("x", protocol.Number(1)).Build(), nil
	})

	ag := NewAgent(program, origin)

	result, err := ag.ExecuteRound(1, nil)
	require.Nil(t, err)

	// nothing visible before commit
	assert.Equal(t, origin, ag.GetPosition())
	assert.False(t, ag.GetEnvironment().Has("visited"))
	assert.Equal(t, 0, ag.GetOutgoing().Len())
	assert.Equal(t, []string{"moved"}, result.GetAnnouncements())

	require.Nil(t, ag.Commit(result))

	assert.InDelta(t, 50.0, origin.Distance3D(ag.GetPosition()), 0.5)
	assert.True(t, ag.GetEnvironment().GetBool("visited"))
	value, ok := ag.GetOutgoing().Get("x")
	assert.True(t, ok)
	assert.True(t, value.Equal(protocol.Number(1)))
}

func TestExecuteRoundAtMostOncePerRound(t *testing.T) {
	ag := NewAgent(exportRound(), origin)

	_, err := ag.ExecuteRound(1, nil)
	assert.Nil(t, err)

	_, err = ag.ExecuteRound(1, nil)
	assert.True(t, errors.Is(err, ErrAlreadyExecuted))

	_, err = ag.ExecuteRound(2, nil)
	assert.Nil(t, err)
}

func TestProgramFault(t *testing.T) {
	examples := []struct {
		Name    string
		Program Program
	}{
		{
			Name: "error",
			Program: ProgramFunc(func(ctx ExecutionContext) (protocol.Message, error) {
				ctx.Move(100, 0, 0)
				return protocol.Message{}, errors.New("boom")
			}),
		},
		{
			Name: "panic",
			Program: ProgramFunc(func(ctx ExecutionContext) (protocol.Message, error) {
				ctx.Move(100, 0, 0)
				panic("boom")
			}),
		},
	}

	for _, example := range examples {
		t.Run(example.Name, func(t *testing.T) {
			ag := NewAgent(example.Program, origin)

			result, err := ag.ExecuteRound(3, nil)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, ErrProgramFault))

			var fault *ProgramFault
			require.True(t, errors.As(err, &fault))
			assert.Equal(t, ag.GetId(), fault.AgentId)
			assert.Equal(t, uint32(3), fault.Round)

			// faulty round leaves no trace
			assert.Equal(t, origin, ag.GetPosition())
		})
	}
}

func TestCommitRejectsForeignResult(t *testing.T) {
	a := NewAgent(exportRound(), origin)
	b := NewAgent(exportRound(), origin)

	result, err := a.ExecuteRound(1, nil)
	require.Nil(t, err)

	assert.True(t, errors.Is(b.Commit(result), ErrForeignResult))
	assert.True(t, errors.Is(b.Commit(nil), ErrForeignResult))
}

func TestReceiveMessageLastWriteWins(t *testing.T) {
	ag := NewAgent(exportRound(), origin)
	sender := uuid.NewV4()

	first := protocol.NewMessageBuilder().Set("v", protocol.Number(1)).Build()
	second := protocol.NewMessageBuilder().Set("w", protocol.Number(2)).Build()

	ag.ReceiveMessage(sender, first)
	ag.ReceiveMessage(sender, second)

	stored, ok := ag.GetMessageFrom(sender)
	assert.True(t, ok)
	assert.True(t, stored.Equal(second))
	assert.Len(t, ag.GetInbox(), 1)
}

func TestNeighborFieldsUseFrozenPositions(t *testing.T) {
	self := NewAgent(nil, origin)
	neighbor := uuid.NewV4()
	stranger := uuid.NewV4()

	frozenNeighbor := origin.Move(100, 0, 0)
	sensing := fakeSensing{
		neighbors: map[uuid.UUID][]uuid.UUID{self.GetId(): {neighbor}},
		positions: map[uuid.UUID]geo.Position{
			self.GetId(): origin,
			neighbor:     frozenNeighbor,
		},
	}

	self.ReceiveMessage(neighbor, protocol.NewMessageBuilder().Set("n", protocol.Bool(true)).Build())
	self.ReceiveMessage(stranger, protocol.NewMessageBuilder().Set("s", protocol.Bool(true)).Build())

	var ranges map[uuid.UUID]float64
	var inbox map[uuid.UUID]protocol.Message
	var east float64

	self.program = ProgramFunc(func(ctx ExecutionContext) (protocol.Message, error) {
		// moving first must not change what the agent senses this round
		ctx.Move(-500, 0, 0)
		ranges = ctx.NeighborRangeField()
		east = ctx.NeighborVectorField()[neighbor].GetX()
		inbox = ctx.GetInbox()
		return protocol.MakeEmptyMessage(), nil
	})

	_, err := self.ExecuteRound(1, sensing)
	require.Nil(t, err)

	assert.Len(t, ranges, 1)
	assert.InDelta(t, origin.Distance3D(frozenNeighbor), ranges[neighbor], 1e-9)
	assert.InDelta(t, 100.0, east, 1e-6)
	assert.Len(t, inbox, 1)
	assert.Contains(t, inbox, neighbor)
}

func TestRandomSourceInUnitInterval(t *testing.T) {
	var draws []float64
	ag := NewAgent(ProgramFunc(func(ctx ExecutionContext) (protocol.Message, error) {
		for i := 0; i < 100; i++ {
			draws = append(draws, ctx.NextRandomDouble())
		}
		return protocol.MakeEmptyMessage(), nil
	}), origin)
	ag.SetRandomSource(rand.New(rand.NewSource(7)))

	_, err := ag.ExecuteRound(1, nil)
	require.Nil(t, err)

	for _, d := range draws {
		assert.True(t, d >= 0 && d < 1)
	}
}
