package utils

import (
	"strconv"

	uuid "github.com/satori/go.uuid"
)

// Tickturn identifies one simulation round. Sequence numbers are monotonic
// and start at 1 for the first executed round.
type Tickturn struct {
	seq uint32
	id  uuid.UUID
}

func MakeTickturn(seq uint32) Tickturn {
	return Tickturn{
		seq: seq,
		id:  uuid.NewV4(),
	}
}

func (turn Tickturn) String() string {
	return "<TickTurn(" + strconv.Itoa(int(turn.seq)) + ")>"
}

func (turn Tickturn) Next() Tickturn {
	return MakeTickturn(turn.seq + 1)
}

func (turn Tickturn) GetSeq() uint32 {
	return turn.seq
}

func (turn Tickturn) GetId() uuid.UUID {
	return turn.id
}
