package agent

import (
	"strconv"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

var (
	ErrProgramFault    = errors.New("program fault")
	ErrAlreadyExecuted = errors.New("agent already executed this round")
	ErrForeignResult   = errors.New("round result does not belong to this agent")
)

// ProgramFault reports an error or a panic raised by an agent program.
type ProgramFault struct {
	AgentId uuid.UUID
	Round   uint32
	Err     error
}

func (fault *ProgramFault) Error() string {
	return "program fault on agent " + fault.AgentId.String() + " in round " + strconv.Itoa(int(fault.Round)) + ": " + fault.Err.Error()
}

func (fault *ProgramFault) Unwrap() error {
	return fault.Err
}

func (fault *ProgramFault) Cause() error {
	return fault.Err
}

func (fault *ProgramFault) Is(target error) bool {
	return target == ErrProgramFault
}
