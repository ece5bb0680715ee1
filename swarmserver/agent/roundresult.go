package agent

import (
	"github.com/bytearena/geoswarm/common/geo"
	"github.com/bytearena/geoswarm/swarmserver/protocol"
	uuid "github.com/satori/go.uuid"
)

// RoundResult holds the staged effects of one executed round.
type RoundResult struct {
	agentid       uuid.UUID
	round         uint32
	position      geo.Position
	environment   *protocol.Environment
	message       protocol.Message
	announcements []string
}

func (result *RoundResult) GetAgentId() uuid.UUID {
	return result.agentid
}

func (result *RoundResult) GetRound() uint32 {
	return result.round
}

func (result *RoundResult) GetPosition() geo.Position {
	return result.position
}

func (result *RoundResult) GetMessage() protocol.Message {
	return result.message
}

func (result *RoundResult) GetAnnouncements() []string {
	return result.announcements
}
