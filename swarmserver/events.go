package swarmserver

import (
	uuid "github.com/satori/go.uuid"
)

type EventLog struct{ Value string }
type EventDebug struct{ Value string }
type EventWarn struct{ Err error }
type EventError struct{ Err error }
type EventStatusUpdate struct{ Status Status }
type EventClose struct{}

// EventAnnounce carries a message a program emitted with Announce.
type EventAnnounce struct {
	AgentId uuid.UUID
	Round   uint32
	Value   string
}

// Events are dropped when nobody drains the channel.
func (server *Server) Events() <-chan interface{} {
	return server.events
}

func (server *Server) emit(event interface{}) {
	select {
	case server.events <- event:
	default:
	}
}
