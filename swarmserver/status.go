package swarmserver

type Status uint8

const (
	StatusIdle Status = iota
	StatusRunning
	StatusCompleted
	StatusCancelled
	StatusHalted
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusHalted:
		return "halted"
	}

	return "unknown"
}

func (server *Server) GetStatus() Status {
	server.statusmutex.Lock()
	defer server.statusmutex.Unlock()

	return server.status
}

func (server *Server) setStatus(status Status) {
	server.statusmutex.Lock()
	changed := server.status != status
	server.status = status
	server.statusmutex.Unlock()

	if changed {
		server.emit(EventStatusUpdate{Status: status})
	}
}
