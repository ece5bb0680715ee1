package swarmserver

import (
	"github.com/bytearena/geoswarm/swarmserver/state"
	"github.com/pkg/errors"
)

// Observer receives a snapshot after every completed round. It runs on its
// own goroutine; a slow observer misses snapshots, a failing one only yields
// an EventWarn.
type Observer interface {
	Observe(snapshot state.Snapshot) error
}

type ObserverFunc func(snapshot state.Snapshot) error

func (fn ObserverFunc) Observe(snapshot state.Snapshot) error {
	return fn(snapshot)
}

func (server *Server) AddObserver(observer Observer) {
	ch := server.SubscribeStateObservation()

	server.observerswg.Add(1)
	go func() {
		defer server.observerswg.Done()

		for snapshot := range ch {
			server.observe(observer, snapshot)
		}
	}()
}

func (server *Server) observe(observer Observer, snapshot state.Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			server.emit(EventWarn{Err: errors.Errorf("observer panicked on round %d: %v", snapshot.Round, r)})
		}
	}()

	if err := observer.Observe(snapshot); err != nil {
		server.emit(EventWarn{Err: errors.Wrapf(err, "observer failed on round %d", snapshot.Round)})
	}
}

// SubscribeStateObservation returns a buffered channel fed with every
// snapshot; it is closed on TearDown.
func (server *Server) SubscribeStateObservation() <-chan state.Snapshot {
	ch := make(chan state.Snapshot, server.observerbuffer)

	server.observersmutex.Lock()
	defer server.observersmutex.Unlock()

	if server.observersclose {
		close(ch)
		return ch
	}

	server.observers = append(server.observers, ch)

	return ch
}

func (server *Server) publish(snapshot state.Snapshot) {
	server.observersmutex.Lock()
	defer server.observersmutex.Unlock()

	if server.observersclose {
		return
	}

	for _, subscriber := range server.observers {
		select {
		case subscriber <- snapshot:
		default:
		}
	}
}

func (server *Server) closeObservers() {
	server.observersmutex.Lock()
	defer server.observersmutex.Unlock()

	if server.observersclose {
		return
	}

	for _, subscriber := range server.observers {
		close(subscriber)
	}

	server.observers = nil
	server.observersclose = true
}
