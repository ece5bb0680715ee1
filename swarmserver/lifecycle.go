package swarmserver

import (
	"context"
	"strconv"
	"time"

	"github.com/bytearena/geoswarm/common/types"
	"github.com/bytearena/geoswarm/common/utils"
	"github.com/pkg/errors"
)

// Step runs exactly one round. Cancellation is only looked at here, before
// the round starts; a started round always runs to completion or to a fault.
func (server *Server) Step(ctx context.Context) error {
	server.roundmutex.Lock()
	defer server.roundmutex.Unlock()

	if server.GetStatus() == StatusHalted {
		return errors.Wrap(ErrHalted, server.GetHaltCause().Error())
	}

	if err := ctx.Err(); err != nil {
		server.setStatus(StatusCancelled)
		return err
	}

	if err := server.prepare(); err != nil {
		server.halt(err)
		return err
	}

	server.setStatus(StatusRunning)

	if err := server.doRound(); err != nil {
		server.halt(err)
		return err
	}

	return nil
}

// Run steps until maxRounds rounds have run (0 means no limit), ctx is
// cancelled or a round fails.
func (server *Server) Run(ctx context.Context, maxRounds uint32) error {
	server.startMonitoring()

	var ticker *time.Ticker
	if period := server.tickDuration(); period > 0 {
		ticker = time.NewTicker(period)
		defer ticker.Stop()
	}

	for done := uint32(0); maxRounds == 0 || done < maxRounds; done++ {
		if ticker != nil && done > 0 {
			select {
			case <-ctx.Done():
			case <-ticker.C:
			}
		}

		if err := server.Step(ctx); err != nil {
			return err
		}
	}

	server.setStatus(StatusCompleted)
	utils.Debug("core-loop", "completed after "+strconv.Itoa(int(server.GetTurn().GetSeq()))+" rounds")

	return nil
}

// Start runs in the background; the returned channel receives the outcome of
// Run and is then closed.
func (server *Server) Start(ctx context.Context, maxRounds uint32) <-chan error {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)

	server.AddTearDownCall(func() error {
		cancel()
		return nil
	})

	go func() {
		err := server.Run(ctx, maxRounds)
		if errors.Cause(err) == context.Canceled {
			err = nil
		}

		done <- err
		close(done)
	}()

	return done
}

func (server *Server) Stop() {
	utils.Debug("swarm-server", "TearDown from stop")
	server.TearDown()
}

func (server *Server) halt(cause error) {
	server.statusmutex.Lock()
	server.haltcause = cause
	server.statusmutex.Unlock()

	utils.Debug("core-loop", "halting: "+cause.Error())

	server.setStatus(StatusHalted)
	server.emit(EventError{Err: cause})
}

// GetHaltCause is the error that halted the simulation, if any.
func (server *Server) GetHaltCause() error {
	server.statusmutex.Lock()
	defer server.statusmutex.Unlock()

	return server.haltcause
}

func (server *Server) AddTearDownCall(fn types.TearDownCallback) {
	server.tearDownCallbacksMutex.Lock()
	defer server.tearDownCallbacksMutex.Unlock()

	server.tearDownCallbacks = append(server.tearDownCallbacks, fn)
}

// TearDown closes the observer channels and waits for the observers to drain
// them, then runs the registered callbacks in reverse order and emits
// EventClose. Callbacks may therefore release what observers use. Only the
// callbacks are consumed by the first call.
func (server *Server) TearDown() {
	utils.Debug("swarm-server", "teardown")

	server.closeObservers()

	if !utils.WaitTimeout(server.observerswg, observerDrainTimeout) {
		server.emit(EventWarn{Err: errors.New("observers still busy after " + observerDrainTimeout.String())})
	}

	server.tearDownCallbacksMutex.Lock()

	for i := len(server.tearDownCallbacks) - 1; i >= 0; i-- {
		if err := server.tearDownCallbacks[i](); err != nil {
			server.emit(EventWarn{Err: errors.Wrap(err, "teardown callback failed")})
		}
	}

	// Reset to avoid calling teardown callback multiple times
	server.tearDownCallbacks = make([]types.TearDownCallback, 0)

	server.tearDownCallbacksMutex.Unlock()

	server.emit(EventClose{})
}
