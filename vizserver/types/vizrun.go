package types

import (
	"sync"

	"github.com/bytearena/geoswarm/common/utils"
	"github.com/bytearena/geoswarm/swarmserver/state"
)

type VizRun struct {
	id     string
	tps    int
	rng    float64
	pool   *WatcherMap
	lock   *sync.RWMutex
	latest *state.Snapshot
}

func NewVizRun(id string, tps int, commRange float64) *VizRun {
	return &VizRun{
		id:   id,
		tps:  tps,
		rng:  commRange,
		pool: NewWatcherMap(),
		lock: &sync.RWMutex{},
	}
}

func (run *VizRun) GetId() string {
	return run.id
}

func (run *VizRun) GetTps() int {
	return run.tps
}

func (run *VizRun) GetRange() float64 {
	return run.rng
}

// SetSnapshot keeps the most recent round only; frames may arrive out of order
// from the broker.
func (run *VizRun) SetSnapshot(snapshot state.Snapshot) bool {
	run.lock.Lock()
	defer run.lock.Unlock()

	if run.latest != nil && run.latest.Round > snapshot.Round {
		return false
	}

	run.latest = &snapshot
	return true
}

func (run *VizRun) GetSnapshot() (state.Snapshot, bool) {
	run.lock.RLock()
	defer run.lock.RUnlock()

	if run.latest == nil {
		return state.Snapshot{}, false
	}

	return *run.latest, true
}

func (run *VizRun) SetWatcher(watcher *Watcher) {
	run.pool.Set(watcher.GetId(), watcher)

	initMsg, err := MakeVizMessage(VizMessageInit, VizInitMessageData{
		RunId: run.id,
		Tps:   run.tps,
		Range: run.rng,
	})
	if err == nil {
		err = watcher.Send(initMsg)
	}

	if err != nil {
		utils.Debug("viz-server", "Could not send VizInitMessage JSON;"+err.Error())
	}
}

func (run *VizRun) RemoveWatcher(watcherid string) {
	run.pool.Remove(watcherid)
}

func (run *VizRun) GetNumberWatchers() int {
	return run.pool.Size()
}

// Broadcast sends a raw frame to every watcher; a failing watcher is logged
// and left to its own handler to be removed.
func (run *VizRun) Broadcast(frame []byte) {
	for _, watcher := range run.pool.GetAll() {
		if err := watcher.Send(frame); err != nil {
			utils.Debug("viz-server", "Could not send frame to watcher "+watcher.GetId()+"; "+err.Error())
		}
	}
}
