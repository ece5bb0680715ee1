package types

import (
	commontypes "github.com/bytearena/geoswarm/common/types"
)

type WatcherMap struct {
	*commontypes.SyncMap
}

func NewWatcherMap() *WatcherMap {
	return &WatcherMap{
		commontypes.NewSyncMap(),
	}
}

func (wmap *WatcherMap) Get(id string) *Watcher {
	if res, ok := (wmap.GetGeneric(id)).(*Watcher); ok {
		return res
	}

	return nil
}

func (wmap *WatcherMap) GetAll() []*Watcher {
	items := wmap.ToArrayGeneric()
	res := make([]*Watcher, 0, len(items))

	for _, item := range items {
		if watcher, ok := item.(*Watcher); ok {
			res = append(res, watcher)
		}
	}

	return res
}

type VizRunMap struct {
	*commontypes.SyncMap
}

func NewVizRunMap() *VizRunMap {
	return &VizRunMap{
		commontypes.NewSyncMap(),
	}
}

func (rmap *VizRunMap) Get(id string) *VizRun {
	if res, ok := (rmap.GetGeneric(id)).(*VizRun); ok {
		return res
	}

	return nil
}

func (rmap *VizRunMap) Add(run *VizRun) {
	rmap.Set(run.GetId(), run)
}

func (rmap *VizRunMap) GetAll() []*VizRun {
	items := rmap.ToArrayGeneric()
	res := make([]*VizRun, 0, len(items))

	for _, item := range items {
		if run, ok := item.(*VizRun); ok {
			res = append(res, run)
		}
	}

	return res
}
