package types

import (
	"sort"
	"sync"
)

// SyncMap is a string keyed map safe for concurrent use; typed wrappers embed
// it and add a typed Get.
type SyncMap struct {
	data map[string]interface{}
	lock *sync.RWMutex
}

func NewSyncMap() *SyncMap {
	return &SyncMap{
		data: make(map[string]interface{}),
		lock: &sync.RWMutex{},
	}
}

func (wmap *SyncMap) GetGeneric(id string) interface{} {
	wmap.lock.RLock()
	defer wmap.lock.RUnlock()

	return wmap.data[id]
}

func (wmap *SyncMap) Set(id string, item interface{}) {
	wmap.lock.Lock()
	wmap.data[id] = item
	wmap.lock.Unlock()
}

func (wmap *SyncMap) Remove(id string) {
	wmap.lock.Lock()
	delete(wmap.data, id)
	wmap.lock.Unlock()
}

func (wmap *SyncMap) Size() int {
	wmap.lock.RLock()
	defer wmap.lock.RUnlock()

	return len(wmap.data)
}

// GetKeys are sorted.
func (wmap *SyncMap) GetKeys() []string {
	wmap.lock.RLock()
	keys := make([]string, 0, len(wmap.data))
	for key := range wmap.data {
		keys = append(keys, key)
	}
	wmap.lock.RUnlock()

	sort.Strings(keys)

	return keys
}

// ToArrayGeneric lists the items in key order.
func (wmap *SyncMap) ToArrayGeneric() []interface{} {
	keys := wmap.GetKeys()

	wmap.lock.RLock()
	defer wmap.lock.RUnlock()

	res := make([]interface{}, 0, len(keys))
	for _, key := range keys {
		if item, ok := wmap.data[key]; ok {
			res = append(res, item)
		}
	}

	return res
}
