package types

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncMap(t *testing.T) {
	wmap := NewSyncMap()

	wg := sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			wmap.Set("k"+strconv.Itoa(i), i)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, wmap.Size())
	assert.Equal(t, 7, wmap.GetGeneric("k7"))
	assert.Nil(t, wmap.GetGeneric("missing"))

	wmap.Remove("k7")
	assert.Equal(t, 49, wmap.Size())

	keys := wmap.GetKeys()
	assert.Equal(t, "k0", keys[0])
	assert.Len(t, wmap.ToArrayGeneric(), 49)
}
