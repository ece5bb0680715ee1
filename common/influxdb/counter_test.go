package influxdb_test

import (
	"sync"
	"testing"
	"time"

	"github.com/bytearena/geoswarm/common/influxdb"
	"github.com/bytearena/geoswarm/common/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	counter := influxdb.NewCounter()

	wg := sync.WaitGroup{}
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			counter.Add(2)
		}()
	}
	wg.Wait()

	assert.Equal(t, 40, counter.Get())
	assert.Equal(t, 40, counter.GetAndReset())
	assert.Equal(t, 0, counter.GetAndReset())
}

func TestStubClient(t *testing.T) {
	lines := make(chan string, 10)
	utils.LogFn = func(service, message string) {
		if service == "influxdb-debug" {
			lines <- message
		}
	}
	defer func() { utils.LogFn = func(service, message string) {} }()

	client, err := influxdb.NewClient("geoswarm", "", "")
	require.Nil(t, err)
	assert.True(t, client.IsStub())

	require.Nil(t, client.WriteAppMetric("rounds", map[string]interface{}{
		"nbrounds":   3,
		"components": 1,
	}))
	assert.Equal(t, "rounds components=1 nbrounds=3", <-lines)

	ticks := make(chan bool, 1)
	client.Loop(10*time.Millisecond, func() {
		select {
		case ticks <- true:
		default:
		}
	})

	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("loop never ticked")
	}

	client.TearDown()
}

func TestHalfConfiguredClient(t *testing.T) {
	client, err := influxdb.NewClient("geoswarm", "http://localhost:8086", "")
	assert.NotNil(t, err)
	assert.True(t, client.IsStub())
}
