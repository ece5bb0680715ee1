package main

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/bytearena/geoswarm/common/recording"
	"github.com/bytearena/geoswarm/common/utils"
	"github.com/bytearena/geoswarm/config"
	"github.com/bytearena/geoswarm/swarmserver/state"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	utils.LogFn = func(service, message string) {}
}

type fakeFlags map[string]interface{}

func (f fakeFlags) IsSet(name string) bool { _, ok := f[name]; return ok }
func (f fakeFlags) String(name string) string {
	v, _ := f[name].(string)
	return v
}
func (f fakeFlags) Int(name string) int {
	v, _ := f[name].(int)
	return v
}
func (f fakeFlags) Int64(name string) int64 {
	v, _ := f[name].(int64)
	return v
}
func (f fakeFlags) Float64(name string) float64 {
	v, _ := f[name].(float64)
	return v
}
func (f fakeFlags) Bool(name string) bool {
	v, _ := f[name].(bool)
	return v
}

func TestApplyFlags(t *testing.T) {
	conf := config.DefaultConfig()
	conf.Simulation.Range = 800

	applyFlags(conf, fakeFlags{
		"rounds":   20,
		"tps":      0,
		"parallel": true,
		"seed":     int64(7),
		"strategy": "indexed",
		"grid":     4,
		"viz-port": 9000,
		"broker":   "localhost:8080",
	})

	// not given on the command line
	assert.Equal(t, 800.0, conf.Simulation.Range)
	assert.Equal(t, "gradient-walk", conf.Swarm.Program)

	assert.Equal(t, uint32(20), conf.Simulation.Rounds)
	assert.Equal(t, 0, conf.Simulation.Tps)
	assert.True(t, conf.Simulation.Parallel)
	assert.Equal(t, int64(7), conf.Simulation.Seed)
	assert.Equal(t, "indexed", conf.Simulation.Strategy)
	assert.Equal(t, 4, conf.Swarm.Edge)
	assert.Equal(t, "0.0.0.0:9000", conf.Viz.Addr)
	assert.Equal(t, "localhost:8080", conf.Broker.Host)
}

func TestLoadConfigRejectsInvalidFlags(t *testing.T) {
	_, err := loadConfig(fakeFlags{"range": -1.0})
	assert.True(t, errors.Is(err, config.ErrInvalidConfiguration))

	// leader 5 does not fit in a 2x2 grid
	_, err = loadConfig(fakeFlags{"grid": 2})
	assert.True(t, errors.Is(err, config.ErrInvalidConfiguration))
}

func TestLoadConfigFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "geoswarm.yml")
	require.Nil(t, ioutil.WriteFile(filename, []byte("simulation:\n  range: 300\n"), 0644))

	conf, err := loadConfig(fakeFlags{"config": filename, "program": "static"})
	require.Nil(t, err)

	assert.Equal(t, 300.0, conf.Simulation.Range)
	assert.Equal(t, "static", conf.Swarm.Program)
}

func TestLayoutCommand(t *testing.T) {
	app := makeapp()

	var out bytes.Buffer
	app.Writer = &out

	require.Nil(t, app.Run([]string{"geoswarm", "layout", "--grid", "3"}))

	assert.Contains(t, out.String(), "FeatureCollection")
	assert.Equal(t, 9, bytes.Count(out.Bytes(), []byte("\"Point\"")))
}

func TestProgramsCommand(t *testing.T) {
	app := makeapp()

	var out bytes.Buffer
	app.Writer = &out

	require.Nil(t, app.Run([]string{"geoswarm", "programs"}))
	assert.Contains(t, out.String(), "gradient-walk\n")
}

func TestRoundMetrics(t *testing.T) {
	metrics := newRoundMetrics()

	snapshot := state.Snapshot{
		Agents:       []state.AgentState{{}, {}},
		NbEdges:      1,
		NbComponents: 1,
	}
	snapshot.Agents[0].Neighbors = make([]uuid.UUID, 1)
	snapshot.Agents[1].Neighbors = make([]uuid.UUID, 1)

	require.Nil(t, metrics.Observe(snapshot))
	require.Nil(t, metrics.Observe(snapshot))

	fields := metrics.fields()
	assert.Equal(t, 2, fields["rounds"])
	assert.Equal(t, 4, fields["transfers"])
	assert.Equal(t, 1, fields["edges"])

	assert.Equal(t, 0, metrics.fields()["rounds"])
}

func TestReplayAction(t *testing.T) {
	recorder := recording.MakeSingleRunRecorder(filepath.Join(t.TempDir(), "run"))
	require.Nil(t, recorder.RecordMetadata("run-1", recording.MakeRecordMetadata("run-1", 500, 0, "static")))

	for round := uint32(1); round <= 3; round++ {
		data, err := json.Marshal(state.Snapshot{RunId: "run-1", Round: round, Range: 500})
		require.Nil(t, err)
		require.Nil(t, recorder.Record("run-1", string(data)))
	}
	require.Nil(t, recorder.Close("run-1"))

	assert.Nil(t, replayAction(recorder.GetFilename(), 0, ""))

	require.Nil(t, recorder.Record("run-1", "not json"))
	require.Nil(t, recorder.Close("run-1"))
	assert.NotNil(t, replayAction(recorder.GetFilename(), 0, ""))
}
