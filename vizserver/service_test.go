package vizserver

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytearena/geoswarm/common/geo"
	"github.com/bytearena/geoswarm/common/healthcheck"
	"github.com/bytearena/geoswarm/common/mq"
	"github.com/bytearena/geoswarm/common/utils"
	"github.com/bytearena/geoswarm/swarmserver/state"
	"github.com/bytearena/geoswarm/vizserver/handler"
	"github.com/bytearena/geoswarm/vizserver/types"
	"github.com/gorilla/websocket"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const runid = "run-1"

func init() {
	utils.LogFn = func(service, message string) {}
}

func newTestService(t *testing.T) (*VizService, *types.VizRunMap, *httptest.Server) {
	runs := types.NewVizRunMap()
	runs.Add(types.NewVizRun(runid, 10, 500))

	health := healthcheck.NewHealthCheckServer(0)
	health.Register("viz", func() (bool, error) { return true, nil })

	viz := NewVizService("127.0.0.1:0", runs, health)
	ts := httptest.NewServer(viz.Router())
	t.Cleanup(ts.Close)

	return viz, runs, ts
}

func snapshotMessage(t *testing.T, round uint32) mq.BrokerMessage {
	a := uuid.NewV4()
	b := uuid.NewV4()

	snapshot := state.Snapshot{
		RunId: runid,
		Round: round,
		Range: 500,
		Agents: []state.AgentState{
			{Id: a, Position: geo.Position{Latitude: 42.3858, Longitude: -71.1515, Elevation: 300}, Leader: true, Neighbors: []uuid.UUID{b}},
			{Id: b, Position: geo.Position{Latitude: 42.3878, Longitude: -71.1515, Elevation: 300}, Neighbors: []uuid.UUID{a}},
		},
		NbEdges:      1,
		NbComponents: 1,
	}

	data, err := json.Marshal(snapshot)
	require.Nil(t, err)

	return mq.BrokerMessage{Channel: "viz", Topic: "message", Data: data}
}

func get(t *testing.T, url string) (int, string) {
	res, err := http.Get(url)
	require.Nil(t, err)
	defer res.Body.Close()

	body, err := ioutil.ReadAll(res.Body)
	require.Nil(t, err)

	return res.StatusCode, string(body)
}

func TestRoutes(t *testing.T) {
	viz, _, ts := newTestService(t)

	code, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "/run/"+runid)

	code, _ = get(t, ts.URL+"/run/unknown")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = get(t, ts.URL+"/run/"+runid+"/geojson")
	assert.Equal(t, http.StatusNotFound, code)

	code, body = get(t, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "\"viz\"")

	viz.OnStateMessage(snapshotMessage(t, 4))
	// older rounds never replace the latest one
	viz.OnStateMessage(snapshotMessage(t, 2))

	code, body = get(t, ts.URL+"/run/"+runid)
	require.Equal(t, http.StatusOK, code)

	var summary handler.RunSummary
	require.Nil(t, json.Unmarshal([]byte(body), &summary))
	assert.Equal(t, runid, summary.Id)
	assert.Equal(t, uint32(4), summary.Round)
	assert.Equal(t, 2, summary.NbAgents)
	assert.Equal(t, 1, summary.NbEdges)
	assert.Equal(t, 500.0, summary.Range)

	code, body = get(t, ts.URL+"/run/"+runid+"/geojson")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "FeatureCollection")
	assert.Contains(t, body, "LineString")
}

func TestUnknownRunIsIgnored(t *testing.T) {
	viz, runs, _ := newTestService(t)

	msg := snapshotMessage(t, 1)
	msg.Data = []byte(strings.Replace(string(msg.Data), runid, "other", 1))
	viz.OnStateMessage(msg)

	viz.OnStateMessage(mq.BrokerMessage{Data: []byte("not json")})

	_, ok := runs.Get(runid).GetSnapshot()
	assert.False(t, ok)
}

func TestWebsocketStream(t *testing.T) {
	viz, runs, ts := newTestService(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/run/" + runid + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.Nil(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var init types.VizMessage
	require.Nil(t, conn.ReadJSON(&init))
	assert.Equal(t, types.VizMessageInit, init.Type)

	var initdata types.VizInitMessageData
	require.Nil(t, json.Unmarshal(init.Data, &initdata))
	assert.Equal(t, runid, initdata.RunId)
	assert.Equal(t, 10, initdata.Tps)

	assert.Equal(t, 1, runs.Get(runid).GetNumberWatchers())

	viz.OnStateMessage(snapshotMessage(t, 1))

	var frame types.VizMessage
	require.Nil(t, conn.ReadJSON(&frame))
	assert.Equal(t, types.VizMessageFrameBatch, frame.Type)

	var snapshot state.Snapshot
	require.Nil(t, json.Unmarshal(frame.Data, &snapshot))
	assert.Equal(t, uint32(1), snapshot.Round)
	assert.Len(t, snapshot.Agents, 2)
}
