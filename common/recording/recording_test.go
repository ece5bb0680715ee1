package recording

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytearena/geoswarm/common/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	utils.LogFn = func(service, message string) {}
}

func TestSingleRunRecorder(t *testing.T) {
	dir, err := ioutil.TempDir("", "geoswarm-record")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	recorder := MakeSingleRunRecorder(filepath.Join(dir, "run"))
	assert.Equal(t, filepath.Join(dir, "run.zip"), recorder.GetFilename())

	assert.NotNil(t, recorder.Close("run"))

	require.Nil(t, recorder.RecordMetadata("run", MakeRecordMetadata("run", 500, 25, "gradient")))
	require.Nil(t, recorder.Record("run", `{"round":1}`))
	require.Nil(t, recorder.Record("run", `{"round":2}`))
	require.Nil(t, recorder.Close("run"))

	files, err := ReadArchive(recorder.GetFilename())
	require.Nil(t, err)

	assert.Equal(t, "{\"round\":1}\n{\"round\":2}\n", files["Record"])

	var metadata RecordMetadata
	require.Nil(t, json.Unmarshal([]byte(files["RecordMetadata"]), &metadata))
	assert.Equal(t, "run", metadata.RunId)
	assert.Equal(t, 25, metadata.NbAgents)
	assert.Equal(t, "gradient", metadata.Program)
}

func TestEmptyRecorder(t *testing.T) {
	var recorder Recorder = MakeEmptyRecorder()

	assert.Nil(t, recorder.RecordMetadata("run", RecordMetadata{}))
	assert.Nil(t, recorder.Record("run", "frame"))
	assert.Nil(t, recorder.Close("run"))
}
