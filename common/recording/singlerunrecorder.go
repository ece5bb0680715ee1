package recording

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/bytearena/geoswarm/common/utils"
	"github.com/pkg/errors"
)

// SingleRunRecorder buffers the frames of one run in memory and writes them,
// with the metadata, to a zip archive on Close.
type SingleRunRecorder struct {
	filename       string
	buffer         strings.Builder
	recordMetadata *RecordMetadata
	lock           *sync.Mutex
}

func MakeSingleRunRecorder(filename string) *SingleRunRecorder {
	return &SingleRunRecorder{
		filename: filename,
		lock:     &sync.Mutex{},
	}
}

func (r *SingleRunRecorder) GetFilename() string {
	if strings.HasSuffix(r.filename, ".zip") {
		return r.filename
	}

	return r.filename + ".zip"
}

func (r *SingleRunRecorder) RecordMetadata(runId string, metadata RecordMetadata) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.recordMetadata = &metadata

	utils.Debug("SingleRunRecorder", "created RecordMetadata for run "+runId)

	return nil
}

func (r *SingleRunRecorder) Record(runId string, msg string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.buffer.WriteString(msg)
	r.buffer.WriteString("\n")

	return nil
}

func (r *SingleRunRecorder) Close(runId string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.recordMetadata == nil {
		return errors.New("missing RecordMetadata for run " + runId)
	}

	metadata, err := json.Marshal(*r.recordMetadata)
	if err != nil {
		return errors.Wrap(err, "could not serialize RecordMetadata")
	}

	files := []ArchiveFile{
		{Name: RecordMetadataFile, Body: string(metadata)},
		{Name: RecordFile, Body: r.buffer.String()},
	}

	if err := MakeArchive(r.GetFilename(), files); err != nil {
		return errors.Wrap(err, "could not create record archive")
	}

	utils.Debug("SingleRunRecorder", "wrote record archive "+r.GetFilename())

	return nil
}
