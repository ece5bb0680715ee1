package recording

import (
	"time"
)

// Names of the files in a record archive.
const (
	RecordMetadataFile = "RecordMetadata"
	RecordFile         = "Record"
)

type Recorder interface {
	RecordMetadata(runId string, metadata RecordMetadata) error
	Record(runId string, msg string) error
	Close(runId string) error
}

// RecordMetadata describes the recorded run; it is stored next to the
// frames in the archive.
type RecordMetadata struct {
	RunId    string  `json:"runid"`
	Date     string  `json:"date"`
	Range    float64 `json:"range"`
	NbAgents int     `json:"nbagents"`
	Program  string  `json:"program"`
}

func MakeRecordMetadata(runId string, commRange float64, nbagents int, program string) RecordMetadata {
	return RecordMetadata{
		RunId:    runId,
		Date:     time.Now().Format(time.RFC3339),
		Range:    commRange,
		NbAgents: nbagents,
		Program:  program,
	}
}
