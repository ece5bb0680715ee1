// Package replay reads back the archives written by recording.SingleRunRecorder.
package replay

import (
	"bufio"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bytearena/geoswarm/common/recording"
	"github.com/bytearena/geoswarm/common/utils"
	"github.com/pkg/errors"
)

// Snapshots of large swarms do not fit in the default scanner buffer.
const maxFrameSize = 64 * 1024 * 1024

type ReplayMessage struct {
	Line  string
	RunId string
}

type Replayer struct {
	filename string
	metadata recording.RecordMetadata
	frames   []string
}

func NewReplayer(filename string) (*Replayer, error) {
	files, err := recording.ReadArchive(filename)
	if err != nil {
		return nil, err
	}

	body, ok := files[recording.RecordMetadataFile]
	if !ok {
		return nil, errors.New(filename + " has no " + recording.RecordMetadataFile)
	}

	var metadata recording.RecordMetadata
	if err := json.Unmarshal([]byte(body), &metadata); err != nil {
		return nil, errors.Wrap(err, "could not decode "+recording.RecordMetadataFile)
	}

	frames, err := splitFrames(files[recording.RecordFile])
	if err != nil {
		return nil, errors.Wrap(err, "could not read "+recording.RecordFile)
	}

	utils.Debug("replay", "loaded "+filename)

	return &Replayer{
		filename: filename,
		metadata: metadata,
		frames:   frames,
	}, nil
}

func splitFrames(record string) ([]string, error) {
	scanner := bufio.NewScanner(strings.NewReader(record))
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)

	var frames []string
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			frames = append(frames, line)
		}
	}

	return frames, scanner.Err()
}

func (r *Replayer) GetMetadata() recording.RecordMetadata {
	return r.metadata
}

func (r *Replayer) GetNbFrames() int {
	return len(r.frames)
}

// Read streams the frames in recorded order, one per period (0 does not
// wait), until the record ends or ctx is done. The channel is then closed.
func (r *Replayer) Read(ctx context.Context, period time.Duration) <-chan ReplayMessage {
	ch := make(chan ReplayMessage)

	go func() {
		defer close(ch)

		for i, frame := range r.frames {
			if ctx.Err() != nil {
				return
			}

			if i > 0 && period > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(period):
				}
			}

			select {
			case <-ctx.Done():
				return
			case ch <- ReplayMessage{Line: frame, RunId: r.metadata.RunId}:
			}
		}

		utils.Debug("replay", "end of "+r.filename)
	}()

	return ch
}
