package recording

import (
	"archive/zip"
	"io"
	"os"

	"github.com/pkg/errors"
)

type ArchiveFile struct {
	Name string
	Body string
}

func MakeArchive(filename string, files []ArchiveFile) error {
	out, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "could not create "+filename)
	}
	defer out.Close()

	archive := zip.NewWriter(out)

	for _, file := range files {
		w, err := archive.Create(file.Name)
		if err != nil {
			return errors.Wrap(err, "could not add "+file.Name+" to "+filename)
		}

		if _, err := w.Write([]byte(file.Body)); err != nil {
			return errors.Wrap(err, "could not write "+file.Name+" to "+filename)
		}
	}

	if err := archive.Close(); err != nil {
		return errors.Wrap(err, "could not finalize "+filename)
	}

	return out.Sync()
}

// ReadArchive returns the body of every file in the archive, by name.
func ReadArchive(filename string) (map[string]string, error) {
	reader, err := zip.OpenReader(filename)
	if err != nil {
		return nil, errors.Wrap(err, "could not open "+filename)
	}
	defer reader.Close()

	res := make(map[string]string, len(reader.File))
	for _, file := range reader.File {
		rc, err := file.Open()
		if err != nil {
			return nil, errors.Wrap(err, "could not open "+file.Name+" in "+filename)
		}

		body := make([]byte, file.UncompressedSize64)
		_, err = io.ReadFull(rc, body)
		rc.Close()

		if err != nil {
			return nil, errors.Wrap(err, "could not read "+file.Name+" in "+filename)
		}

		res[file.Name] = string(body)
	}

	return res, nil
}
