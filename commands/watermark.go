package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// watermark is the submission time of the most recent form response handled by
// 'relocate', persisted as <workdir>/<form-id>.last.
type watermark struct {
	file string
}

func newWatermark(workdir, form string) watermark {
	return watermark{
		file: filepath.Join(workdir, form+".last"),
	}
}

func (w watermark) load() (time.Time, error) {
	bytes, err := os.ReadFile(w.file)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, nil
		}

		return time.Time{}, err
	}

	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(string(bytes)))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid watermark file %v (%v)", w.file, err)
	}

	return t, nil
}

func (w watermark) store(t time.Time) error {
	dir := filepath.Dir(w.file)
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".last")
	if err != nil {
		return err
	}

	defer os.Remove(tmp.Name())

	if _, err := fmt.Fprintln(tmp, t.UTC().Format(time.RFC3339Nano)); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), w.file)
}
