package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatermark(t *testing.T) {
	workdir := filepath.Join(t.TempDir(), "formfiles")
	mark := newWatermark(workdir, "F1")

	since, err := mark.load()
	if err != nil {
		t.Fatalf("unexpected error loading missing watermark (%v)", err)
	} else if !since.IsZero() {
		t.Errorf("incorrect initial watermark - expected:%v, got:%v", time.Time{}, since)
	}

	expected := time.Date(2024, time.March, 16, 2, 41, 27, 123000000, time.UTC)
	if err := mark.store(expected); err != nil {
		t.Fatalf("unexpected error storing watermark (%v)", err)
	}

	if _, err := os.Stat(filepath.Join(workdir, "F1.last")); err != nil {
		t.Errorf("expected watermark file %v (%v)", filepath.Join(workdir, "F1.last"), err)
	}

	if got, err := mark.load(); err != nil {
		t.Fatalf("unexpected error loading watermark (%v)", err)
	} else if !got.Equal(expected) {
		t.Errorf("incorrect watermark - expected:%v, got:%v", expected, got)
	}
}

func TestWatermarkWithInvalidFile(t *testing.T) {
	workdir := t.TempDir()
	if err := os.WriteFile(filepath.Join(workdir, "F1.last"), []byte("yesterday\n"), 0660); err != nil {
		t.Fatalf("%v", err)
	}

	if _, err := newWatermark(workdir, "F1").load(); err == nil {
		t.Errorf("expected error loading invalid watermark file")
	}
}
