package commands

import (
	"strings"
	"testing"
	"time"

	"github.com/uhppoted/uhppoted-app-formfiles/objectstore"
)

func TestObjectsToTSV(t *testing.T) {
	expected := `Name	Size	Content Type	Updated	URL
form-files/a.jpg	4	image/jpeg	2024-03-16T02:41:27Z	https://storage.googleapis.com/download/storage/v1/b/employee-shared/o/form-files%2Fa.jpg?alt=media
form-files/b c.pdf	3	application/pdf		
`

	var f strings.Builder
	var objects = map[string]objectstore.ObjectInfo{
		"form-files/b\tc.pdf": {
			Name:        "form-files/b\tc.pdf",
			Size:        3,
			ContentType: "application/pdf",
		},
		"form-files/a.jpg": {
			Name:        "form-files/a.jpg",
			Size:        4,
			ContentType: "image/jpeg",
			MediaLink:   "https://storage.googleapis.com/download/storage/v1/b/employee-shared/o/form-files%2Fa.jpg?alt=media",
			Updated:     time.Date(2024, time.March, 15, 22, 41, 27, 0, time.FixedZone("EDT", -4*3600)),
		},
	}

	if err := objectsToTSV(&f, objects); err != nil {
		t.Fatalf("Unexpected error returned from objectsToTSV (%v)", err)
	}

	if f.String() != expected {
		t.Errorf("Incorrect TSV\n   expected: %s\n   got:      %s\n", expected, f.String())
	}
}

func TestObjectsToTSVWithoutObjects(t *testing.T) {
	expected := "Name\tSize\tContent Type\tUpdated\tURL\n"

	var f strings.Builder

	if err := objectsToTSV(&f, map[string]objectstore.ObjectInfo{}); err != nil {
		t.Fatalf("Unexpected error returned from objectsToTSV (%v)", err)
	}

	if f.String() != expected {
		t.Errorf("Incorrect TSV\n   expected: %q\n   got:      %q\n", expected, f.String())
	}
}
