package commands

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"
	"time"

	"github.com/uhppoted/uhppoted-app-formfiles/objectstore"
)

func objectsToTSV(f io.Writer, objects map[string]objectstore.ObjectInfo) error {
	names := []string{}
	for k := range objects {
		names = append(names, k)
	}

	sort.Strings(names)

	header := []string{"Name", "Size", "Content Type", "Updated", "URL"}
	records := [][]string{}

	for _, name := range names {
		object := objects[name]
		updated := ""
		if !object.Updated.IsZero() {
			updated = object.Updated.UTC().Format(time.RFC3339)
		}

		records = append(records, []string{
			clean(object.Name),
			fmt.Sprintf("%v", object.Size),
			clean(object.ContentType),
			updated,
			object.MediaLink,
		})
	}

	w := csv.NewWriter(f)
	w.Comma = '\t'

	w.Write(header)
	for _, record := range records {
		w.Write(record)
	}

	w.Flush()

	return w.Error()
}

func clean(v string) string {
	return regexp.MustCompile(`[\t\r\n]+`).ReplaceAllString(v, " ")
}
