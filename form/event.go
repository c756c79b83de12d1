package form

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

type ItemType string

const (
	Checkbox       ItemType = "CHECKBOX"
	CheckboxGrid   ItemType = "CHECKBOX_GRID"
	Date           ItemType = "DATE"
	FileUpload     ItemType = "FILE_UPLOAD"
	Grid           ItemType = "GRID"
	List           ItemType = "LIST"
	MultipleChoice ItemType = "MULTIPLE_CHOICE"
	ParagraphText  ItemType = "PARAGRAPH_TEXT"
	Scale          ItemType = "SCALE"
	Text           ItemType = "TEXT"
	Time           ItemType = "TIME"
)

// Event is a single form submission: the submission timestamp and the
// responses to the form items, in form order.
type Event struct {
	ResponseID string         `json:"responseId,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
	Responses  []ItemResponse `json:"responses"`
}

type ItemResponse struct {
	Title    string   `json:"title,omitempty"`
	Type     ItemType `json:"type"`
	Response Value    `json:"response"`
}

// Value is an item response. File upload items have one value per uploaded
// file, most other items have a single value.
type Value []string

// ReadEvent decodes a JSON form submission event e.g.
//
//	{
//	  "timestamp": "2024-03-16T02:41:27Z",
//	  "responses": [
//	    { "title": "Name", "type": "TEXT", "response": "Saray" },
//	    { "title": "Photo", "type": "FILE_UPLOAD", "response": ["1hTtDJ9kq..."] }
//	  ]
//	}
func ReadEvent(r io.Reader) (Event, error) {
	var event Event

	if err := json.NewDecoder(r).Decode(&event); err != nil {
		return Event{}, fmt.Errorf("invalid form submission event (%v)", err)
	}

	if event.Timestamp.IsZero() {
		return Event{}, fmt.Errorf("invalid form submission event (missing timestamp)")
	}

	return event, nil
}

// FileReferences returns the file IDs of all file upload responses, in item
// order. Items with several files are flattened and duplicates are retained.
func FileReferences(event Event) []string {
	files := []string{}

	for _, item := range event.Responses {
		if item.Type == FileUpload {
			for _, v := range item.Response {
				if id := strings.TrimSpace(v); id != "" {
					files = append(files, id)
				}
			}
		}
	}

	return files
}

func (v *Value) UnmarshalJSON(b []byte) error {
	if strings.TrimSpace(string(b)) == "null" {
		*v = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = Value{s}
		return nil
	}

	var list []any
	if err := json.Unmarshal(b, &list); err == nil {
		values := Value{}
		for _, item := range list {
			values = append(values, fmt.Sprintf("%v", item))
		}

		*v = values
		return nil
	}

	var other any
	if err := json.Unmarshal(b, &other); err != nil {
		return err
	} else if other == nil {
		*v = nil
	} else {
		*v = Value{fmt.Sprintf("%v", other)}
	}

	return nil
}

func (v Value) String() string {
	return strings.Join(v, ", ")
}
