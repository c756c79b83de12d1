package form

import (
	"fmt"
	"time"

	"google.golang.org/api/forms/v1"
)

// FromFormResponse converts a Google Forms API response into a submission
// event. The event timestamp is the response's last submitted time, which is
// also the timestamp recorded in the linked response spreadsheet.
func FromFormResponse(f *forms.Form, response *forms.FormResponse) (Event, error) {
	timestamp, err := submitted(response)
	if err != nil {
		return Event{}, err
	}

	event := Event{
		ResponseID: response.ResponseId,
		Timestamp:  timestamp,
		Responses:  []ItemResponse{},
	}

	for _, item := range f.Items {
		questions := []*forms.Question{}

		if item.QuestionItem != nil && item.QuestionItem.Question != nil {
			questions = append(questions, item.QuestionItem.Question)
		}

		if item.QuestionGroupItem != nil {
			questions = append(questions, item.QuestionGroupItem.Questions...)
		}

		for _, q := range questions {
			answer, ok := response.Answers[q.QuestionId]
			if !ok {
				continue
			}

			value := Value{}
			if answer.FileUploadAnswers != nil {
				for _, v := range answer.FileUploadAnswers.Answers {
					value = append(value, v.FileId)
				}
			}

			if answer.TextAnswers != nil {
				for _, v := range answer.TextAnswers.Answers {
					value = append(value, v.Value)
				}
			}

			event.Responses = append(event.Responses, ItemResponse{
				Title:    item.Title,
				Type:     itemType(item, q),
				Response: value,
			})
		}
	}

	return event, nil
}

func submitted(response *forms.FormResponse) (time.Time, error) {
	for _, s := range []string{response.LastSubmittedTime, response.CreateTime} {
		if s != "" {
			if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
				return t, nil
			}
		}
	}

	return time.Time{}, fmt.Errorf("form response %v has no valid submission time", response.ResponseId)
}

func itemType(item *forms.Item, q *forms.Question) ItemType {
	if item.QuestionGroupItem != nil && item.QuestionGroupItem.Grid != nil && item.QuestionGroupItem.Grid.Columns != nil {
		if item.QuestionGroupItem.Grid.Columns.Type == "CHECKBOX" {
			return CheckboxGrid
		}

		return Grid
	}

	switch {
	case q.FileUploadQuestion != nil:
		return FileUpload

	case q.ChoiceQuestion != nil:
		switch q.ChoiceQuestion.Type {
		case "CHECKBOX":
			return Checkbox
		case "DROP_DOWN":
			return List
		default:
			return MultipleChoice
		}

	case q.ScaleQuestion != nil:
		return Scale

	case q.DateQuestion != nil:
		return Date

	case q.TimeQuestion != nil:
		return Time

	case q.TextQuestion != nil && q.TextQuestion.Paragraph:
		return ParagraphText

	default:
		return Text
	}
}
