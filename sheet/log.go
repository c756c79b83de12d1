package sheet

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/sheets/v4"

	"github.com/uhppoted/uhppoted-app-formfiles/errors"
)

// Row is a located response log row.
type Row struct {
	Sheet  string
	Number int
	Column int
	Values []any
}

// Cell returns the A1 address of the cell in column col of the row, relative
// to the first column of the fetched range.
func (r Row) Cell(col int) string {
	return fmt.Sprintf("%v!%v%v", r.Sheet, column(r.Column+col), r.Number)
}

// Log is the spreadsheet the form records its responses to.
type Log struct {
	service     *sheets.Service
	spreadsheet string
	area        string
	location    *time.Location
}

// Open binds the response log to a spreadsheet range and retrieves the
// spreadsheet time zone used to compare response timestamps.
func Open(ctx context.Context, service *sheets.Service, spreadsheet string, area string) (*Log, error) {
	rsp, err := service.Spreadsheets.Get(spreadsheet).Fields("properties.timeZone").Context(ctx).Do()
	if err != nil {
		return nil, errors.NewResponseLogError("failed to fetch spreadsheet", err)
	}

	location := time.UTC
	if rsp.Properties != nil && rsp.Properties.TimeZone != "" {
		if loc, err := time.LoadLocation(rsp.Properties.TimeZone); err != nil {
			return nil, errors.NewResponseLogError(fmt.Sprintf("unrecognised spreadsheet time zone '%v'", rsp.Properties.TimeZone), err)
		} else {
			location = loc
		}
	}

	return &Log{
		service:     service,
		spreadsheet: spreadsheet,
		area:        area,
		location:    location,
	}, nil
}

func (l *Log) Location() *time.Location {
	return l.location
}

// Find fetches the full response log range and returns the row recorded for
// the response timestamp.
func (l *Log) Find(ctx context.Context, timestamp time.Time) (*Row, error) {
	rsp, err := l.service.Spreadsheets.Values.Get(l.spreadsheet, l.area).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.NewResponseLogError("unable to retrieve data from response log", err)
	}

	sheet, col, row, err := origin(rsp.Range)
	if err != nil {
		return nil, errors.NewResponseLogError("unexpected response log range", err)
	}

	ix, err := Locate(rsp.Values, timestamp, l.location)
	if err != nil {
		return nil, err
	}

	return &Row{
		Sheet:  sheet,
		Number: row + ix,
		Column: col,
		Values: rsp.Values[ix],
	}, nil
}

// Replace overwrites the cell in the row that references the file with the
// object URL. Only the matching reference in a multi-file cell is replaced.
func (l *Log) Replace(ctx context.Context, row *Row, fileID string, url string) error {
	for i, v := range row.Values {
		s, ok := v.(string)
		if !ok || !strings.Contains(s, fileID) {
			continue
		}

		replaced := replace(s, fileID, url)
		values := sheets.ValueRange{
			Values: [][]any{{replaced}},
		}

		if _, err := l.service.Spreadsheets.Values.Update(l.spreadsheet, row.Cell(i), &values).
			ValueInputOption("RAW").
			Context(ctx).
			Do(); err != nil {
			return errors.NewResponseLogError(fmt.Sprintf("error writing %v to response log", row.Cell(i)), err)
		}

		row.Values[i] = replaced

		return nil
	}

	return errors.NewNotFoundError(fmt.Sprintf("no cell in response log row %v references file %v", row.Number, fileID), nil)
}

func replace(cell, fileID, url string) string {
	references := strings.Split(cell, ",")

	for i, ref := range references {
		if strings.Contains(ref, fileID) {
			references[i] = url
		} else {
			references[i] = strings.TrimSpace(ref)
		}
	}

	return strings.Join(references, ", ")
}
