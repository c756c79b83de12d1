package relocate

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/uhppoted/uhppoted-app-formfiles/config"
	"github.com/uhppoted/uhppoted-app-formfiles/errors"
	"github.com/uhppoted/uhppoted-app-formfiles/gdrive"
	"github.com/uhppoted/uhppoted-app-formfiles/objectstore"
	"github.com/uhppoted/uhppoted-app-formfiles/sheet"
)

const DEFAULT_RANGE = "Form Responses 1"

type FileStore interface {
	Fetch(ctx context.Context, fileID string) (*gdrive.File, error)
	Discard(ctx context.Context, fileID string) error
}

type ObjectStore interface {
	Upload(ctx context.Context, name string, content []byte, contentType string) (*objectstore.UploadResult, error)
}

type ResponseLog interface {
	Find(ctx context.Context, timestamp time.Time) (*sheet.Row, error)
	Replace(ctx context.Context, row *sheet.Row, fileID string, url string) error
}

// Services are the external collaborators used to relocate a file.
type Services struct {
	Files   FileStore
	Objects ObjectStore
	Log     ResponseLog
}

// Connector creates the collaborators once the configuration has been
// validated and a token source is available.
type Connector interface {
	Connect(ctx context.Context, settings Settings, tokens oauth2.TokenSource) (*Services, error)
}

// Settings is the validated relocation configuration.
type Settings struct {
	Destination objectstore.Path
	Spreadsheet string
	Range       string
}

// NewSettings validates the relocation properties. It makes no network calls.
func NewSettings(properties config.PropertyStore) (Settings, error) {
	path, ok := properties.Property(config.FormFilesPath)
	if !ok {
		return Settings{}, errors.NewConfigurationError(fmt.Sprintf("missing '%v' property", config.FormFilesPath), nil)
	}

	destination, err := objectstore.ParsePath(path)
	if err != nil {
		return Settings{}, err
	}

	url, ok := properties.Property(config.Spreadsheet)
	if !ok {
		return Settings{}, errors.NewConfigurationError(fmt.Sprintf("missing '%v' property", config.Spreadsheet), nil)
	}

	spreadsheet, err := sheet.ParseSpreadsheetID(url)
	if err != nil {
		return Settings{}, err
	}

	area := DEFAULT_RANGE
	if v, ok := properties.Property(config.Range); ok {
		area = v
	}

	return Settings{
		Destination: destination,
		Spreadsheet: spreadsheet,
		Range:       area,
	}, nil
}

// Google connects to Google Drive, Google Sheets and Google Cloud Storage. The
// options are appended to the token source option when creating each client.
type Google struct {
	Options []option.ClientOption
}

func (g Google) Connect(ctx context.Context, settings Settings, tokens oauth2.TokenSource) (*Services, error) {
	options := append([]option.ClientOption{option.WithTokenSource(tokens)}, g.Options...)

	driveService, err := drive.NewService(ctx, options...)
	if err != nil {
		return nil, errors.NewFileStoreError("unable to create new Drive client", err)
	}

	sheetsService, err := sheets.NewService(ctx, options...)
	if err != nil {
		return nil, errors.NewResponseLogError("unable to create new Sheets client", err)
	}

	objects, err := objectstore.NewClient(ctx, settings.Destination.Bucket, options...)
	if err != nil {
		return nil, err
	}

	log, err := sheet.Open(ctx, sheetsService, settings.Spreadsheet, settings.Range)
	if err != nil {
		objects.Close()
		return nil, err
	}

	return &Services{
		Files:   gdrive.New(driveService),
		Objects: objects,
		Log:     log,
	}, nil
}
