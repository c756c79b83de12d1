package relocate

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/uhppoted/uhppoted-app-formfiles/config"
	"github.com/uhppoted/uhppoted-app-formfiles/credentials"
	"github.com/uhppoted/uhppoted-app-formfiles/errors"
	"github.com/uhppoted/uhppoted-app-formfiles/form"
)

const DEFAULT_CONTENT_TYPE = "application/octet-stream"

// Handler moves the files uploaded with a form submission from Google Drive to
// the configured storage bucket and replaces the file references in the form
// response spreadsheet with the new object URLs.
type Handler struct {
	properties  config.PropertyStore
	credentials *credentials.Provider
	connector   Connector
	metrics     *Metrics
	debug       bool

	sync.Mutex
	services *Services
}

// Relocated is the outcome of relocating a single file.
type Relocated struct {
	FileID string
	Object string
	URL    string
	Row    int
}

func NewHandler(properties config.PropertyStore, connector Connector, debug bool) *Handler {
	return &Handler{
		properties:  properties,
		credentials: credentials.NewProvider(properties),
		connector:   connector,
		metrics:     NewMetrics(),
		debug:       debug,
	}
}

func (h *Handler) Metrics() *Metrics {
	return h.metrics
}

func (h *Handler) Credentials() *credentials.Provider {
	return h.credentials
}

// OnFormSubmit handles a form submission event. Errors are logged and counted
// but never returned, and a panic in the flow is recovered. Returns true if all
// the uploaded files were relocated.
func (h *Handler) OnFormSubmit(ctx context.Context, event form.Event) (ok bool) {
	id := uuid.New()

	defer func() {
		if r := recover(); r != nil {
			h.warnf(id, "Failed   %v", r)
			h.metrics.Invocations.WithLabelValues("failed").Inc()
			h.metrics.Failures.WithLabelValues("panic").Inc()
			ok = false
		}
	}()

	h.infof(id, "Start    response:%v  submitted:%v", event.ResponseID, event.Timestamp.Format(time.RFC3339))

	relocated, err := h.handle(ctx, id, event)
	if err != nil {
		kind := errors.Kind(err)

		h.warnf(id, "Failed   %v  (%v)", kind, err)
		h.metrics.Invocations.WithLabelValues("failed").Inc()
		h.metrics.Failures.WithLabelValues(kind).Inc()

		return false
	}

	h.infof(id, "Done     relocated %v file(s)", len(relocated))
	h.metrics.Invocations.WithLabelValues("ok").Inc()

	return true
}

// Handle runs the relocation flow for a form submission and returns the
// relocated files and the first error encountered. Files relocated before a
// failure remain relocated.
func (h *Handler) Handle(ctx context.Context, event form.Event) ([]Relocated, error) {
	return h.handle(ctx, uuid.New(), event)
}

func (h *Handler) handle(ctx context.Context, id uuid.UUID, event form.Event) ([]Relocated, error) {
	files := form.FileReferences(event)
	if len(files) == 0 {
		return nil, errors.NewEmptyInputError(fmt.Sprintf("response %v has no uploaded files", event.ResponseID), nil)
	}

	h.debugf(id, "ExtractFiles  %v", files)

	settings, err := NewSettings(h.properties)
	if err != nil {
		return nil, err
	}

	if _, err := h.credentials.Account(); err != nil {
		return nil, err
	}

	h.debugf(id, "ValidateConfig  destination:%v  spreadsheet:%v  range:%v", settings.Destination, settings.Spreadsheet, settings.Range)

	if _, err := h.credentials.Token(ctx); err != nil {
		return nil, err
	}

	h.debugf(id, "AcquireToken  ok")

	services, err := h.connect(ctx, settings)
	if err != nil {
		return nil, err
	}

	relocated := []Relocated{}
	for _, fileID := range files {
		r, err := h.relocate(ctx, id, services, settings, event.Timestamp, fileID)
		if err != nil {
			h.metrics.Files.WithLabelValues("failed").Inc()
			return relocated, err
		}

		h.metrics.Files.WithLabelValues("relocated").Inc()
		h.infof(id, "Relocated  %v -> %v  (row %v)", r.FileID, r.URL, r.Row)

		relocated = append(relocated, *r)
	}

	return relocated, nil
}

func (h *Handler) relocate(ctx context.Context, id uuid.UUID, services *Services, settings Settings, timestamp time.Time, fileID string) (*Relocated, error) {
	file, err := services.Files.Fetch(ctx, fileID)
	if err != nil {
		return nil, err
	}

	h.debugf(id, "FetchBytes  %v  %v  %v bytes", fileID, file.Name, len(file.Content))

	contentType := file.MimeType
	if contentType == "" {
		contentType = DEFAULT_CONTENT_TYPE
	}

	object := settings.Destination.Object(file.Name)
	result, err := services.Objects.Upload(ctx, object, file.Content, contentType)
	if err != nil {
		return nil, err
	}

	h.debugf(id, "Upload  %v  %v", result.Name, result.URL)

	row, err := services.Log.Find(ctx, timestamp)
	if err != nil {
		return nil, err
	}

	h.debugf(id, "LocateRow  %v", row.Number)

	if err := services.Log.Replace(ctx, row, fileID, result.URL); err != nil {
		return nil, err
	}

	h.debugf(id, "WriteBack  row %v", row.Number)

	if err := services.Files.Discard(ctx, fileID); err != nil {
		return nil, err
	}

	h.debugf(id, "Discard  %v", fileID)

	return &Relocated{
		FileID: fileID,
		Object: result.Name,
		URL:    result.URL,
		Row:    row.Number,
	}, nil
}

func (h *Handler) connect(ctx context.Context, settings Settings) (*Services, error) {
	h.Lock()
	defer h.Unlock()

	if h.services != nil {
		return h.services, nil
	}

	tokens, err := h.credentials.TokenSource(ctx)
	if err != nil {
		return nil, err
	}

	services, err := h.connector.Connect(ctx, settings, tokens)
	if err != nil {
		return nil, err
	}

	h.services = services

	return h.services, nil
}

func (h *Handler) debugf(id uuid.UUID, format string, args ...any) {
	if h.debug {
		log.Printf("%-5s %v  %s", "DEBUG", id, fmt.Sprintf(format, args...))
	}
}

func (h *Handler) infof(id uuid.UUID, format string, args ...any) {
	log.Printf("%-5s %v  %s", "INFO", id, fmt.Sprintf(format, args...))
}

func (h *Handler) warnf(id uuid.UUID, format string, args ...any) {
	log.Printf("%-5s %v  %s", "WARN", id, fmt.Sprintf(format, args...))
}
