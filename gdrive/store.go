package gdrive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/api/drive/v3"

	"github.com/uhppoted/uhppoted-app-formfiles/errors"
)

const mimeTypePrefixGoogleApp = "application/vnd.google-apps."

// File is a file uploaded to Google Drive through a form.
type File struct {
	ID       string
	Name     string
	MimeType string
	Content  []byte
}

// Store fetches uploaded files from Google Drive and discards them once they
// have been relocated.
type Store struct {
	service *drive.Service
}

func New(service *drive.Service) *Store {
	return &Store{service: service}
}

// Fetch retrieves the file metadata and content.
func (s *Store) Fetch(ctx context.Context, fileID string) (file *File, err error) {
	f, err := s.service.Files.Get(fileID).
		SupportsAllDrives(true).
		Fields("id", "name", "mimeType").
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.NewFileStoreError(fmt.Sprintf("failed to get file %v", fileID), err)
	}

	if strings.HasPrefix(f.MimeType, mimeTypePrefixGoogleApp) {
		return nil, errors.NewFileStoreError(fmt.Sprintf("cannot download google-apps file %v (%v)", fileID, f.MimeType), nil)
	}

	rsp, err := s.service.Files.Get(fileID).
		SupportsAllDrives(true).
		Context(ctx).
		Download()
	if err != nil {
		return nil, errors.NewFileStoreError(fmt.Sprintf("failed to download file %v", fileID), err)
	}

	defer rsp.Body.Close()

	content, err := io.ReadAll(rsp.Body)
	if err != nil {
		return nil, errors.NewFileStoreError(fmt.Sprintf("failed to read file %v", fileID), err)
	}

	return &File{
		ID:       f.Id,
		Name:     f.Name,
		MimeType: f.MimeType,
		Content:  content,
	}, nil
}

// Discard moves the file to the Drive trash.
func (s *Store) Discard(ctx context.Context, fileID string) error {
	_, err := s.service.Files.Update(fileID, &drive.File{Trashed: true}).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return errors.NewFileStoreError(fmt.Sprintf("failed to move file %v to trash", fileID), err)
	}

	return nil
}
