package objectstore

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"

	ff "github.com/uhppoted/uhppoted-app-formfiles/errors"
)

type fakeBucket struct {
	objects []*storage.ObjectAttrs
	writes  map[string]*fakeWriter
	fail    error
	query   *storage.Query
}

func (b *fakeBucket) Objects(_ context.Context, q *storage.Query) objectIterator {
	b.query = q
	return &fakeIterator{objects: b.objects}
}

func (b *fakeBucket) Object(name string) objectHandle {
	return &fakeObject{bucket: b, name: name}
}

type fakeIterator struct {
	objects []*storage.ObjectAttrs
}

func (it *fakeIterator) Next() (*storage.ObjectAttrs, error) {
	if len(it.objects) == 0 {
		return nil, iterator.Done
	}

	attrs := it.objects[0]
	it.objects = it.objects[1:]

	return attrs, nil
}

type fakeObject struct {
	bucket *fakeBucket
	name   string
}

func (o *fakeObject) NewWriter(_ context.Context, contentType string) objectWriter {
	w := &fakeWriter{
		name:        o.name,
		contentType: contentType,
		fail:        o.bucket.fail,
	}

	if o.bucket.writes == nil {
		o.bucket.writes = map[string]*fakeWriter{}
	}

	o.bucket.writes[o.name] = w

	return w
}

type fakeWriter struct {
	name        string
	contentType string
	content     bytes.Buffer
	fail        error
	closed      bool
}

func (w *fakeWriter) Write(p []byte) (int, error) {
	return w.content.Write(p)
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return w.fail
}

func (w *fakeWriter) Attrs() *storage.ObjectAttrs {
	if w.fail != nil {
		return nil
	}

	return &storage.ObjectAttrs{
		Bucket:      "employee-shared",
		Name:        w.name,
		ContentType: w.contentType,
		Size:        int64(w.content.Len()),
		Generation:  1710556887802846,
		MediaLink:   "https://storage.googleapis.com/download/storage/v1/b/employee-shared/o/" + w.name + "?alt=media",
	}
}

func TestParsePath(t *testing.T) {
	tests := map[string]Path{
		"employee-shared/form-files":      {Bucket: "employee-shared", Folder: "form-files"},
		" employee-shared/form-files/ ":   {Bucket: "employee-shared", Folder: "form-files"},
		"employee-shared/form-files/2024": {Bucket: "employee-shared", Folder: "form-files/2024"},
	}

	for s, expected := range tests {
		path, err := ParsePath(s)
		require.NoError(t, err, s)
		assert.Equal(t, expected, path, s)
	}
}

func TestParsePathWithMalformedPath(t *testing.T) {
	for _, s := range []string{"", "employee-shared", "/form-files", "employee-shared/", "  /  ", "employee-shared//"} {
		_, err := ParsePath(s)
		require.Error(t, err, s)
		assert.True(t, errors.Is(err, ff.ErrConfiguration), "expected configuration error for %q, got %v", s, err)
	}
}

func TestPathObject(t *testing.T) {
	path := Path{Bucket: "employee-shared", Folder: "form-files"}

	assert.Equal(t, "form-files/20240315_183943 - Saray.heic", path.Object("20240315_183943 - Saray.heic"))
	assert.Equal(t, "employee-shared/form-files", path.String())
}

func TestUpload(t *testing.T) {
	bucket := &fakeBucket{}
	client := &Client{bucket: "employee-shared", handle: bucket}

	result, err := client.Upload(context.Background(), "form-files/photo.jpg", []byte("JPEG"), "image/jpeg")
	require.NoError(t, err)

	w := bucket.writes["form-files/photo.jpg"]
	require.NotNil(t, w)
	assert.True(t, w.closed)
	assert.Equal(t, "JPEG", w.content.String())
	assert.Equal(t, "image/jpeg", w.contentType)

	assert.Equal(t, "form-files/photo.jpg", result.Name)
	assert.Equal(t, "employee-shared", result.Bucket)
	assert.Equal(t, int64(4), result.Size)
	assert.Equal(t, "employee-shared/form-files/photo.jpg/1710556887802846", result.ID)
	assert.Equal(t, "https://storage.googleapis.com/download/storage/v1/b/employee-shared/o/form-files/photo.jpg?alt=media", result.URL)
}

func TestUploadWithHTTPError(t *testing.T) {
	bucket := &fakeBucket{fail: &googleapi.Error{Code: 500, Message: "backend error"}}
	client := &Client{bucket: "employee-shared", handle: bucket}

	_, err := client.Upload(context.Background(), "form-files/photo.jpg", []byte("JPEG"), "image/jpeg")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ff.ErrUpload), "expected upload error, got %v", err)

	var apiErr *googleapi.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 500, apiErr.Code)
}

func TestUploadResultURLFallback(t *testing.T) {
	result := newUploadResult("employee-shared", &storage.ObjectAttrs{
		Name:    "form-files/20240315 - Saray.heic",
		Created: time.Date(2024, time.March, 16, 2, 41, 27, 0, time.UTC),
	})

	assert.Equal(t, "https://storage.googleapis.com/employee-shared/form-files/20240315%20-%20Saray.heic", result.URL)
	assert.Equal(t, "employee-shared", result.Bucket)
}

func TestList(t *testing.T) {
	bucket := &fakeBucket{
		objects: []*storage.ObjectAttrs{
			{Name: "form-files/a.jpg", Size: 10, ContentType: "image/jpeg"},
			{Name: "form-files/b.pdf", Size: 20, ContentType: "application/pdf"},
		},
	}

	client := &Client{bucket: "employee-shared", handle: bucket}

	objects, err := client.List(context.Background(), "form-files")
	require.NoError(t, err)

	assert.Equal(t, "employee-shared", client.Bucket())
	assert.Equal(t, "form-files", bucket.query.Prefix)
	assert.Len(t, objects, 2)
	assert.Equal(t, int64(20), objects["form-files/b.pdf"].Size)
	assert.Equal(t, "image/jpeg", objects["form-files/a.jpg"].ContentType)
}
