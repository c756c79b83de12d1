package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/uhppoted/uhppoted-app-formfiles/errors"
)

// bucketHandle abstracts a GCS bucket handle so that tests can inject fakes.
type bucketHandle interface {
	Objects(ctx context.Context, q *storage.Query) objectIterator
	Object(name string) objectHandle
}

type objectIterator interface {
	Next() (*storage.ObjectAttrs, error)
}

type objectHandle interface {
	NewWriter(ctx context.Context, contentType string) objectWriter
}

type objectWriter interface {
	io.WriteCloser
	Attrs() *storage.ObjectAttrs
}

type realBucketHandle struct{ bh *storage.BucketHandle }

func (r *realBucketHandle) Objects(ctx context.Context, q *storage.Query) objectIterator {
	return r.bh.Objects(ctx, q)
}

func (r *realBucketHandle) Object(name string) objectHandle {
	return &realObjectHandle{r.bh.Object(name)}
}

type realObjectHandle struct{ oh *storage.ObjectHandle }

// NewWriter returns a writer that sends the object in a single request.
func (r *realObjectHandle) NewWriter(ctx context.Context, contentType string) objectWriter {
	w := r.oh.NewWriter(ctx)
	w.ContentType = contentType
	w.ChunkSize = 0

	return w
}

// ObjectInfo is the listing metadata for a stored object.
type ObjectInfo struct {
	Name        string
	Size        int64
	ContentType string
	MediaLink   string
	Updated     time.Time
}

// UploadResult is the object store's descriptor for a newly created object.
type UploadResult struct {
	ID          string
	Name        string
	Bucket      string
	Generation  int64
	ContentType string
	Size        int64
	MD5         []byte
	MediaLink   string
	URL         string
	Created     time.Time
}

// Client uploads to and lists a single Google Cloud Storage bucket.
type Client struct {
	bucket string
	client *storage.Client
	handle bucketHandle
}

// NewClient creates a GCS client for the bucket. The options normally carry the
// token source from the credential provider.
func NewClient(ctx context.Context, bucket string, opts ...option.ClientOption) (*Client, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.NewConfigurationError("failed to create GCS client", err)
	}

	return &Client{
		bucket: bucket,
		client: client,
		handle: &realBucketHandle{client.Bucket(bucket)},
	}, nil
}

func (c *Client) Bucket() string {
	return c.bucket
}

// List returns the metadata of the objects whose names start with prefix, keyed
// by object name.
func (c *Client) List(ctx context.Context, prefix string) (map[string]ObjectInfo, error) {
	objects := map[string]ObjectInfo{}

	it := c.handle.Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to list objects with prefix %q (%w)", prefix, err)
		}

		objects[attrs.Name] = ObjectInfo{
			Name:        attrs.Name,
			Size:        attrs.Size,
			ContentType: attrs.ContentType,
			MediaLink:   attrs.MediaLink,
			Updated:     attrs.Updated,
		}
	}

	return objects, nil
}

// Upload writes content to the named object. There is no retry: any failure
// reported by the object store is returned as an upload error.
func (c *Client) Upload(ctx context.Context, name string, content []byte, contentType string) (*UploadResult, error) {
	w := c.handle.Object(name).NewWriter(ctx, contentType)

	if _, err := w.Write(content); err != nil {
		w.Close()
		return nil, errors.NewUploadError(fmt.Sprintf("failed to write object %q", name), err)
	}

	if err := w.Close(); err != nil {
		return nil, errors.NewUploadError(fmt.Sprintf("failed to upload object %q", name), err)
	}

	attrs := w.Attrs()
	if attrs == nil {
		return nil, errors.NewUploadError(fmt.Sprintf("no object descriptor returned for %q", name), nil)
	}

	return newUploadResult(c.bucket, attrs), nil
}

func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}

	return nil
}

func newUploadResult(bucket string, attrs *storage.ObjectAttrs) *UploadResult {
	if attrs.Bucket != "" {
		bucket = attrs.Bucket
	}

	result := UploadResult{
		ID:          fmt.Sprintf("%v/%v/%v", bucket, attrs.Name, attrs.Generation),
		Name:        attrs.Name,
		Bucket:      bucket,
		Generation:  attrs.Generation,
		ContentType: attrs.ContentType,
		Size:        attrs.Size,
		MD5:         attrs.MD5,
		MediaLink:   attrs.MediaLink,
		URL:         attrs.MediaLink,
		Created:     attrs.Created,
	}

	if result.URL == "" {
		u := url.URL{
			Scheme: "https",
			Host:   "storage.googleapis.com",
			Path:   "/" + bucket + "/" + attrs.Name,
		}

		result.URL = u.String()
	}

	return &result
}
