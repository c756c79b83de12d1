package objectstore

import (
	"fmt"
	"strings"

	"github.com/uhppoted/uhppoted-app-formfiles/errors"
)

// Path is the upload destination, configured as '<bucket>/<folder>'.
type Path struct {
	Bucket string
	Folder string
}

// ParsePath splits a '<bucket>/<folder>' destination at the first '/'. The
// folder may itself contain '/' separators but neither part may be blank.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)

	bucket, folder, ok := strings.Cut(s, "/")
	if !ok {
		return Path{}, errors.NewConfigurationError(fmt.Sprintf("invalid upload path '%v' - expected <bucket>/<folder>", s), nil)
	}

	bucket = strings.TrimSpace(bucket)
	folder = strings.Trim(strings.TrimSpace(folder), "/")

	if bucket == "" {
		return Path{}, errors.NewConfigurationError(fmt.Sprintf("invalid upload path '%v' - missing bucket", s), nil)
	}

	if folder == "" {
		return Path{}, errors.NewConfigurationError(fmt.Sprintf("invalid upload path '%v' - missing folder", s), nil)
	}

	return Path{Bucket: bucket, Folder: folder}, nil
}

// Object returns the object name for a file uploaded to the folder.
func (p Path) Object(filename string) string {
	return p.Folder + "/" + filename
}

func (p Path) String() string {
	return p.Bucket + "/" + p.Folder
}
