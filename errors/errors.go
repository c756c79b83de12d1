package errors

import (
	"errors"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrAuth          = errors.New("auth error")
	ErrNotFound      = errors.New("not found")
	ErrUpload        = errors.New("upload error")
	ErrEmptyInput    = errors.New("no files")
	ErrFileStore     = errors.New("file store error")
	ErrResponseLog   = errors.New("response log error")
)

var kinds = []struct {
	err  error
	kind string
}{
	{ErrConfiguration, "configuration"},
	{ErrAuth, "auth"},
	{ErrNotFound, "not-found"},
	{ErrUpload, "upload"},
	{ErrEmptyInput, "empty-input"},
	{ErrFileStore, "file-store"},
	{ErrResponseLog, "response-log"},
}

type wrapError struct {
	underlying error
	msg        string
	cause      error
}

var _ error = (*wrapError)(nil)

func NewConfigurationError(msg string, cause error) error {
	return &wrapError{underlying: ErrConfiguration, msg: msg, cause: cause}
}

func NewAuthError(msg string, cause error) error {
	return &wrapError{underlying: ErrAuth, msg: msg, cause: cause}
}

func NewNotFoundError(msg string, cause error) error {
	return &wrapError{underlying: ErrNotFound, msg: msg, cause: cause}
}

func NewUploadError(msg string, cause error) error {
	return &wrapError{underlying: ErrUpload, msg: msg, cause: cause}
}

func NewEmptyInputError(msg string, cause error) error {
	return &wrapError{underlying: ErrEmptyInput, msg: msg, cause: cause}
}

func NewFileStoreError(msg string, cause error) error {
	return &wrapError{underlying: ErrFileStore, msg: msg, cause: cause}
}

func NewResponseLogError(msg string, cause error) error {
	return &wrapError{underlying: ErrResponseLog, msg: msg, cause: cause}
}

// Kind returns a short label for the taxonomy sentinel matched by err, or "unknown".
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}

	return "unknown"
}

func (err *wrapError) Error() string {
	if err == nil {
		return "(*wrapError)(nil)"
	}

	message := err.underlying.Error()
	if err.msg != "" {
		message += ": " + err.msg
	}

	if err.cause != nil {
		message += ": " + err.cause.Error()
	}

	return message
}

func (err *wrapError) Unwrap() []error {
	if err == nil {
		return nil
	}

	if err.cause == nil {
		return []error{err.underlying}
	}

	return []error{err.underlying, err.cause}
}
