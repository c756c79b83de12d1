package errors_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	ff "github.com/uhppoted/uhppoted-app-formfiles/errors"
)

func TestErrVars_IsAndMessage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		msg  string
	}{
		{"ErrConfiguration", ff.ErrConfiguration, "configuration error"},
		{"ErrConfiguration2", ff.NewConfigurationError("", fmt.Errorf("")), "configuration error"},
		{"ErrAuth", ff.NewAuthError("token exchange failed", nil), "auth error"},
		{"ErrNotFound", ff.NewNotFoundError("no matching row", nil), "not found"},
		{"ErrUpload", ff.NewUploadError("", fmt.Errorf("500")), "upload error"},
		{"ErrEmptyInput", ff.NewEmptyInputError("", nil), "no files"},
		{"ErrFileStore", ff.NewFileStoreError("", nil), "file store error"},
		{"ErrResponseLog", ff.NewResponseLogError("", nil), "response log error"},
	}

	for _, c := range cases {
		t.Run(c.name+"/IsWrapped", func(t *testing.T) {
			wrapped := fmt.Errorf("higher: %w", c.err)
			if !errors.Is(wrapped, c.err) {
				t.Fatalf("errors.Is(wrapped, %s) = false, want true", c.name)
			}
		})

		t.Run(c.name+"/Message", func(t *testing.T) {
			wrapped := fmt.Errorf("higher: %w", c.err)
			if !strings.Contains(wrapped.Error(), c.msg) {
				t.Fatalf("%s.Error() = %q does not contain %q", c.name, wrapped.Error(), c.msg)
			}
		})
	}
}

func TestWrappedCause(t *testing.T) {
	cause := fmt.Errorf("HTTP 500")
	err := ff.NewUploadError("failed to write object", cause)

	if !errors.Is(err, ff.ErrUpload) {
		t.Errorf("expected %v to match ErrUpload", err)
	}

	if !errors.Is(err, cause) {
		t.Errorf("expected %v to match cause", err)
	}

	if errors.Is(err, ff.ErrAuth) {
		t.Errorf("expected %v not to match ErrAuth", err)
	}

	expected := "upload error: failed to write object: HTTP 500"
	if err.Error() != expected {
		t.Errorf("incorrect message\n   expected: %v\n   got:      %v", expected, err.Error())
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{ff.NewConfigurationError("", nil), "configuration"},
		{fmt.Errorf("wrapped (%w)", ff.NewAuthError("", nil)), "auth"},
		{ff.NewNotFoundError("", nil), "not-found"},
		{ff.NewUploadError("", nil), "upload"},
		{ff.NewEmptyInputError("", nil), "empty-input"},
		{ff.NewFileStoreError("", nil), "file-store"},
		{ff.NewResponseLogError("", nil), "response-log"},
		{fmt.Errorf("something else"), "unknown"},
	}

	for _, test := range tests {
		if kind := ff.Kind(test.err); kind != test.expected {
			t.Errorf("incorrect kind for '%v' - expected:%v, got:%v", test.err, test.expected, kind)
		}
	}
}
