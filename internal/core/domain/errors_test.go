package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"ErrNotFound", ErrNotFound, "not found"},
		{"ErrInvalidInput", ErrInvalidInput, "invalid input"},
		{"ErrUnauthorized", ErrUnauthorized, "unauthorized"},
		{"ErrForbidden", ErrForbidden, "forbidden"},
		{"ErrUpstreamFailure", ErrUpstreamFailure, "upstream failure"},
		{"ErrTokenExpired", ErrTokenExpired, "token expired"},
		{"ErrTokenInvalid", ErrTokenInvalid, "token invalid"},
		{"ErrSessionNotFound", ErrSessionNotFound, "session not found"},
		{"ErrInvalidCredentials", ErrInvalidCredentials, "invalid credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.msg {
				t.Errorf("expected %q, got %q", tt.msg, tt.err.Error())
			}
		})
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	allErrors := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrUnauthorized,
		ErrForbidden,
		ErrUpstreamFailure,
		ErrTokenExpired,
		ErrTokenInvalid,
		ErrSessionNotFound,
		ErrInvalidCredentials,
	}

	for i, err1 := range allErrors {
		for j, err2 := range allErrors {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("errors should be distinct: %v and %v", err1, err2)
			}
		}
	}
}

func TestUpstreamError(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("search: %w", &UpstreamError{Source: "files", Err: cause})

	if !errors.Is(err, ErrUpstreamFailure) {
		t.Error("expected UpstreamError to match ErrUpstreamFailure")
	}
	if !errors.Is(err, cause) {
		t.Error("expected UpstreamError to unwrap to its cause")
	}
	if errors.Is(err, ErrInvalidInput) {
		t.Error("UpstreamError should not match ErrInvalidInput")
	}

	var upErr *UpstreamError
	if !errors.As(err, &upErr) || upErr.Source != "files" {
		t.Errorf("expected source 'files', got %+v", upErr)
	}
	if upErr.Error() != "upstream failure: files: connection refused" {
		t.Errorf("unexpected message: %q", upErr.Error())
	}
}

func TestUpstreamError_Deadline(t *testing.T) {
	err := &UpstreamError{Source: "messages", Err: context.DeadlineExceeded}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected deadline to be preserved")
	}
}
