package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewFormatsMessage(t *testing.T) {
	err := New(ErrCodeInvalidNodeCount, "need at least %d nodes, got %d", 1, 0)

	if err.Code != ErrCodeInvalidNodeCount {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidNodeCount)
	}
	if want := "need at least 1 nodes, got 0"; err.Message != want {
		t.Errorf("Message = %q, want %q", err.Message, want)
	}
	if want := "INVALID_NODE_COUNT: need at least 1 nodes, got 0"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if err.Cause != nil {
		t.Errorf("Cause = %v, want nil", err.Cause)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("zero-length segment")
	err := Wrap(ErrCodeDegenerateGeometry, cause, "candidate %d-%d", 0, 1)

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if got := UserMessage(err); got != "candidate 0-1" {
		t.Errorf("UserMessage() = %q, want %q", got, "candidate 0-1")
	}
}

func TestCodeLookup(t *testing.T) {
	coded := New(ErrCodeInvalidPolicy, "unknown policy %q", "spiral")
	wrapped := fmt.Errorf("build: %w", coded)
	nested := Wrap(ErrCodeInternal, coded, "outer")

	tests := []struct {
		name string
		err  error
		code Code
	}{
		{"coded", coded, ErrCodeInvalidPolicy},
		{"fmt wrapped", wrapped, ErrCodeInvalidPolicy},
		{"outermost wins", nested, ErrCodeInternal},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code == "" {
				if Is(tt.err, ErrCodeInvalidPolicy) {
					t.Error("Is() = true for an uncoded error")
				}
				return
			}
			if !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false, want true", tt.code)
			}
		})
	}
}

func TestUserMessagePlainError(t *testing.T) {
	if got := UserMessage(errors.New("disk full")); got != "disk full" {
		t.Errorf("UserMessage() = %q, want %q", got, "disk full")
	}
}

func TestIsValidation(t *testing.T) {
	for _, code := range []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidNodeCount,
		ErrCodeInvalidBounds,
		ErrCodeInvalidEpsilon,
		ErrCodeInvalidFormat,
	} {
		if !code.IsValidation() {
			t.Errorf("%s.IsValidation() = false, want true", code)
		}
	}
	for _, code := range []Code{ErrCodeDegenerateGeometry, ErrCodeNotFound, ErrCodeInternal, ""} {
		if code.IsValidation() {
			t.Errorf("%q.IsValidation() = true, want false", code)
		}
	}
}
