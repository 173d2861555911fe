package errors

import (
	"math"
	"path/filepath"
	"slices"
	"strings"
	"unicode"
)

// MaxNodeCount bounds the node count accepted from untrusted input (flags,
// query strings). The resolver is cubic in n, so larger sets are refused
// before any work starts.
const MaxNodeCount = 2048

// ValidateNodeCount checks that n is a usable node count.
func ValidateNodeCount(n int) error {
	if n <= 0 {
		return New(ErrCodeInvalidNodeCount, "node count must be positive, got %d", n)
	}
	if n > MaxNodeCount {
		return New(ErrCodeInvalidNodeCount, "node count too large (max %d), got %d", MaxNodeCount, n)
	}
	return nil
}

// ValidateBounds checks that width and height describe a non-empty, finite
// rectangle.
func ValidateBounds(width, height float64) error {
	if !finite(width) || !finite(height) {
		return New(ErrCodeInvalidBounds, "bounds must be finite, got %gx%g", width, height)
	}
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidBounds, "bounds must be positive, got %gx%g", width, height)
	}
	return nil
}

// ValidateEpsilon checks a geometric tolerance. Zero is allowed; the
// intersection predicate then compares exactly, while option structs read it
// as "use the default".
func ValidateEpsilon(eps float64) error {
	if !finite(eps) || eps < 0 {
		return New(ErrCodeInvalidEpsilon, "epsilon must be finite and non-negative, got %g", eps)
	}
	return nil
}

// ValidateFormat checks that format is one of the allowed names.
func ValidateFormat(format string, allowed []string) error {
	if slices.Contains(allowed, format) {
		return nil
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of: %s)", format, strings.Join(allowed, ", "))
}

// MaxPathLength bounds file paths taken from the command line.
const MaxPathLength = 4096

// ValidatePath checks a file path supplied for a snapshot or an output file.
// The path must be non-empty, free of control characters, at most
// MaxPathLength bytes and must name a file rather than a directory.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(path) > MaxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d bytes)", MaxPathLength)
	}
	if strings.IndexFunc(path, unicode.IsControl) >= 0 {
		return New(ErrCodeInvalidPath, "path %q contains control characters", path)
	}
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "path %q names a directory, want a file", path)
	}
	switch filepath.Base(path) {
	case ".", "..":
		return New(ErrCodeInvalidPath, "path %q names a directory, want a file", path)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
