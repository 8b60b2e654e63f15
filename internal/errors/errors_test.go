package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_WithError(t *testing.T) {
	baseErr := errors.New("original error")
	appErr := ErrAPIRequest.WithError(baseErr)

	if appErr.Err != baseErr {
		t.Errorf("Expected underlying error to be %v, got %v", baseErr, appErr.Err)
	}

	if appErr.Type != TypeVCS {
		t.Errorf("Expected type %s, got %s", TypeVCS, appErr.Type)
	}
}

func TestAppError_WithContext(t *testing.T) {
	appErr := ErrAPIRequest.WithContext("status_code", 500).WithContext("status", "500 Internal Server Error")

	if appErr.Context["status_code"] != 500 {
		t.Errorf("Expected status_code context 500, got %v", appErr.Context["status_code"])
	}

	if ErrAPIRequest.Context != nil {
		t.Errorf("Sentinel context must not be mutated, got %v", ErrAPIRequest.Context)
	}
}

func TestAppError_Error_Format(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		contains []string
	}{
		{
			name:     "Simple error without underlying error",
			err:      ErrRepositoryNotFound,
			contains: []string{"VCS", "repository not found or access denied"},
		},
		{
			name:     "Error with underlying error",
			err:      ErrAPIRequest.WithError(errors.New("connection reset")),
			contains: []string{"VCS", "GitHub API request failed", "connection reset"},
		},
		{
			name:     "Error with status context",
			err:      ErrAPIRequest.WithContext("status", "502 Bad Gateway"),
			contains: []string{"GitHub API request failed", "502 Bad Gateway"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("Expected %q to contain %q", msg, want)
				}
			}
		})
	}
}

func TestAppError_Is(t *testing.T) {
	wrapped := fmt.Errorf("fetching forks: %w", ErrGitHubRateLimit.WithContext("status_code", 403))

	if !errors.Is(wrapped, ErrGitHubRateLimit) {
		t.Error("Expected wrapped copy to match the rate limit sentinel")
	}
	if errors.Is(wrapped, ErrRepositoryNotFound) {
		t.Error("Did not expect rate limit error to match not found sentinel")
	}
	if !IsRateLimit(wrapped) {
		t.Error("IsRateLimit should be true")
	}
}

func TestStatusCode(t *testing.T) {
	if got := StatusCode(ErrAPIRequest.WithContext("status_code", 422)); got != 422 {
		t.Errorf("Expected 422, got %d", got)
	}
	if got := StatusCode(errors.New("plain")); got != 0 {
		t.Errorf("Expected 0 for plain errors, got %d", got)
	}
}

func TestIsNoCommonAncestor(t *testing.T) {
	err := ErrAPIRequest.WithError(errors.New("404 No common ancestor between main and fork:main. []"))
	if !IsNoCommonAncestor(err) {
		t.Error("Expected unrelated histories to be detected")
	}
	if IsNoCommonAncestor(nil) {
		t.Error("nil error is not an unrelated history")
	}
}
