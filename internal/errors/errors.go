package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeVCS           ErrorType = "VCS"
	TypeCache         ErrorType = "CACHE"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if status, ok := e.Context["status"].(string); ok && status != "" {
			msg += fmt.Sprintf(" - %s", status)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches two AppErrors by type and message so that sentinels keep
// matching after WithContext/WithError produced a copy.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// StatusCode returns the HTTP status recorded on an AppError, or 0.
func StatusCode(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Context == nil {
		return 0
	}
	if code, ok := appErr.Context["status_code"].(int); ok {
		return code
	}
	return 0
}

// IsRateLimit reports whether err means the API quota is exhausted or access was forbidden.
func IsRateLimit(err error) bool {
	return errors.Is(err, ErrGitHubRateLimit)
}

// IsNoCommonAncestor reports whether the upstream refused a comparison because
// the two branches share no history.
func IsNoCommonAncestor(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "No common ancestor")
}

// Configuration errors
var (
	ErrConfigInvalid = NewAppError(TypeConfiguration, "configuration is invalid", nil).
				WithSuggestion("Review your settings with: forkdiff config show")

	ErrInvalidRepository = NewAppError(TypeConfiguration, "invalid GitHub repository, format is <owner>/<repo>", nil).
				WithSuggestion("Example: forkdiff forks torvalds/linux")

	ErrNoGitRemote = NewAppError(TypeConfiguration, "no repository given and no GitHub remote found", nil).
			WithSuggestion("Pass the repository explicitly: forkdiff forks <owner>/<repo>")
)

// VCS errors
var (
	ErrRepositoryNotFound = NewAppError(TypeVCS, "repository not found or access denied", nil).
				WithSuggestion("Check repository name and token access permissions")

	ErrAPIRequest = NewAppError(TypeVCS, "GitHub API request failed", nil)

	ErrGitHubTokenInvalid = NewAppError(TypeVCS, "GitHub token is invalid or expired", nil).
				WithSuggestion("Generate a new token at: https://github.com/settings/tokens\nThen run: forkdiff config set token <token>")

	ErrGitHubRateLimit = NewAppError(TypeVCS, "GitHub API rate limit exceeded", nil).
				WithSuggestion("Wait for the quota to reset (forkdiff quota) or use a personal access token for higher limits")
)

// Cache errors
var (
	ErrCacheCorrupted = NewAppError(TypeCache, "cached entry is malformed", nil)
)
