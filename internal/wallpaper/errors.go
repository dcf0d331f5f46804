package wallpaper

import "errors"

// Error categories. Every error returned by a Session matches exactly one of
// these with errors.Is.
var (
	// ErrShellTopology means the shell's desktop window tree is absent or
	// not shaped as expected.
	ErrShellTopology = errors.New("shell window topology unavailable")
	// ErrState means a transition was requested from the wrong state.
	ErrState = errors.New("invalid embedding state")
)

var (
	ErrProgmanNotFound     = newError("progman_not_found", "Progman window not found", ErrShellTopology)
	ErrWorkerWNotFound     = newError("workerw_not_found", "WorkerW window not found", ErrShellTopology)
	ErrAlreadyEmbedded     = newError("already_embedded", "already in wallpaper mode", ErrState)
	ErrNotEmbedded         = newError("not_embedded", "not in wallpaper mode", ErrState)
	ErrInvalidHandle       = newError("invalid_handle", "invalid window handle", nil)
	ErrPlatformUnsupported = newError("platform_unsupported", "wallpaper mode is only supported on Windows", nil)
)

var sentinels = []*Error{
	ErrProgmanNotFound,
	ErrWorkerWNotFound,
	ErrAlreadyEmbedded,
	ErrNotEmbedded,
	ErrInvalidHandle,
	ErrPlatformUnsupported,
}

// Error is a typed engine failure with a stable code that survives
// serialization.
type Error struct {
	Code     string
	msg      string
	category error
}

func newError(code, msg string, category error) *Error {
	return &Error{Code: code, msg: msg, category: category}
}

func (e *Error) Error() string { return e.msg }

// Is reports membership in the error's category.
func (e *Error) Is(target error) bool {
	return e.category != nil && target == e.category
}

// Code returns the stable code of the engine error wrapped in err, or "".
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// FromCode returns the sentinel registered under code, or nil.
func FromCode(code string) *Error {
	for _, e := range sentinels {
		if e.Code == code {
			return e
		}
	}
	return nil
}
