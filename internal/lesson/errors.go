package lesson

import "errors"

// ErrNotFound indicates the referenced lesson id is not in the store index.
var ErrNotFound = errors.New("lesson not found")

// ErrNoActiveLesson indicates an operation that needs an active lesson ran
// while none was set.
var ErrNoActiveLesson = errors.New("no active lesson")

// ValidationError reports user-supplied content that fails a precondition,
// such as an empty lesson title or a note with no valid ranges. The
// operation aborts without a partial write.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}
