package program

import "fmt"

// BuildError reports a template construct that has no JSX translation.
type BuildError struct {
	Offset  int
	Message string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build error at offset %d: %s", e.Offset, e.Message)
}

func errorf(offset int, format string, args ...any) *BuildError {
	return &BuildError{Offset: offset, Message: fmt.Sprintf(format, args...)}
}
