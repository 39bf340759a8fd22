package schemaform

import (
	"errors"
	"fmt"

	"github.com/reoring/schemaform/rules"
)

// Configuration errors. They are returned wrapped in a *MountError.
var (
	// ErrInvalidRoot reports a root mount whose schema cannot describe the
	// root object: it must be `type: object` without patternProperties, and
	// additionalProperties must be absent or true.
	ErrInvalidRoot = errors.New("schemaform: invalid root schema")
	// ErrAsyncRoot reports a loader mounted at the root point.
	ErrAsyncRoot = errors.New("schemaform: root schema cannot be loaded asynchronously")
	// ErrNilSchema reports a mount with neither a schema nor a loader.
	ErrNilSchema = errors.New("schemaform: mount has no schema")
	// ErrInvalidMountPoint reports an empty mount point or an empty path
	// segment.
	ErrInvalidMountPoint = errors.New("schemaform: invalid mount point")
)

// MountError ties a configuration error to the mount point it was found at.
type MountError struct {
	Point string
	Err   error
}

func (e *MountError) Error() string {
	return fmt.Sprintf("mount %q: %v", e.Point, e.Err)
}

func (e *MountError) Unwrap() error { return e.Err }

func mountError(point string, err error) error {
	return &MountError{Point: point, Err: err}
}

// Issue and Issues are the diagnostic types returned by Explain.
type (
	Issue  = rules.Issue
	Issues = rules.Issues
)

// AsIssues extracts Issues from an error chain.
func AsIssues(err error) (Issues, bool) { return rules.AsIssues(err) }
