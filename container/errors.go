package container

import (
	"errors"
	"fmt"
)

// ErrTruncated is returned when the data ends before the declared
// header or payload length.
var ErrTruncated = errors.New("container: truncated artifact")

// MagicError is returned when the leading bytes are not the artifact
// magic.
type MagicError struct {
	Got [4]byte
}

func (e *MagicError) Error() string {
	return fmt.Sprintf("container: bad magic %q, want %q", e.Got, magic)
}

// VersionError is returned when the artifact's format version is not
// exactly the supported one.
type VersionError struct {
	Got       uint16
	Supported uint16
}

// TooNew reports whether the artifact was written by a newer format.
func (e *VersionError) TooNew() bool { return e.Got > e.Supported }

func (e *VersionError) Error() string {
	if e.TooNew() {
		return fmt.Sprintf("container: format version %d is newer than supported version %d",
			e.Got, e.Supported)
	}
	return fmt.Sprintf("container: format version %d is older than supported version %d",
		e.Got, e.Supported)
}

// ChecksumError is returned when the engine version checksum does not
// match this engine.
type ChecksumError struct {
	Got  uint32
	Want uint32
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("container: engine checksum mismatch: got %#x, want %#x", e.Got, e.Want)
}

// HeaderError is returned for a structurally invalid header.
type HeaderError struct {
	Reason string
}

func (e *HeaderError) Error() string {
	return "container: invalid header: " + e.Reason
}

// PayloadError wraps a payload deserialization failure. The header was
// valid; the content was not.
type PayloadError struct {
	Err error
}

func (e *PayloadError) Error() string {
	return "container: invalid payload: " + e.Err.Error()
}

func (e *PayloadError) Unwrap() error { return e.Err }
