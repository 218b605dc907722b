package loadcontig

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/zeebo/errs"
)

// Every failure of a load is terminal and belongs to exactly one of these
// classes. Use Has to test for a class, for example
// CapacityExceeded.Has(err).
var (
	// SourceUnavailable is returned when the source cannot be opened or its
	// length cannot be determined. Nothing is transferred.
	SourceUnavailable = errs.Class("source unavailable")

	// CapacityExceeded is returned when the source does not fit in the
	// destination. It wraps a *SizeError and nothing is written.
	CapacityExceeded = errs.Class("capacity exceeded")

	// ShortRead is returned when the source ends or fails before the number
	// of bytes it reported. It wraps a *ReadError. The destination holds
	// whatever was copied before the failure.
	ShortRead = errs.Class("short read")

	// StagingAllocationFailed is returned when the staging buffer cannot be
	// allocated. Nothing is transferred.
	StagingAllocationFailed = errs.Class("staging allocation failed")

	// VerifyFailed is returned when the digest of the destination does not
	// match the digest of the bytes read from the source.
	VerifyFailed = errs.Class("verify failed")
)

// SizeError reports a source that is larger than its destination.
type SizeError struct {
	FileSize int64
	Capacity uint64
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("file won't fit into contiguous buffer: file size = %d bytes (%s), buffer size = %d bytes (%s)",
		e.FileSize, humanize.IBytes(uint64(e.FileSize)),
		e.Capacity, humanize.IBytes(e.Capacity))
}

// ReadError reports a read that returned fewer bytes than requested.
type ReadError struct {
	Offset int64 // offset in the source of the failed read
	Want   int64
	Got    int64
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %d of %d bytes at offset %d: %v", e.Got, e.Want, e.Offset, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
