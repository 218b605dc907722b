// Package stage allocates the bounded intermediate buffer that chunks pass
// through on their way into a contiguous buffer.
package stage

import "github.com/zeebo/errs"

// Error is the class that contains all the errors from this package.
var Error = errs.Class("stage")

// Buffer is a fixed size byte buffer. It must be closed to release its
// memory, and must not be used after Close.
type Buffer struct {
	data   []byte
	free   func([]byte) error
	closed bool
}

// New allocates a staging buffer of exactly size bytes.
func New(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, Error.New("invalid size: %d", size)
	}
	data, free, err := alloc(size)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return &Buffer{data: data, free: free}, nil
}

// Bytes returns the full backing memory of the buffer.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the size of the buffer.
func (b *Buffer) Len() int { return len(b.data) }

// Close releases the memory of the buffer. It is safe to call more than
// once.
func (b *Buffer) Close() error {
	if b == nil || b.closed {
		return nil
	}
	b.closed = true

	data := b.data
	b.data = nil
	if b.free == nil {
		return nil
	}
	return Error.Wrap(b.free(data))
}
