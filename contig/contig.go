// Package contig provides access to reserved, physically contiguous regions
// of memory such as those handed to DMA capable devices.
package contig

import "github.com/zeebo/errs"

// Error is the class that contains all the errors from this package.
var Error = errs.Class("contig")

// Buffer is an interface abstracting a physically contiguous region of
// memory. Implementations are not thread safe.
type Buffer interface {
	// Map makes the region accessible to the process. It must be called
	// before Bytes returns a usable view. Calling Map on an already mapped
	// buffer does nothing.
	Map() error

	// Size returns the usable capacity of the region in bytes.
	Size() uint64

	// PhysAddr returns the physical address of the first byte of the
	// region. It is informational: nothing in the process can dereference
	// it.
	PhysAddr() uint64

	// Bytes returns a writable view of the whole region. It is only valid
	// while the buffer is mapped, and is nil before that.
	Bytes() []byte
}
