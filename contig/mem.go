package contig

import "math"

// Mem is a Buffer backed by ordinary process memory. It reports whatever
// physical address it was constructed with, and is useful for dry runs and
// for testing code that consumes a Buffer.
type Mem struct {
	size uint64
	phys uint64
	data []byte
}

// NewMem returns an unmapped Mem of the given size claiming to live at the
// physical address phys.
func NewMem(size, phys uint64) *Mem {
	return &Mem{size: size, phys: phys}
}

// Map allocates the backing memory.
func (m *Mem) Map() error {
	if m.data != nil {
		return nil
	}
	if m.size > math.MaxInt {
		return Error.New("size too large: %d", m.size)
	}
	m.data = make([]byte, m.size)
	return nil
}

// Size returns the capacity of the buffer.
func (m *Mem) Size() uint64 { return m.size }

// PhysAddr returns the physical address the buffer was constructed with.
func (m *Mem) PhysAddr() uint64 { return m.phys }

// Bytes returns the backing memory, or nil if the buffer is not mapped.
func (m *Mem) Bytes() []byte { return m.data }

// Close releases the backing memory.
func (m *Mem) Close() error {
	m.data = nil
	return nil
}
