//go:build unix

package contig

import (
	"math"
	"os"

	"golang.org/x/sys/unix"
)

// mapping is a shared mapping of some device. data is the requested
// window into raw, which starts at a page boundary.
type mapping struct {
	raw  []byte
	data []byte
}

// mapDevice maps size bytes of the device at path starting at offset. The
// offset need not be page aligned.
func mapDevice(path string, offset, size uint64) (*mapping, error) {
	if size == 0 {
		return &mapping{data: []byte{}}, nil
	}

	page := uint64(unix.Getpagesize())
	base := offset &^ (page - 1)
	skew := offset - base
	if size > math.MaxInt-skew || base > math.MaxInt64 {
		return nil, Error.New("region too large: offset 0x%X size %d", offset, size)
	}

	fh, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, err
	}
	// The mapping holds its own reference to the file.
	defer func() { _ = fh.Close() }()

	raw, err := unix.Mmap(int(fh.Fd()), int64(base), int(skew+size),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}

	return &mapping{
		raw:  raw,
		data: raw[skew : skew+size : skew+size],
	}, nil
}

// unmap releases the mapping. It is a no-op on a nil mapping.
func (m *mapping) unmap() error {
	if m == nil || m.raw == nil {
		return nil
	}
	raw := m.raw
	m.raw, m.data = nil, nil
	return unix.Munmap(raw)
}
