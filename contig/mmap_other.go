//go:build !unix

package contig

import "runtime"

type mapping struct {
	data []byte
}

func mapDevice(path string, offset, size uint64) (*mapping, error) {
	return nil, Error.New("device mapping unsupported on %s", runtime.GOOS)
}

func (m *mapping) unmap() error { return nil }
