package loadcontig

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/zeebo/assert"

	"github.com/zeebo/loadcontig/contig"
	"github.com/zeebo/loadcontig/internal/pcg"
)

// source returns n deterministic bytes and a reader over them.
func source(n int, seed uint64) ([]byte, *bytes.Reader) {
	gen := pcg.New(seed, 0)
	data := gen.Bytes(n)
	return data, bytes.NewReader(data)
}

// mapped returns a mapped memory buffer filled with fill.
func mapped(t testing.TB, size uint64, fill byte) *contig.Mem {
	t.Helper()

	m := contig.NewMem(size, 0x3C000000)
	assert.NoError(t, m.Map())
	for i := range m.Bytes() {
		m.Bytes()[i] = fill
	}
	return m
}

// untouched reports whether every byte of buf equals fill.
func untouched(buf []byte, fill byte) bool {
	for _, b := range buf {
		if b != fill {
			return false
		}
	}
	return true
}

// recorder records every progress update.
type recorder struct {
	pcts []int
}

func (r *recorder) Update(pct int) { r.pcts = append(r.pcts, pct) }

// check asserts the progress sequence is non-decreasing and ends at 100.
func (r *recorder) check(t testing.TB) {
	t.Helper()

	assert.That(t, len(r.pcts) > 0)
	for i, pct := range r.pcts {
		assert.That(t, pct >= 0 && pct <= 100)
		if i > 0 {
			assert.That(t, pct >= r.pcts[i-1])
		}
	}
	assert.Equal(t, r.pcts[len(r.pcts)-1], 100)
}

// truncated reports a length it cannot deliver: it behaves like the first
// n bytes of data followed by err.
type truncated struct {
	r   io.Reader
	err error
}

func newTruncated(data []byte, n int, err error) *truncated {
	return &truncated{r: bytes.NewReader(data[:n]), err: err}
}

func (t *truncated) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if errors.Is(err, io.EOF) && t.err != nil {
		err = t.err
	}
	return n, err
}

// countingReader counts calls to Read.
type countingReader struct {
	r     io.Reader
	calls int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.calls++
	return c.r.Read(p)
}

// fakeStaging is a heap backed staging buffer that records its release.
type fakeStaging struct {
	data   []byte
	closed int
}

func (f *fakeStaging) Bytes() []byte { return f.data }
func (f *fakeStaging) Close() error  { f.closed++; return nil }

// shortBuffer claims more capacity than its view provides.
type shortBuffer struct {
	*contig.Mem
	usable int
}

func (s *shortBuffer) Bytes() []byte { return s.Mem.Bytes()[:s.usable] }
