package loadcontig

import (
	"bytes"
	"io"
	"math"
	"testing"

	"github.com/zeebo/assert"
)

func TestPercent(t *testing.T) {
	assert.Equal(t, percent(0, 0), 100)
	assert.Equal(t, percent(0, 10), 0)
	assert.Equal(t, percent(1, 3), 33)
	assert.Equal(t, percent(2, 3), 66)
	assert.Equal(t, percent(3, 3), 100)
	assert.Equal(t, percent(1<<62, 1<<63), 50)
	assert.Equal(t, percent(math.MaxUint64-1, math.MaxUint64), 99)
	assert.Equal(t, percent(math.MaxUint64, math.MaxUint64), 100)
}

func TestProgressFunc(t *testing.T) {
	var got []int
	var p Progress = ProgressFunc(func(pct int) { got = append(got, pct) })
	p.Update(5)
	p.Update(100)
	assert.DeepEqual(t, got, []int{5, 100})
}

func TestSize(t *testing.T) {
	t.Run("Basic", func(t *testing.T) {
		r := bytes.NewReader(make([]byte, 123))
		size, err := Size(r)
		assert.NoError(t, err)
		assert.Equal(t, size, int64(123))
		assert.Equal(t, r.Len(), 123)
	})

	t.Run("Position", func(t *testing.T) {
		r := bytes.NewReader(make([]byte, 123))
		_, err := r.Seek(23, io.SeekStart)
		assert.NoError(t, err)

		size, err := Size(r)
		assert.NoError(t, err)
		assert.Equal(t, size, int64(100))

		pos, err := r.Seek(0, io.SeekCurrent)
		assert.NoError(t, err)
		assert.Equal(t, pos, int64(23))
	})

	t.Run("Unseekable", func(t *testing.T) {
		_, err := Size(failingSeeker{})
		assert.Error(t, err)
		assert.That(t, SourceUnavailable.Has(err))
	})
}

type failingSeeker struct{}

func (failingSeeker) Seek(int64, int) (int64, error) { return 0, io.ErrNoProgress }
