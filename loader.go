// Package loadcontig copies files into reserved, physically contiguous
// memory.
//
// Writes into that memory can be far slower than writes into ordinary
// process memory, so a Loader reads the file in bounded chunks into a
// staging buffer and bulk copies each chunk into place.
package loadcontig

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/zeebo/loadcontig/contig"
	"github.com/zeebo/loadcontig/internal/debug"
	"github.com/zeebo/loadcontig/internal/digest"
	"github.com/zeebo/loadcontig/internal/mon"
	"github.com/zeebo/loadcontig/internal/stage"
)

// FrameSize is the default largest chunk moved in one step: 1 GiB.
const FrameSize = 1 << 30

// Loader copies a source into a contiguous buffer. The zero value is ready
// to use and stages 1 GiB chunks. A Loader carries no state between loads.
type Loader struct {
	// FrameSize bounds the size of every chunk, and so the size of the
	// staging buffer. Values <= 0 select the package FrameSize.
	FrameSize int

	// Direct reads each chunk straight into the destination instead of
	// through the staging buffer. Chunks are still bounded by FrameSize.
	Direct bool

	// Verify names a digest ("xxhash" or "highway") used to check the
	// destination against the bytes read once the transfer completes. Empty
	// or "none" disables verification.
	Verify string

	// Progress, if not nil, receives completion percentages.
	Progress Progress

	// Log, if not nil, receives diagnostics.
	Log *zap.Logger

	// allocate is replaced by tests.
	allocate func(size int) (staging, error)
}

// staging is the scoped memory chunks pass through.
type staging interface {
	Bytes() []byte
	Close() error
}

// Result describes a completed load.
type Result struct {
	Loaded  int64         // bytes copied into the buffer
	Chunks  int           // number of chunks moved
	Read    time.Duration // time spent reading the source
	Copy    time.Duration // time spent copying staged chunks
	Elapsed time.Duration
	Digest  uint64 // digest of the source when verifying
}

func (l *Loader) frameSize() int {
	if l.FrameSize <= 0 {
		return FrameSize
	}
	return l.FrameSize
}

func (l *Loader) logger() *zap.Logger {
	if l.Log == nil {
		return zap.NewNop()
	}
	return l.Log
}

func (l *Loader) progress() Progress {
	if l.Progress == nil {
		return noProgress{}
	}
	return l.Progress
}

func (l *Loader) alloc(size int) (staging, error) {
	if l.allocate != nil {
		return l.allocate(size)
	}
	buf, err := stage.New(size)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// LoadFile opens the file at path and loads all of it into dst, mapping
// dst first if needed. dst is never unmapped: that is left to its owner.
func (l *Loader) LoadFile(path string, dst contig.Buffer) (Result, error) {
	log := l.logger()

	fh, err := os.Open(path)
	if err != nil {
		return Result{}, SourceUnavailable.Wrap(err)
	}
	defer func() { _ = fh.Close() }()

	size, err := Size(fh)
	if err != nil {
		return Result{}, err
	}

	log.Info("mapping contiguous buffer")
	if err := dst.Map(); err != nil {
		return Result{}, err
	}

	log.Info("loading file into RAM",
		zap.String("path", path),
		zap.String("phys", fmt.Sprintf("0x%X", dst.PhysAddr())),
		zap.Int64("size", size),
		zap.Uint64("capacity", dst.Size()))

	return l.LoadN(fh, size, dst)
}

// Load copies everything between the current position of src and its end
// into the start of dst, which must already be mapped.
func (l *Loader) Load(src io.ReadSeeker, dst contig.Buffer) (Result, error) {
	size, err := Size(src)
	if err != nil {
		return Result{}, err
	}
	return l.LoadN(src, size, dst)
}

// LoadN copies exactly size bytes from src into the start of dst, which
// must already be mapped. It fails without reading or writing anything if
// size exceeds the capacity of dst, and fails with ShortRead as soon as src
// provides fewer bytes than asked for. There is no retry: after a failure
// the contents of dst are undefined.
func (l *Loader) LoadN(src io.Reader, size int64, dst contig.Buffer) (res Result, err error) {
	start := time.Now()
	log := l.logger()
	progress := l.progress()

	if size < 0 {
		return res, SourceUnavailable.New("invalid size: %d", size)
	}
	if capacity := dst.Size(); uint64(size) > capacity {
		return res, CapacityExceeded.Wrap(&SizeError{FileSize: size, Capacity: capacity})
	}
	out := dst.Bytes()
	if out == nil && size > 0 {
		return res, contig.Error.New("buffer is not mapped")
	}
	if uint64(len(out)) < uint64(size) {
		return res, CapacityExceeded.Wrap(&SizeError{FileSize: size, Capacity: uint64(len(out))})
	}

	kind, err := digest.Parse(l.Verify)
	if err != nil {
		return res, err
	}
	hash, err := digest.New(kind)
	if err != nil {
		return res, err
	}

	if size == 0 {
		progress.Update(100)
		if hash != nil {
			res.Digest = hash.Sum64()
		}
		res.Elapsed = time.Since(start)
		return res, nil
	}

	frame := l.frameSize()
	if int64(frame) > size {
		frame = int(size)
	}

	var buf staging
	if !l.Direct {
		buf, err = l.alloc(frame)
		if err != nil {
			return res, StagingAllocationFailed.Wrap(fmt.Errorf("%d bytes: %w", frame, err))
		}
		defer func() {
			if cerr := buf.Close(); cerr != nil {
				log.Warn("releasing staging buffer", zap.Error(cerr))
			}
		}()
	}

	progress.Update(0)

	var (
		readThunk mon.Thunk // timing for source reads
		copyThunk mon.Thunk // timing for staged copies

		loaded    int64
		remaining = size
		last      = 0
	)

	for remaining > 0 {
		debug.Assert("cursor accounting", func() bool { return loaded+remaining == size })

		block := int64(frame)
		if block > remaining {
			block = remaining
		}
		dest := out[loaded : loaded+block]

		chunk := dest
		if !l.Direct {
			chunk = buf.Bytes()[:block]
		}

		timer := readThunk.Start()
		n, rerr := io.ReadFull(src, chunk)
		readDur := timer.Stop()
		if rerr != nil {
			res.Read, res.Copy = readThunk.Sum(), copyThunk.Sum()
			res.Elapsed = time.Since(start)
			return res, ShortRead.Wrap(&ReadError{
				Offset: loaded,
				Want:   block,
				Got:    int64(n),
				Err:    rerr,
			})
		}

		if hash != nil {
			_, _ = hash.Write(chunk)
		}

		var copyDur time.Duration
		if !l.Direct {
			timer = copyThunk.Start()
			copy(dest, chunk)
			copyDur = timer.Stop()
		}

		loaded += block
		remaining -= block
		res.Loaded = loaded
		res.Chunks++

		log.Debug("chunk loaded",
			zap.Int64("offset", loaded-block),
			zap.Int64("size", block),
			zap.Duration("read", readDur),
			zap.Duration("copy", copyDur))

		if pct := percent(uint64(loaded), uint64(size)); pct != last {
			progress.Update(pct)
			last = pct
		}
	}

	debug.Assert("no timers running", func() bool {
		return readThunk.Current() == 0 && copyThunk.Current() == 0
	})
	res.Read, res.Copy = readThunk.Sum(), copyThunk.Sum()

	if hash != nil {
		res.Digest = hash.Sum64()
		got, err := digest.Sum(kind, out[:size])
		if err != nil {
			return res, err
		}
		if got != res.Digest {
			res.Elapsed = time.Since(start)
			return res, VerifyFailed.New("%s of source is %016x but buffer is %016x", kind, res.Digest, got)
		}
	}

	res.Elapsed = time.Since(start)
	log.Info("load complete",
		zap.String("loaded", humanize.IBytes(uint64(res.Loaded))),
		zap.Int("chunks", res.Chunks),
		zap.Duration("elapsed", res.Elapsed),
		zap.String("rate", rate(res.Loaded, res.Elapsed)),
		zap.Duration("read_avg", time.Duration(readThunk.Average())),
		zap.Duration("read_max", slowest(&readThunk.Histogram)),
		zap.Duration("copy_avg", time.Duration(copyThunk.Average())))

	return res, nil
}

// rate formats a throughput for humans.
func rate(n int64, dur time.Duration) string {
	if dur <= 0 {
		return "n/a"
	}
	return humanize.IBytes(uint64(float64(n)/dur.Seconds())) + "/s"
}

// slowest returns the longest duration still held by h.
func slowest(h *mon.Histogram) (worst time.Duration) {
	for _, dur := range h.Durations() {
		if d := time.Duration(dur); d > worst {
			worst = d
		}
	}
	return worst
}
