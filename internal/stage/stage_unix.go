//go:build unix

package stage

import "golang.org/x/sys/unix"

// mlock pins staged pages. Tests replace it.
var mlock = unix.Mlock

// alloc maps anonymous memory outside of the Go heap and pins it when the
// process is allowed to. Munmap returns it to the system, lock included,
// when the buffer is closed.
func alloc(size int) ([]byte, func([]byte) error, error) {
	data, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, nil, err
	}

	// Both are hints; RLIMIT_MEMLOCK commonly makes the lock fail.
	_ = mlock(data)
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)

	return data, unix.Munmap, nil
}
