//go:build unix

package contig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zeebo/assert"
	"golang.org/x/sys/unix"
)

// newDevice creates a regular file standing in for a memory device.
func newDevice(t *testing.T, size int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mem")
	assert.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

func TestDevMem(t *testing.T) {
	page := unix.Getpagesize()
	path := newDevice(t, 3*page)

	t.Run("Unaligned", func(t *testing.T) {
		phys := uint64(page + 100)
		d := NewDevMem(path, phys, 500)
		assert.That(t, d.Bytes() == nil)

		assert.NoError(t, d.Map())
		assert.NoError(t, d.Map())
		assert.Equal(t, d.Size(), uint64(500))
		assert.Equal(t, d.PhysAddr(), phys)
		assert.Equal(t, len(d.Bytes()), 500)
		assert.Equal(t, cap(d.Bytes()), 500)

		copy(d.Bytes(), "hello")
		assert.NoError(t, d.Close())
		assert.NoError(t, d.Close())
		assert.That(t, d.Bytes() == nil)

		data, err := os.ReadFile(path)
		assert.NoError(t, err)
		assert.Equal(t, string(data[page+100:page+105]), "hello")
		assert.Equal(t, data[page+99], byte(0))
	})

	t.Run("Empty", func(t *testing.T) {
		d := NewDevMem(path, 0, 0)
		assert.NoError(t, d.Map())
		assert.Equal(t, len(d.Bytes()), 0)
		assert.NoError(t, d.Close())
	})

	t.Run("Missing", func(t *testing.T) {
		d := NewDevMem(filepath.Join(t.TempDir(), "nope"), 0, 4096)
		err := d.Map()
		assert.Error(t, err)
		assert.That(t, Error.Has(err))
	})
}

func TestUDMABuf(t *testing.T) {
	page := unix.Getpagesize()

	sysfs, devDir := t.TempDir(), t.TempDir()
	attrs := filepath.Join(sysfs, "udmabuf0")
	assert.NoError(t, os.MkdirAll(attrs, 0o755))
	assert.NoError(t, os.WriteFile(filepath.Join(attrs, "size"), []byte("8192\n"), 0o644))
	assert.NoError(t, os.WriteFile(filepath.Join(attrs, "phys_addr"), []byte("0x000000003c000000\n"), 0o644))
	assert.NoError(t, os.WriteFile(filepath.Join(devDir, "udmabuf0"), make([]byte, 2*page+8192), 0o644))

	t.Run("Basic", func(t *testing.T) {
		u, err := OpenUDMABuf(sysfs, devDir, "udmabuf0")
		assert.NoError(t, err)
		assert.Equal(t, u.Name(), "udmabuf0")
		assert.Equal(t, u.Size(), uint64(8192))
		assert.Equal(t, u.PhysAddr(), uint64(0x3c000000))

		assert.NoError(t, u.Map())
		assert.Equal(t, len(u.Bytes()), 8192)
		u.Bytes()[8191] = 0xAA
		assert.NoError(t, u.Close())

		data, err := os.ReadFile(filepath.Join(devDir, "udmabuf0"))
		assert.NoError(t, err)
		assert.Equal(t, data[8191], byte(0xAA))
	})

	t.Run("MissingDevice", func(t *testing.T) {
		_, err := OpenUDMABuf(sysfs, devDir, "udmabuf1")
		assert.Error(t, err)
		assert.That(t, Error.Has(err))
	})

	t.Run("MissingName", func(t *testing.T) {
		_, err := OpenUDMABuf(sysfs, devDir, "")
		assert.Error(t, err)
	})

	t.Run("BadAttr", func(t *testing.T) {
		bad := filepath.Join(sysfs, "bad")
		assert.NoError(t, os.MkdirAll(bad, 0o755))
		assert.NoError(t, os.WriteFile(filepath.Join(bad, "size"), []byte("lots"), 0o644))

		_, err := OpenUDMABuf(sysfs, devDir, "bad")
		assert.Error(t, err)
		assert.That(t, Error.Has(err))
	})
}
