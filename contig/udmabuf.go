package contig

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Default locations used by the u-dma-buf kernel module.
const (
	DefaultSysfs  = "/sys/class/u-dma-buf"
	DefaultDevDir = "/dev"
)

// UDMABuf is a Buffer for a region allocated by the u-dma-buf kernel module.
// The module reserves the memory at load time and publishes its size and
// physical address through sysfs.
type UDMABuf struct {
	name string
	dev  string
	phys uint64
	size uint64
	m    *mapping
}

// OpenUDMABuf reads the attributes of the named u-dma-buf device. The
// sysfs and devDir arguments default to DefaultSysfs and DefaultDevDir when
// empty. The returned buffer is not mapped.
func OpenUDMABuf(sysfs, devDir, name string) (*UDMABuf, error) {
	if sysfs == "" {
		sysfs = DefaultSysfs
	}
	if devDir == "" {
		devDir = DefaultDevDir
	}
	if name == "" {
		return nil, Error.New("missing device name")
	}

	dir := filepath.Join(sysfs, name)
	size, err := readAttr(dir, "size")
	if err != nil {
		return nil, err
	}
	phys, err := readAttr(dir, "phys_addr")
	if err != nil {
		return nil, err
	}

	return &UDMABuf{
		name: name,
		dev:  filepath.Join(devDir, name),
		phys: phys,
		size: size,
	}, nil
}

// readAttr parses a numeric sysfs attribute. Both decimal and 0x prefixed
// hexadecimal values are accepted.
func readAttr(dir, attr string) (uint64, error) {
	data, err := os.ReadFile(filepath.Join(dir, attr))
	if err != nil {
		return 0, Error.Wrap(err)
	}
	val, err := strconv.ParseUint(strings.TrimSpace(string(data)), 0, 64)
	if err != nil {
		return 0, Error.New("parse %s/%s: %v", dir, attr, err)
	}
	return val, nil
}

// Name returns the device name.
func (u *UDMABuf) Name() string { return u.name }

// Map maps the device's memory.
func (u *UDMABuf) Map() error {
	if u.m != nil {
		return nil
	}
	m, err := mapDevice(u.dev, 0, u.size)
	if err != nil {
		return Error.New("map %s: %v", u.dev, err)
	}
	u.m = m
	return nil
}

// Size returns the capacity published by the module.
func (u *UDMABuf) Size() uint64 { return u.size }

// PhysAddr returns the physical address published by the module.
func (u *UDMABuf) PhysAddr() uint64 { return u.phys }

// Bytes returns the mapped region, or nil if it is not mapped.
func (u *UDMABuf) Bytes() []byte {
	if u.m == nil {
		return nil
	}
	return u.m.data
}

// Close unmaps the region. It is safe to call more than once.
func (u *UDMABuf) Close() error {
	m := u.m
	u.m = nil
	return Error.Wrap(m.unmap())
}
