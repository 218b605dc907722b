package contig

// DevMem is a Buffer for a region of physical memory reached through a
// memory device such as /dev/mem. The region is typically carved out of the
// kernel's view of RAM with a memmap= boot parameter.
type DevMem struct {
	path string
	phys uint64
	size uint64
	m    *mapping
}

// NewDevMem returns an unmapped buffer for the size bytes starting at the
// physical address phys of the device at path.
func NewDevMem(path string, phys, size uint64) *DevMem {
	return &DevMem{path: path, phys: phys, size: size}
}

// Map maps the region with shared, synchronous access.
func (d *DevMem) Map() error {
	if d.m != nil {
		return nil
	}
	m, err := mapDevice(d.path, d.phys, d.size)
	if err != nil {
		return Error.New("map %s at 0x%X: %v", d.path, d.phys, err)
	}
	d.m = m
	return nil
}

// Size returns the capacity of the region.
func (d *DevMem) Size() uint64 { return d.size }

// PhysAddr returns the physical base address of the region.
func (d *DevMem) PhysAddr() uint64 { return d.phys }

// Bytes returns the mapped region, or nil if it is not mapped.
func (d *DevMem) Bytes() []byte {
	if d.m == nil {
		return nil
	}
	return d.m.data
}

// Close unmaps the region. It is safe to call more than once.
func (d *DevMem) Close() error {
	m := d.m
	d.m = nil
	return Error.Wrap(m.unmap())
}
