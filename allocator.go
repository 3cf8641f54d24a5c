package sigill

import (
	"fmt"
)

// Allocation is a sub-range of a memory pool.
type Allocation struct {
	Offset uint64
	Size   uint64
}

func (a *Allocation) String() string {
	return fmt.Sprintf("[%d %d]", a.Offset, a.Size)
}

// PoolAllocator hands out aligned sub-ranges of a fixed-size pool using a
// first-fit scan over the live allocations, which are kept sorted by offset.
type PoolAllocator struct {
	Size   uint64
	allocs []*Allocation
}

func alignUp(a uint64, align uint64) uint64 {
	m := a % align
	if m == 0 {
		return a
	}
	return (a - m) + align
}

// Allocate reserves size bytes at an offset aligned to align. It returns nil
// when no gap in the pool is large enough.
func (p *PoolAllocator) Allocate(size uint64, align uint64) *Allocation {
	if align == 0 {
		align = 1
	}

	offset := uint64(0)
	for i, a := range p.allocs {
		if a.Offset >= offset+size {
			na := &Allocation{Offset: offset, Size: size}
			p.allocs = append(p.allocs[:i], append([]*Allocation{na}, p.allocs[i:]...)...)
			return na
		}
		offset = alignUp(a.Offset+a.Size, align)
	}

	if p.Size >= offset && p.Size-offset >= size {
		na := &Allocation{Offset: offset, Size: size}
		p.allocs = append(p.allocs, na)
		return na
	}
	return nil
}

// Free releases an allocation previously returned by Allocate.
func (p *PoolAllocator) Free(fa *Allocation) {
	for i, a := range p.allocs {
		if a == fa {
			p.allocs = append(p.allocs[:i], p.allocs[i+1:]...)
			return
		}
	}
}

func (p *PoolAllocator) String() string {
	return fmt.Sprintf("%v", p.allocs)
}
