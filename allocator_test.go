package sigill

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolAllocatorSequential(t *testing.T) {
	p := &PoolAllocator{Size: 100}

	a := p.Allocate(30, 1)
	assert.NotNil(t, a)
	assert.Equal(t, uint64(0), a.Offset)

	b := p.Allocate(30, 1)
	assert.NotNil(t, b)
	assert.Equal(t, uint64(30), b.Offset)
}

func TestPoolAllocatorAlignment(t *testing.T) {
	p := &PoolAllocator{Size: 256}

	a := p.Allocate(10, 1)
	assert.NotNil(t, a)

	b := p.Allocate(10, 64)
	assert.NotNil(t, b)
	assert.Equal(t, uint64(64), b.Offset, "the second allocation starts at the next aligned offset")
}

func TestPoolAllocatorExhaustion(t *testing.T) {
	p := &PoolAllocator{Size: 64}

	a := p.Allocate(64, 1)
	assert.NotNil(t, a)
	assert.Nil(t, p.Allocate(1, 1))
}

func TestPoolAllocatorTooLarge(t *testing.T) {
	p := &PoolAllocator{Size: 16}
	assert.Nil(t, p.Allocate(32, 1))
}

func TestPoolAllocatorFreeAndReuse(t *testing.T) {
	p := &PoolAllocator{Size: 90}

	a := p.Allocate(30, 1)
	b := p.Allocate(30, 1)
	c := p.Allocate(30, 1)
	assert.NotNil(t, a)
	assert.NotNil(t, b)
	assert.NotNil(t, c)

	p.Free(b)

	d := p.Allocate(20, 1)
	assert.NotNil(t, d)
	assert.Equal(t, uint64(30), d.Offset, "a freed gap is reused first-fit")
}

func TestPoolAllocatorFreeUnknownIsNoop(t *testing.T) {
	p := &PoolAllocator{Size: 64}
	a := p.Allocate(16, 1)
	assert.NotNil(t, a)

	p.Free(&Allocation{Offset: 0, Size: 16})

	b := p.Allocate(48, 1)
	assert.NotNil(t, b)
	assert.Equal(t, uint64(16), b.Offset, "freeing an allocation the pool never issued changes nothing")
}
