package sigill

import (
	vk "github.com/vulkan-go/vulkan"
)

// FrameSlot holds the per-frame recording and synchronization state: a
// command pool with one primary buffer, the two semaphores that order
// acquire, submit and present, and a fence that gates re-use of the slot.
type FrameSlot struct {
	Device      *Device
	Pool        *CommandPool
	Buffer      *CommandBuffer
	AcquireSem  vk.Semaphore
	RenderSem   vk.Semaphore
	RenderFence vk.Fence
}

// NewFrameSlot builds one frame slot on the given queue family. The fence
// starts signaled so the first wait on the slot passes without a prior
// submission.
func NewFrameSlot(d *Device, familyIndex uint32) (*FrameSlot, error) {
	pool, err := d.CreateCommandPool(familyIndex)
	if err != nil {
		return nil, err
	}

	slot := &FrameSlot{Device: d, Pool: pool}

	cleanup := func() {
		slot.Destroy()
	}

	slot.Buffer, err = pool.AllocateBuffer()
	if err != nil {
		cleanup()
		return nil, err
	}

	slot.AcquireSem, err = d.VKCreateSemaphore()
	if err != nil {
		cleanup()
		return nil, err
	}
	slot.RenderSem, err = d.VKCreateSemaphore()
	if err != nil {
		cleanup()
		return nil, err
	}
	slot.RenderFence, err = d.VKCreateFence(true)
	if err != nil {
		cleanup()
		return nil, err
	}

	return slot, nil
}

// WaitForRender blocks until the slot's previous submission has retired.
func (s *FrameSlot) WaitForRender() error {
	return s.Device.WaitForFence(s.RenderFence, FenceTimeout)
}

// Destroy releases the slot's synchronization objects and command pool.
// Destroying the pool frees its buffer.
func (s *FrameSlot) Destroy() {
	if s.RenderFence != vk.NullFence {
		s.Device.VKDestroyFence(s.RenderFence)
		s.RenderFence = vk.NullFence
	}
	if s.RenderSem != vk.NullSemaphore {
		s.Device.VKDestroySemaphore(s.RenderSem)
		s.RenderSem = vk.NullSemaphore
	}
	if s.AcquireSem != vk.NullSemaphore {
		s.Device.VKDestroySemaphore(s.AcquireSem)
		s.AcquireSem = vk.NullSemaphore
	}
	if s.Pool != nil {
		s.Pool.Destroy()
		s.Pool = nil
		s.Buffer = nil
	}
}

// FrameRing cycles through a fixed set of frame slots so the CPU can record
// frame N+1 while the GPU executes frame N.
type FrameRing struct {
	device      *Device
	familyIndex uint32
	slots       []*FrameSlot
	index       int
}

// NewFrameRing builds a ring of FrameCount slots on the given queue family.
func NewFrameRing(d *Device, familyIndex uint32) (*FrameRing, error) {
	ring := &FrameRing{
		device:      d,
		familyIndex: familyIndex,
		slots:       make([]*FrameSlot, 0, FrameCount),
	}
	for i := 0; i < FrameCount; i++ {
		slot, err := NewFrameSlot(d, familyIndex)
		if err != nil {
			ring.Destroy()
			return nil, err
		}
		ring.slots = append(ring.slots, slot)
	}
	return ring, nil
}

// Current returns the slot for the frame being recorded.
func (r *FrameRing) Current() *FrameSlot {
	return r.slots[r.index]
}

// Advance moves to the next slot, wrapping around the ring.
func (r *FrameRing) Advance() {
	r.index = (r.index + 1) % len(r.slots)
}

// Flush waits out every slot's in-flight work and rebuilds it from scratch,
// discarding recorded commands and recycling the sync primitives. It runs
// after swapchain recreation, when the ring's pending state refers to images
// that no longer exist. The ring cursor is preserved.
func (r *FrameRing) Flush() error {
	for i, slot := range r.slots {
		if err := slot.WaitForRender(); err != nil {
			return err
		}
		slot.Destroy()

		fresh, err := NewFrameSlot(r.device, r.familyIndex)
		if err != nil {
			return err
		}
		r.slots[i] = fresh
	}
	return nil
}

// Destroy releases every slot. In-flight work must have retired first.
func (r *FrameRing) Destroy() {
	for _, slot := range r.slots {
		slot.Destroy()
	}
	r.slots = nil
	r.index = 0
}
