package sigill

import (
	"time"

	vk "github.com/vulkan-go/vulkan"
)

// VKCreateFence creates a native fence, optionally pre-signaled. Frame fences
// start signaled so the first wait on a slot returns immediately.
func (d *Device) VKCreateFence(signaled bool) (vk.Fence, error) {
	fenceCreateInfo := frameFenceCreateInfo(signaled)

	var fence vk.Fence
	res := vk.CreateFence(d.VKDevice, &fenceCreateInfo, nil, &fence)
	if res != vk.Success {
		return vk.NullFence, apiError("vkCreateFence", res)
	}
	return fence, nil
}

func frameFenceCreateInfo(signaled bool) vk.FenceCreateInfo {
	info := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	if signaled {
		info.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	return info
}

func (d *Device) VKDestroyFence(f vk.Fence) {
	vk.DestroyFence(d.VKDevice, f, nil)
}

// WaitForFence blocks until the fence signals or the timeout elapses. A
// timeout surfaces as ErrFenceTimeout so callers can distinguish a stalled
// GPU from a real failure.
func (d *Device) WaitForFence(f vk.Fence, timeout time.Duration) error {
	res := vk.WaitForFences(d.VKDevice, 1, []vk.Fence{f}, vk.True, uint64(timeout.Nanoseconds()))
	switch res {
	case vk.Success:
		return nil
	case vk.Timeout:
		return ErrFenceTimeout
	}
	return apiError("vkWaitForFences", res)
}

// ResetFence returns the fence to the unsignaled state.
func (d *Device) ResetFence(f vk.Fence) error {
	res := vk.ResetFences(d.VKDevice, 1, []vk.Fence{f})
	if res != vk.Success {
		return apiError("vkResetFences", res)
	}
	return nil
}

// VKCreateSemaphore creates a native binary semaphore.
func (d *Device) VKCreateSemaphore() (vk.Semaphore, error) {
	semaphoreCreateInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}

	var sema vk.Semaphore
	res := vk.CreateSemaphore(d.VKDevice, &semaphoreCreateInfo, nil, &sema)
	if res != vk.Success {
		return vk.NullSemaphore, apiError("vkCreateSemaphore", res)
	}
	return sema, nil
}

func (d *Device) VKDestroySemaphore(s vk.Semaphore) {
	vk.DestroySemaphore(d.VKDevice, s, nil)
}
