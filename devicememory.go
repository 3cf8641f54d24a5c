package sigill

import (
	vk "github.com/vulkan-go/vulkan"
)

// DeviceMemory is a block of memory allocated from the device, parceled out
// to images through a PoolAllocator.
type DeviceMemory struct {
	Device         *Device
	VKDeviceMemory vk.DeviceMemory
	Size           uint64
}

// Destroy frees the memory. Nothing bound to it may be in use.
func (d *DeviceMemory) Destroy() {
	vk.FreeMemory(d.Device.VKDevice, d.VKDeviceMemory, nil)
}
