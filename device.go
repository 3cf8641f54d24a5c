package sigill

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// Device is the logical device plus the physical device it was created from.
type Device struct {
	PhysicalDevice *PhysicalDevice
	VKDevice       vk.Device
}

func (d *Device) String() string {
	return fmt.Sprintf("{ PhysicalDevice: %s }", d.PhysicalDevice)
}

// Destroy destroys the logical device. All child objects must already be
// destroyed and the device idle.
func (d *Device) Destroy() {
	vk.DestroyDevice(d.VKDevice, nil)
}

// WaitIdle blocks until every queue on the device is idle. It brackets
// teardown and swapchain recreation.
func (d *Device) WaitIdle() error {
	return vk.Error(vk.DeviceWaitIdle(d.VKDevice))
}

// Allocate allocates device memory of the given size from a memory type
// matching memoryTypeBits and the requested property flags.
func (d *Device) Allocate(sizeInBytes uint64, memoryTypeBits uint32, memoryProperties vk.MemoryPropertyFlags) (*DeviceMemory, error) {
	memoryTypeIndex, err := d.PhysicalDevice.FindMemoryType(memoryTypeBits, memoryProperties)
	if err != nil {
		return nil, err
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  vk.DeviceSize(sizeInBytes),
		MemoryTypeIndex: memoryTypeIndex,
	}

	var deviceMemory vk.DeviceMemory
	res := vk.AllocateMemory(d.VKDevice, &allocateInfo, nil, &deviceMemory)
	if res != vk.Success {
		return nil, apiError("vkAllocateMemory", res)
	}

	return &DeviceMemory{
		Device:         d,
		VKDeviceMemory: deviceMemory,
		Size:           sizeInBytes,
	}, nil
}
