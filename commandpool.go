package sigill

import (
	vk "github.com/vulkan-go/vulkan"
)

// CommandPool allocates command buffers for one queue family. Pools are
// created with individual-buffer reset so frame slots can re-record their
// buffer without resetting the pool.
type CommandPool struct {
	Device        *Device
	FamilyIndex   uint32
	VKCommandPool vk.CommandPool
}

// CreateCommandPool creates a command pool for the given queue family.
func (d *Device) CreateCommandPool(familyIndex uint32) (*CommandPool, error) {
	commandPoolCreateInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
		QueueFamilyIndex: familyIndex,
	}

	var commandPool vk.CommandPool
	res := vk.CreateCommandPool(d.VKDevice, &commandPoolCreateInfo, nil, &commandPool)
	if res != vk.Success {
		return nil, apiError("vkCreateCommandPool", res)
	}

	return &CommandPool{Device: d, FamilyIndex: familyIndex, VKCommandPool: commandPool}, nil
}

func (c *CommandPool) Destroy() {
	vk.DestroyCommandPool(c.Device.VKDevice, c.VKCommandPool, nil)
}

// AllocateBuffers allocates count primary command buffers from the pool.
func (c *CommandPool) AllocateBuffers(count int) ([]*CommandBuffer, error) {
	commandBufferAllocateInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        c.VKCommandPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(count),
	}

	cmdBuffers := make([]vk.CommandBuffer, count)
	res := vk.AllocateCommandBuffers(c.Device.VKDevice, &commandBufferAllocateInfo, cmdBuffers)
	if res != vk.Success {
		return nil, apiError("vkAllocateCommandBuffers", res)
	}

	ret := make([]*CommandBuffer, count)
	for i := range ret {
		ret[i] = &CommandBuffer{VKCommandBuffer: cmdBuffers[i]}
	}
	return ret, nil
}

// AllocateBuffer allocates a single primary command buffer from the pool.
func (c *CommandPool) AllocateBuffer() (*CommandBuffer, error) {
	ret, err := c.AllocateBuffers(1)
	if err != nil {
		return nil, err
	}
	return ret[0], nil
}

func (c *CommandPool) FreeBuffer(b *CommandBuffer) {
	vk.FreeCommandBuffers(c.Device.VKDevice, c.VKCommandPool, 1, []vk.CommandBuffer{b.VKCommandBuffer})
}
