package sigill

import (
	vk "github.com/vulkan-go/vulkan"
)

// CommandBuffer wraps a native command buffer and the recording commands the
// frame loop needs. Anything not wrapped here can be recorded through the
// native handle via VK().
type CommandBuffer struct {
	VKCommandBuffer vk.CommandBuffer
}

// VK returns the native command buffer handle.
func (c *CommandBuffer) VK() vk.CommandBuffer {
	return c.VKCommandBuffer
}

// Reset returns the buffer to the initial state so it can be re-recorded.
func (c *CommandBuffer) Reset() error {
	res := vk.ResetCommandBuffer(c.VKCommandBuffer, 0)
	if res != vk.Success {
		return apiError("vkResetCommandBuffer", res)
	}
	return nil
}

// BeginOneTime begins recording for a single submission.
func (c *CommandBuffer) BeginOneTime() error {
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	res := vk.BeginCommandBuffer(c.VKCommandBuffer, &beginInfo)
	if res != vk.Success {
		return apiError("vkBeginCommandBuffer", res)
	}
	return nil
}

// End finishes recording.
func (c *CommandBuffer) End() error {
	res := vk.EndCommandBuffer(c.VKCommandBuffer)
	if res != vk.Success {
		return apiError("vkEndCommandBuffer", res)
	}
	return nil
}

// aspectForLayout picks the subresource aspect a transition applies to: depth
// when moving into a depth attachment layout, color otherwise.
func aspectForLayout(newLayout vk.ImageLayout) vk.ImageAspectFlags {
	if newLayout == vk.ImageLayoutDepthStencilAttachmentOptimal {
		return vk.ImageAspectFlags(vk.ImageAspectDepthBit)
	}
	return vk.ImageAspectFlags(vk.ImageAspectColorBit)
}

// CmdTransitionImage records a layout transition for the whole image. The
// barrier is deliberately heavyweight: it waits on all prior work and makes
// all writes visible to all subsequent access, trading pipelining for
// correctness of an arbitrary transition.
func (c *CommandBuffer) CmdTransitionImage(image vk.Image, oldLayout, newLayout vk.ImageLayout) {
	barrier := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       vk.AccessFlags(vk.AccessMemoryWriteBit),
		DstAccessMask:       vk.AccessFlags(vk.AccessMemoryWriteBit | vk.AccessMemoryReadBit),
		OldLayout:           oldLayout,
		NewLayout:           newLayout,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               image,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     aspectForLayout(newLayout),
			BaseMipLevel:   0,
			LevelCount:     vk.RemainingMipLevels,
			BaseArrayLayer: 0,
			LayerCount:     vk.RemainingArrayLayers,
		},
	}

	vk.CmdPipelineBarrier(c.VKCommandBuffer,
		vk.PipelineStageFlags(vk.PipelineStageAllCommandsBit),
		vk.PipelineStageFlags(vk.PipelineStageAllCommandsBit),
		0,
		0, nil,
		0, nil,
		1, []vk.ImageMemoryBarrier{barrier})
}

// CmdClearColorImage records a clear of the whole image to the given color.
// The image must be in a layout that permits clears, e.g. General.
func (c *CommandBuffer) CmdClearColorImage(image vk.Image, layout vk.ImageLayout, color [4]float32) {
	var clear vk.ClearValue
	clear.SetColor(color[:])
	clearColor := vk.ClearColorValue(clear)

	subresourceRange := vk.ImageSubresourceRange{
		AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
		BaseMipLevel:   0,
		LevelCount:     vk.RemainingMipLevels,
		BaseArrayLayer: 0,
		LayerCount:     vk.RemainingArrayLayers,
	}

	vk.CmdClearColorImage(c.VKCommandBuffer, image, layout, &clearColor, 1, []vk.ImageSubresourceRange{subresourceRange})
}

// CmdBlitImage records a full-extent blit from src to dst with linear
// filtering, rescaling when the extents differ. src must be in
// TransferSrcOptimal and dst in TransferDstOptimal.
func (c *CommandBuffer) CmdBlitImage(src vk.Image, srcExtent vk.Extent2D, dst vk.Image, dstExtent vk.Extent2D) {
	layers := vk.ImageSubresourceLayers{
		AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
		MipLevel:       0,
		BaseArrayLayer: 0,
		LayerCount:     1,
	}

	region := vk.ImageBlit{
		SrcSubresource: layers,
		SrcOffsets: [2]vk.Offset3D{
			{},
			{X: int32(srcExtent.Width), Y: int32(srcExtent.Height), Z: 1},
		},
		DstSubresource: layers,
		DstOffsets: [2]vk.Offset3D{
			{},
			{X: int32(dstExtent.Width), Y: int32(dstExtent.Height), Z: 1},
		},
	}

	vk.CmdBlitImage(c.VKCommandBuffer,
		src, vk.ImageLayoutTransferSrcOptimal,
		dst, vk.ImageLayoutTransferDstOptimal,
		1, []vk.ImageBlit{region},
		vk.FilterLinear)
}
