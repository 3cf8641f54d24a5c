package sigill

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// Image wraps a native image together with its format.
type Image struct {
	Device   *Device
	VKImage  vk.Image
	VKFormat vk.Format
}

func (i *Image) Destroy() {
	vk.DestroyImage(i.Device.VKDevice, i.VKImage, nil)
}

// GetMemoryRequirements queries the size, alignment and memory type bits the
// image needs.
func (i *Image) GetMemoryRequirements() vk.MemoryRequirements {
	var memRequirements vk.MemoryRequirements
	vk.GetImageMemoryRequirements(i.Device.VKDevice, i.VKImage, &memRequirements)
	memRequirements.Deref()
	return memRequirements
}

// CreateImage creates a 2D single-mip optimally-tiled image with no memory
// bound yet.
func (d *Device) CreateImage(extent vk.Extent2D, format vk.Format, usage vk.ImageUsageFlags) (*Image, error) {
	imageInfo := vk.ImageCreateInfo{
		SType:         vk.StructureTypeImageCreateInfo,
		ImageType:     vk.ImageType2d,
		Format:        format,
		Extent:        vk.Extent3D{Width: extent.Width, Height: extent.Height, Depth: 1},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       vk.SampleCount1Bit,
		Tiling:        vk.ImageTilingOptimal,
		Usage:         usage,
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}

	var image vk.Image
	res := vk.CreateImage(d.VKDevice, &imageInfo, nil, &image)
	if res != vk.Success {
		return nil, apiError("vkCreateImage", res)
	}

	return &Image{Device: d, VKImage: image, VKFormat: format}, nil
}

// CreateImageView creates a 2D color view over the whole image.
func (i *Image) CreateImageView() (vk.ImageView, error) {
	createInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    i.VKImage,
		ViewType: vk.ImageViewType2d,
		Format:   i.VKFormat,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}

	var view vk.ImageView
	res := vk.CreateImageView(i.Device.VKDevice, &createInfo, nil, &view)
	if res != vk.Success {
		return vk.NullImageView, apiError("vkCreateImageView", res)
	}
	return view, nil
}

// RenderTarget is the off-screen image every frame draws into before the
// result is blitted to a swapchain image. It keeps a high-precision float
// format regardless of what the surface supports, backed by its own
// device-local memory pool.
type RenderTarget struct {
	Device     *Device
	Image      *Image
	View       vk.ImageView
	Extent     vk.Extent2D
	Memory     *DeviceMemory
	Pool       *PoolAllocator
	Allocation *Allocation
}

// CreateRenderTarget creates the draw image at the given extent, allocates
// device-local memory sized to its requirements, binds it through a pool
// allocation and builds a color view.
func (d *Device) CreateRenderTarget(extent vk.Extent2D) (*RenderTarget, error) {
	usage := vk.ImageUsageFlags(vk.ImageUsageTransferSrcBit |
		vk.ImageUsageTransferDstBit |
		vk.ImageUsageStorageBit |
		vk.ImageUsageColorAttachmentBit)

	image, err := d.CreateImage(extent, RenderTargetFormat, usage)
	if err != nil {
		return nil, err
	}

	requirements := image.GetMemoryRequirements()

	memory, err := d.Allocate(uint64(requirements.Size), requirements.MemoryTypeBits,
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		image.Destroy()
		return nil, err
	}

	pool := &PoolAllocator{Size: memory.Size}
	allocation := pool.Allocate(uint64(requirements.Size), uint64(requirements.Alignment))
	if allocation == nil {
		memory.Destroy()
		image.Destroy()
		return nil, fmt.Errorf("render target pool of %d bytes cannot fit image of %d bytes", pool.Size, requirements.Size)
	}

	res := vk.BindImageMemory(d.VKDevice, image.VKImage, memory.VKDeviceMemory, vk.DeviceSize(allocation.Offset))
	if res != vk.Success {
		pool.Free(allocation)
		memory.Destroy()
		image.Destroy()
		return nil, apiError("vkBindImageMemory", res)
	}

	view, err := image.CreateImageView()
	if err != nil {
		pool.Free(allocation)
		memory.Destroy()
		image.Destroy()
		return nil, err
	}

	return &RenderTarget{
		Device:     d,
		Image:      image,
		View:       view,
		Extent:     extent,
		Memory:     memory,
		Pool:       pool,
		Allocation: allocation,
	}, nil
}

// Destroy tears down the view, the image, then the backing memory.
func (t *RenderTarget) Destroy() {
	vk.DestroyImageView(t.Device.VKDevice, t.View, nil)
	t.Image.Destroy()
	t.Pool.Free(t.Allocation)
	t.Memory.Destroy()
}
