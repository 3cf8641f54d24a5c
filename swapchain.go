package sigill

import (
	"time"

	vk "github.com/vulkan-go/vulkan"
)

// SwapchainPlan is the resolved configuration for a swapchain, computed from
// a surface capability snapshot before any native object is created.
type SwapchainPlan struct {
	Format        vk.SurfaceFormat
	PresentMode   vk.PresentMode
	Extent        vk.Extent2D
	ImageCount    uint32
	SharingMode   vk.SharingMode
	FamilyIndices []uint32
	PreTransform  vk.SurfaceTransformFlagBits
}

// PlanSwapchain resolves the swapchain configuration: preferred format and
// present mode with fallbacks, the window size clamped to the supported
// extent range, and the minimum image count the surface allows. When graphics
// and present live in different families the images are shared concurrently
// between the two; a single family keeps exclusive ownership.
func PlanSwapchain(support *SurfaceSupport, preferredMode vk.PresentMode, width, height uint32, graphicsFamily, presentFamily uint32) SwapchainPlan {
	plan := SwapchainPlan{
		Format:       support.SelectFormat(),
		PresentMode:  support.SelectPresentMode(preferredMode),
		Extent:       support.SelectExtent(width, height),
		ImageCount:   support.Capabilities.MinImageCount,
		PreTransform: support.Capabilities.CurrentTransform,
	}
	if graphicsFamily != presentFamily {
		plan.SharingMode = vk.SharingModeConcurrent
		plan.FamilyIndices = []uint32{graphicsFamily, presentFamily}
	} else {
		plan.SharingMode = vk.SharingModeExclusive
	}
	return plan
}

// ImageViewProvider constructs a view for a swapchain image. Swapchain
// creation takes it as a callback so the view configuration stays with the
// renderer rather than the swapchain.
type ImageViewProvider func(d *Device, image vk.Image, format vk.Format) (vk.ImageView, error)

// Swapchain owns the native swapchain plus its images and views. The images
// belong to the presentation engine; only the views are destroyed with the
// swapchain.
type Swapchain struct {
	Device      *Device
	VKSwapchain vk.Swapchain
	Images      []vk.Image
	ImageViews  []vk.ImageView
	Format      vk.Format
	Extent      vk.Extent2D
}

// CreateSwapchain creates a swapchain per the plan, retrieves its images and
// builds a view for each through viewProvider.
func (d *Device) CreateSwapchain(surface vk.Surface, plan SwapchainPlan, viewProvider ImageViewProvider) (*Swapchain, error) {
	createInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surface,
		MinImageCount:    plan.ImageCount,
		ImageFormat:      plan.Format.Format,
		ImageColorSpace:  plan.Format.ColorSpace,
		ImageExtent:      plan.Extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit | vk.ImageUsageTransferDstBit),
		ImageSharingMode: plan.SharingMode,
		PreTransform:     plan.PreTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      plan.PresentMode,
		Clipped:          vk.True,
		OldSwapchain:     vk.NullSwapchain,
	}
	if plan.SharingMode == vk.SharingModeConcurrent {
		createInfo.QueueFamilyIndexCount = uint32(len(plan.FamilyIndices))
		createInfo.PQueueFamilyIndices = plan.FamilyIndices
	}

	var swapchain vk.Swapchain
	res := vk.CreateSwapchain(d.VKDevice, &createInfo, nil, &swapchain)
	if res != vk.Success {
		return nil, apiError("vkCreateSwapchainKHR", res)
	}

	s := &Swapchain{
		Device:      d,
		VKSwapchain: swapchain,
		Format:      plan.Format.Format,
		Extent:      plan.Extent,
	}

	if err := s.retrieveImages(); err != nil {
		s.Destroy()
		return nil, err
	}

	s.ImageViews = make([]vk.ImageView, 0, len(s.Images))
	for _, image := range s.Images {
		view, err := viewProvider(d, image, s.Format)
		if err != nil {
			s.Destroy()
			return nil, err
		}
		s.ImageViews = append(s.ImageViews, view)
	}

	return s, nil
}

func (s *Swapchain) retrieveImages() error {
	var imageCount uint32
	res := vk.GetSwapchainImages(s.Device.VKDevice, s.VKSwapchain, &imageCount, nil)
	if res != vk.Success {
		return apiError("vkGetSwapchainImagesKHR", res)
	}

	images := make([]vk.Image, imageCount)
	res = vk.GetSwapchainImages(s.Device.VKDevice, s.VKSwapchain, &imageCount, images)
	if res != vk.Success {
		return apiError("vkGetSwapchainImagesKHR", res)
	}

	s.Images = images
	return nil
}

// AcquireNextImage acquires the next presentable image, signalling semaphore
// once it is ready. An out-of-date swapchain surfaces as ErrOutOfDate so the
// caller can recreate and retry; a suboptimal swapchain still presents
// correctly and is treated as success.
func (s *Swapchain) AcquireNextImage(timeout time.Duration, semaphore vk.Semaphore) (uint32, error) {
	var imageIndex uint32
	res := vk.AcquireNextImage(s.Device.VKDevice, s.VKSwapchain, uint64(timeout.Nanoseconds()), semaphore, vk.NullFence, &imageIndex)
	switch res {
	case vk.Success, vk.Suboptimal:
		return imageIndex, nil
	case vk.ErrorOutOfDate:
		return 0, ErrOutOfDate
	case vk.Timeout, vk.NotReady:
		return 0, ErrAcquireTimeout
	}
	return 0, apiError("vkAcquireNextImageKHR", res)
}

// Present queues the image for presentation once waitSemaphore signals. Both
// an out-of-date and a suboptimal result map to ErrOutOfDate: presentation
// already happened in the suboptimal case, but the swapchain no longer
// matches the surface and should be recreated before the next frame.
func (s *Swapchain) Present(queue *Queue, imageIndex uint32, waitSemaphore vk.Semaphore) error {
	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{waitSemaphore},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{s.VKSwapchain},
		PImageIndices:      []uint32{imageIndex},
	}

	res := vk.QueuePresent(queue.Handle(), &presentInfo)
	switch res {
	case vk.Success:
		return nil
	case vk.ErrorOutOfDate, vk.Suboptimal:
		return ErrOutOfDate
	}
	return apiError("vkQueuePresentKHR", res)
}

// Destroy destroys the image views and the swapchain. The device must be
// idle.
func (s *Swapchain) Destroy() {
	for _, view := range s.ImageViews {
		vk.DestroyImageView(s.Device.VKDevice, view, nil)
	}
	s.ImageViews = nil
	vk.DestroySwapchain(s.Device.VKDevice, s.VKSwapchain, nil)
}
