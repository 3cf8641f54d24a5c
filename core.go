package sigill

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	vk "github.com/vulkan-go/vulkan"
)

// Core ties the whole renderer together: the application config, the
// instance, the object registry holding everything created after the
// instance, and the per-frame loop. One Core exists per process run.
type Core struct {
	App      *App
	Window   Window
	Instance *Instance
	Registry *ObjectRegistry

	PhysicalDevice *PhysicalDevice
	FamilyMap      *QueueFamilyMap
	Queues         *QueueSet

	frameNumber uint64
}

// NewCore creates an uninitialized Core for the given app config and window.
func NewCore(app *App, window Window) *Core {
	return &Core{
		App:      app,
		Window:   window,
		Registry: NewObjectRegistry(),
	}
}

// Init brings up the full rendering stack: instance, debug messenger,
// surface, device selection, queue assignment, logical device, swapchain,
// render target and frame ring. Every destructible object lands in the
// registry under its kind so teardown is a single ordered sweep.
func (c *Core) Init() error {
	c.App.EnabledExtensions = append(c.App.EnabledExtensions, c.Window.RequiredExtensions()...)

	instance, err := c.App.CreateInstance()
	if err != nil {
		return err
	}
	c.Instance = instance

	if messenger, err := instance.CreateDebugMessenger(); err == nil {
		c.Registry.Set(KindDebugMessenger, messenger)
	} else {
		slog.Warn("debug messenger unavailable", "err", err)
	}

	vkSurface, err := c.Window.CreateSurface(instance)
	if err != nil {
		return fmt.Errorf("creating surface: %w", err)
	}
	c.Registry.Set(KindSurface, &Surface{Instance: instance, VKSurface: vkSurface})

	physicalDevice, support, err := FindSuitableDevice(instance, c.App, vkSurface)
	if err != nil {
		return err
	}
	c.PhysicalDevice = physicalDevice
	slog.Info("selected device", "name", physicalDevice.DeviceName)

	families, err := physicalDevice.QueueFamilies()
	if err != nil {
		return err
	}
	c.FamilyMap = BuildQueueFamilyMap(families, c.App.RequiredQueueFlags)

	c.Queues, err = NewQueueSet(c.FamilyMap)
	if err != nil {
		return err
	}
	err = c.Queues.QueryPresentQueue(c.FamilyMap, func(familyIndex uint32) (bool, error) {
		var supported vk.Bool32
		res := vk.GetPhysicalDeviceSurfaceSupport(physicalDevice.VKPhysicalDevice, familyIndex, vkSurface, &supported)
		if res != vk.Success {
			return false, apiError("vkGetPhysicalDeviceSurfaceSupportKHR", res)
		}
		return supported == vk.True, nil
	})
	if err != nil {
		return err
	}

	device, err := physicalDevice.CreateDevice(c.Queues.QueueCreateInfos(c.FamilyMap), &CreateDeviceOptions{
		EnabledExtensions: c.App.RequiredDeviceExtensions,
	})
	if err != nil {
		return err
	}
	c.Registry.Set(KindDevice, device)
	c.Queues.PopulateHandles(device)

	if err := c.createPresentables(device, support); err != nil {
		return err
	}

	ring, err := NewFrameRing(device, c.Queues.Graphics().Info.FamilyIndex)
	if err != nil {
		return err
	}
	c.Registry.Set(KindFrameRing, ring)

	return nil
}

// retireSwapchain destroys the previous swapchain, if any, taking it out of
// the registry first. It must run before a replacement swapchain is created:
// the surface may not be associated with a second live swapchain unless that
// one is passed as OldSwapchain. The device must already be idle.
func retireSwapchain(r *ObjectRegistry) {
	if prev := r.Remove(KindSwapchain); prev != nil {
		prev.Destroy()
	}
}

// createPresentables builds the swapchain and the off-screen render target
// sized to it, replacing any previous registry entries.
func (c *Core) createPresentables(device *Device, support *SurfaceSupport) error {
	width, height := c.Window.FramebufferSize()
	plan := PlanSwapchain(support, c.App.PreferredPresentMode, width, height,
		c.Queues.Graphics().Info.FamilyIndex, c.Queues.Present().Info.FamilyIndex)

	retireSwapchain(c.Registry)
	swapchain, err := device.CreateSwapchain(c.SurfaceHandle(), plan, func(d *Device, image vk.Image, format vk.Format) (vk.ImageView, error) {
		img := &Image{Device: d, VKImage: image, VKFormat: format}
		return img.CreateImageView()
	})
	if err != nil {
		return err
	}
	c.Registry.Set(KindSwapchain, swapchain)

	target, err := device.CreateRenderTarget(plan.Extent)
	if err != nil {
		return err
	}
	c.Registry.Set(KindRenderTarget, target)

	return nil
}

// Device returns the logical device from the registry.
func (c *Core) Device() *Device {
	return MustGet[*Device](c.Registry, KindDevice)
}

// Swapchain returns the live swapchain from the registry.
func (c *Core) Swapchain() *Swapchain {
	return MustGet[*Swapchain](c.Registry, KindSwapchain)
}

// RenderTarget returns the off-screen draw target from the registry.
func (c *Core) RenderTarget() *RenderTarget {
	return MustGet[*RenderTarget](c.Registry, KindRenderTarget)
}

// Ring returns the frame synchronization ring from the registry.
func (c *Core) Ring() *FrameRing {
	return MustGet[*FrameRing](c.Registry, KindFrameRing)
}

// SurfaceHandle returns the native surface handle from the registry.
func (c *Core) SurfaceHandle() vk.Surface {
	return MustGet[*Surface](c.Registry, KindSurface).VKSurface
}

// FrameNumber returns the number of frames drawn so far.
func (c *Core) FrameNumber() uint64 {
	return c.frameNumber
}

// LoadShader loads a SPIR-V module from path and stores it in the registry
// under KindShader, replacing (and destroying) any previous module.
func (c *Core) LoadShader(path string) (*ShaderModule, error) {
	module, err := c.Device().LoadShaderModule(path)
	if err != nil {
		return nil, err
	}
	c.Registry.Set(KindShader, module)
	return module, nil
}

// clearColor derives the frame's clear color from the frame counter: a slow
// blue pulse, enough to show the loop is alive.
func (c *Core) clearColor() [4]float32 {
	flash := float32(math.Abs(math.Sin(float64(c.frameNumber) / 120.0)))
	return [4]float32{0, 0, flash, 1}
}

// DrawFrame renders and presents one frame: wait for the slot's previous
// submission, acquire a swapchain image, record clear-and-blit work into the
// slot's command buffer, submit gated on the acquire semaphore, present
// gated on the render semaphore, then advance the ring. An out-of-date
// swapchain is recreated in place and the frame retried once.
func (c *Core) DrawFrame() error {
	device := c.Device()
	ring := c.Ring()
	slot := ring.Current()

	if err := slot.WaitForRender(); err != nil {
		return err
	}

	imageIndex, err := c.Swapchain().AcquireNextImage(AcquireTimeout, slot.AcquireSem)
	if errors.Is(err, ErrOutOfDate) {
		if err := c.Resize(); err != nil {
			return err
		}
		// Resize rebuilt the ring; the retry must use the fresh slot.
		slot = ring.Current()
		imageIndex, err = c.Swapchain().AcquireNextImage(AcquireTimeout, slot.AcquireSem)
	}
	if err != nil {
		return err
	}

	// Reset only after a successful acquire; resetting earlier could leave
	// the slot with no pending signal to wait on next time around.
	if err := device.ResetFence(slot.RenderFence); err != nil {
		return err
	}

	if err := slot.Buffer.Reset(); err != nil {
		return err
	}
	if err := slot.Buffer.BeginOneTime(); err != nil {
		return err
	}

	target := c.RenderTarget()
	swapchain := c.Swapchain()
	swapImage := swapchain.Images[imageIndex]

	slot.Buffer.CmdTransitionImage(target.Image.VKImage, vk.ImageLayoutUndefined, vk.ImageLayoutGeneral)
	slot.Buffer.CmdClearColorImage(target.Image.VKImage, vk.ImageLayoutGeneral, c.clearColor())
	slot.Buffer.CmdTransitionImage(target.Image.VKImage, vk.ImageLayoutGeneral, vk.ImageLayoutTransferSrcOptimal)

	slot.Buffer.CmdTransitionImage(swapImage, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal)
	slot.Buffer.CmdBlitImage(target.Image.VKImage, target.Extent, swapImage, swapchain.Extent)
	slot.Buffer.CmdTransitionImage(swapImage, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutPresentSrc)

	if err := slot.Buffer.End(); err != nil {
		return err
	}

	err = c.Queues.Graphics().Submit(slot.Buffer.VK(),
		slot.AcquireSem, vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		slot.RenderSem, slot.RenderFence)
	if err != nil {
		return err
	}

	err = swapchain.Present(c.Queues.Present(), imageIndex, slot.RenderSem)
	if errors.Is(err, ErrOutOfDate) {
		if err := c.Resize(); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	c.frameNumber++
	ring.Advance()
	return nil
}

// Resize waits for the device to go idle, re-queries surface support and
// rebuilds the swapchain and render target at the current framebuffer size.
func (c *Core) Resize() error {
	device := c.Device()
	if err := device.WaitIdle(); err != nil {
		return err
	}

	support, err := QuerySurfaceSupport(c.PhysicalDevice, c.SurfaceHandle())
	if err != nil {
		return err
	}
	if err := c.createPresentables(device, support); err != nil {
		return err
	}
	return c.Ring().Flush()
}

// Destroy waits for the device to go idle, then destroys every registered
// object in kind order and finally the instance.
func (c *Core) Destroy() {
	if c.Registry.Has(KindDevice) {
		if err := c.Device().WaitIdle(); err != nil {
			slog.Error("device wait before teardown failed", "err", err)
		}
	}
	c.Registry.DestroyAll()
	if c.Instance != nil {
		c.Instance.Destroy()
		c.Instance = nil
	}
}
