package sigill

import (
	"time"

	vk "github.com/vulkan-go/vulkan"
)

// FrameCount is the number of frame slots cycled by the FrameRing. Two slots
// allow one frame to be recorded while the previous is still executing.
const FrameCount = 2

// FenceTimeout bounds how long we wait for a frame slot's render fence.
// Expiry is fatal, not silently ignored.
const FenceTimeout = 1 * time.Second

// AcquireTimeout bounds swapchain image acquisition.
const AcquireTimeout = 1 * time.Second

// DefaultAPIVersion is the minimum Vulkan API version required of a device.
var DefaultAPIVersion = Version{Major: 1, Minor: 1, Patch: 0}

// RequiredQueueFlags are the queue capabilities every suitable device must
// expose across some combination of its queue families. Each element holds a
// single flag so that it can key one entry of the QueueFamilyMap; combine
// flags in one element only when a single family should serve several roles
// under one lookup key.
var RequiredQueueFlags = []vk.QueueFlags{
	vk.QueueFlags(vk.QueueGraphicsBit),
}

// RequiredDeviceExtensions must all be present on a suitable device.
var RequiredDeviceExtensions = []string{
	"VK_KHR_swapchain",
}

// PreferredPresentMode is requested first during swapchain creation; FIFO is
// the mandatory fallback every implementation provides.
const PreferredPresentMode = vk.PresentModeMailbox

// PreferredSurfaceFormat and PreferredColorSpace form the surface format pair
// requested first during swapchain creation.
const (
	PreferredSurfaceFormat = vk.FormatB8g8r8a8Srgb
	PreferredColorSpace    = vk.ColorSpaceSrgbNonlinear
)

// RenderTargetFormat is the format of the off-screen draw target.
const RenderTargetFormat = vk.FormatR16g16b16a16Sfloat
