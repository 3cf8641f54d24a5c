package sigill

import (
	vk "github.com/vulkan-go/vulkan"
)

// SurfaceCapabilities is a plain snapshot of the surface capabilities for a
// device+surface pair.
type SurfaceCapabilities struct {
	MinImageCount    uint32
	MaxImageCount    uint32
	CurrentExtent    vk.Extent2D
	MinImageExtent   vk.Extent2D
	MaxImageExtent   vk.Extent2D
	CurrentTransform vk.SurfaceTransformFlagBits
}

// SurfaceSupport captures everything swapchain creation needs to know about
// a device+surface pair. It is immutable once queried; re-query it whenever
// the surface or device changes (e.g. on resize).
type SurfaceSupport struct {
	Capabilities SurfaceCapabilities
	Formats      []vk.SurfaceFormat
	PresentModes []vk.PresentMode
}

// QuerySurfaceSupport takes the capability snapshot for the given device and
// surface. Queried structures are dereferenced into plain values so the
// snapshot can be inspected without further native calls.
func QuerySurfaceSupport(p *PhysicalDevice, surface vk.Surface) (*SurfaceSupport, error) {
	var caps vk.SurfaceCapabilities
	err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(p.VKPhysicalDevice, surface, &caps))
	if err != nil {
		return nil, err
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()

	var formatCount uint32
	err = vk.Error(vk.GetPhysicalDeviceSurfaceFormats(p.VKPhysicalDevice, surface, &formatCount, nil))
	if err != nil {
		return nil, err
	}
	formats := make([]vk.SurfaceFormat, formatCount)
	err = vk.Error(vk.GetPhysicalDeviceSurfaceFormats(p.VKPhysicalDevice, surface, &formatCount, formats))
	if err != nil {
		return nil, err
	}
	for i := range formats {
		formats[i].Deref()
	}

	var modeCount uint32
	err = vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(p.VKPhysicalDevice, surface, &modeCount, nil))
	if err != nil {
		return nil, err
	}
	modes := make([]vk.PresentMode, modeCount)
	err = vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(p.VKPhysicalDevice, surface, &modeCount, modes))
	if err != nil {
		return nil, err
	}

	return &SurfaceSupport{
		Capabilities: SurfaceCapabilities{
			MinImageCount:    caps.MinImageCount,
			MaxImageCount:    caps.MaxImageCount,
			CurrentExtent:    caps.CurrentExtent,
			MinImageExtent:   caps.MinImageExtent,
			MaxImageExtent:   caps.MaxImageExtent,
			CurrentTransform: caps.CurrentTransform,
		},
		Formats:      formats,
		PresentModes: modes,
	}, nil
}

// Adequate reports whether the surface exposes at least one format and one
// present mode. Devices with an inadequate surface cannot present and are
// excluded during selection.
func (s *SurfaceSupport) Adequate() bool {
	return len(s.Formats) > 0 && len(s.PresentModes) > 0
}

// SelectFormat returns the preferred 8-bit sRGB format/colorspace pair when
// the surface offers it, otherwise the first available format.
func (s *SurfaceSupport) SelectFormat() vk.SurfaceFormat {
	for _, format := range s.Formats {
		if format.Format == PreferredSurfaceFormat && format.ColorSpace == PreferredColorSpace {
			return format
		}
	}
	return s.Formats[0]
}

// SelectPresentMode returns preferred when the surface supports it, else
// FIFO, the mode every implementation must provide.
func (s *SurfaceSupport) SelectPresentMode(preferred vk.PresentMode) vk.PresentMode {
	for _, mode := range s.PresentModes {
		if mode == preferred {
			return preferred
		}
	}
	return vk.PresentModeFifo
}

// SelectExtent clamps the requested window size into the extent range the
// surface permits, per dimension.
func (s *SurfaceSupport) SelectExtent(width, height uint32) vk.Extent2D {
	return vk.Extent2D{
		Width:  clamp(width, s.Capabilities.MinImageExtent.Width, s.Capabilities.MaxImageExtent.Width),
		Height: clamp(height, s.Capabilities.MinImageExtent.Height, s.Capabilities.MaxImageExtent.Height),
	}
}

func clamp(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
