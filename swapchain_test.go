package sigill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func testSupport() *SurfaceSupport {
	return &SurfaceSupport{
		Capabilities: SurfaceCapabilities{
			MinImageCount:    2,
			MaxImageCount:    8,
			MinImageExtent:   vk.Extent2D{Width: 64, Height: 64},
			MaxImageExtent:   vk.Extent2D{Width: 4096, Height: 4096},
			CurrentTransform: vk.SurfaceTransformIdentityBit,
		},
		Formats: []vk.SurfaceFormat{
			{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
			{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		},
		PresentModes: []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox},
	}
}

func TestAdequate(t *testing.T) {
	assert.True(t, testSupport().Adequate())

	noFormats := testSupport()
	noFormats.Formats = nil
	assert.False(t, noFormats.Adequate())

	noModes := testSupport()
	noModes.PresentModes = nil
	assert.False(t, noModes.Adequate())
}

func TestSelectFormatPrefersSRGB(t *testing.T) {
	format := testSupport().SelectFormat()
	assert.Equal(t, vk.FormatB8g8r8a8Srgb, format.Format)
	assert.Equal(t, vk.ColorSpaceSrgbNonlinear, format.ColorSpace)
}

func TestSelectFormatFallsBackToFirst(t *testing.T) {
	support := testSupport()
	support.Formats = []vk.SurfaceFormat{
		{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
	}
	assert.Equal(t, vk.FormatR8g8b8a8Unorm, support.SelectFormat().Format)
}

func TestSelectPresentModePreferred(t *testing.T) {
	assert.Equal(t, vk.PresentModeMailbox, testSupport().SelectPresentMode(vk.PresentModeMailbox))
}

func TestSelectPresentModeFallsBackToFifo(t *testing.T) {
	support := testSupport()
	support.PresentModes = []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeImmediate}
	assert.Equal(t, vk.PresentModeFifo, support.SelectPresentMode(vk.PresentModeMailbox))
}

func TestSelectExtentClamping(t *testing.T) {
	support := testSupport()

	assert.Equal(t, vk.Extent2D{Width: 64, Height: 64}, support.SelectExtent(10, 10), "too small clamps up")
	assert.Equal(t, vk.Extent2D{Width: 4096, Height: 4096}, support.SelectExtent(8000, 8000), "too large clamps down")
	assert.Equal(t, vk.Extent2D{Width: 800, Height: 600}, support.SelectExtent(800, 600), "in range passes through")
	assert.Equal(t, vk.Extent2D{Width: 64, Height: 4096}, support.SelectExtent(10, 8000), "each dimension clamps independently")
}

func TestAcquireTimeoutIsDistinctError(t *testing.T) {
	assert.NotErrorIs(t, ErrAcquireTimeout, ErrFenceTimeout,
		"an acquire timeout must not report itself as a render fence timeout")
	assert.Contains(t, ErrAcquireTimeout.Error(), "acquiring")
}

func TestPlanSwapchainSharedFamily(t *testing.T) {
	plan := PlanSwapchain(testSupport(), vk.PresentModeMailbox, 800, 600, 0, 0)

	assert.Equal(t, vk.SharingModeExclusive, plan.SharingMode)
	assert.Empty(t, plan.FamilyIndices)
	assert.Equal(t, uint32(2), plan.ImageCount, "image count is the capability minimum")
	assert.Equal(t, vk.Extent2D{Width: 800, Height: 600}, plan.Extent)
	assert.Equal(t, vk.SurfaceTransformIdentityBit, plan.PreTransform)
}

func TestPlanSwapchainDistinctFamilies(t *testing.T) {
	plan := PlanSwapchain(testSupport(), vk.PresentModeMailbox, 800, 600, 0, 2)

	assert.Equal(t, vk.SharingModeConcurrent, plan.SharingMode)
	assert.Equal(t, []uint32{0, 2}, plan.FamilyIndices)
}

// Mirrors a plain single-family device: one format, FIFO only, fixed extent
// range. The plan must come out fully FIFO/exclusive with the clamped size.
func TestPlanSwapchainSingleFamilyScenario(t *testing.T) {
	support := &SurfaceSupport{
		Capabilities: SurfaceCapabilities{
			MinImageCount:  3,
			MinImageExtent: vk.Extent2D{Width: 1, Height: 1},
			MaxImageExtent: vk.Extent2D{Width: 2048, Height: 2048},
		},
		Formats:      []vk.SurfaceFormat{{Format: vk.FormatR5g6b5UnormPack16, ColorSpace: vk.ColorSpaceSrgbNonlinear}},
		PresentModes: []vk.PresentMode{vk.PresentModeFifo},
	}

	plan := PlanSwapchain(support, vk.PresentModeMailbox, 4000, 1000, 0, 0)

	assert.Equal(t, vk.FormatR5g6b5UnormPack16, plan.Format.Format)
	assert.Equal(t, vk.PresentModeFifo, plan.PresentMode)
	assert.Equal(t, vk.Extent2D{Width: 2048, Height: 1000}, plan.Extent)
	assert.Equal(t, uint32(3), plan.ImageCount)
	assert.Equal(t, vk.SharingModeExclusive, plan.SharingMode)
}
