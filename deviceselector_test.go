package sigill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func suitableProfile() *DeviceProfile {
	return &DeviceProfile{
		Name:                "test-gpu",
		Type:                vk.PhysicalDeviceTypeDiscreteGpu,
		APIVersion:          uint32(vk.MakeVersion(1, 1, 0)),
		GeometryShader:      true,
		QueueFlags:          vk.QueueFlags(vk.QueueGraphicsBit | vk.QueueComputeBit | vk.QueueTransferBit),
		Extensions:          map[string]bool{"VK_KHR_swapchain": true},
		MaxImageDimension2D: 4096,
		SurfaceAdequate:     true,
	}
}

func testRequirements() Requirements {
	return Requirements{
		MinAPIVersion:    Version{Major: 1, Minor: 1},
		QueueFlags:       []vk.QueueFlags{vk.QueueFlags(vk.QueueGraphicsBit)},
		DeviceExtensions: []string{"VK_KHR_swapchain"},
	}
}

func TestMeetsAcceptsSuitableDevice(t *testing.T) {
	assert.True(t, suitableProfile().Meets(testRequirements()))
}

func TestMeetsRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *DeviceProfile)
	}{
		{"cpu device", func(p *DeviceProfile) { p.Type = vk.PhysicalDeviceTypeCpu }},
		{"virtual gpu", func(p *DeviceProfile) { p.Type = vk.PhysicalDeviceTypeVirtualGpu }},
		{"api version too old", func(p *DeviceProfile) { p.APIVersion = uint32(vk.MakeVersion(1, 0, 0)) }},
		{"no geometry shader", func(p *DeviceProfile) { p.GeometryShader = false }},
		{"no graphics queue", func(p *DeviceProfile) { p.QueueFlags = vk.QueueFlags(vk.QueueComputeBit) }},
		{"missing swapchain extension", func(p *DeviceProfile) { p.Extensions = map[string]bool{} }},
		{"inadequate surface", func(p *DeviceProfile) { p.SurfaceAdequate = false }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := suitableProfile()
			tt.mutate(p)
			assert.False(t, p.Meets(testRequirements()))
		})
	}
}

func TestMeetsAcceptsIntegratedGPU(t *testing.T) {
	p := suitableProfile()
	p.Type = vk.PhysicalDeviceTypeIntegratedGpu
	assert.True(t, p.Meets(testRequirements()))
}

func TestMeetsAcceptsNewerAPIVersion(t *testing.T) {
	p := suitableProfile()
	p.APIVersion = uint32(vk.MakeVersion(1, 3, 0))
	assert.True(t, p.Meets(testRequirements()))

	p.APIVersion = uint32(vk.MakeVersion(2, 0, 0))
	assert.True(t, p.Meets(testRequirements()))
}

func TestMeetsQueueFlagsCoveredAcrossFamilies(t *testing.T) {
	// The union of flags counts; no single family needs to carry them all.
	p := suitableProfile()
	p.QueueFlags = vk.QueueFlags(vk.QueueGraphicsBit) | vk.QueueFlags(vk.QueueComputeBit)

	req := testRequirements()
	req.QueueFlags = []vk.QueueFlags{
		vk.QueueFlags(vk.QueueGraphicsBit),
		vk.QueueFlags(vk.QueueComputeBit),
	}
	assert.True(t, p.Meets(req))
}

func TestRankScores(t *testing.T) {
	integrated := suitableProfile()
	integrated.Type = vk.PhysicalDeviceTypeIntegratedGpu
	integrated.MaxImageDimension2D = 500
	assert.Equal(t, uint32(500), integrated.Rank())

	discrete := suitableProfile()
	discrete.MaxImageDimension2D = 500
	assert.Equal(t, uint32(1500), discrete.Rank())
}

func TestSelectBestHighestWins(t *testing.T) {
	a := &PhysicalDevice{DeviceName: "a"}
	b := &PhysicalDevice{DeviceName: "b"}
	c := &PhysicalDevice{DeviceName: "c"}

	best := selectBest([]RankedDevice{
		{Rank: 500, Device: a},
		{Rank: 1500, Device: b},
		{Rank: 700, Device: c},
	})
	assert.Equal(t, "b", best.Device.DeviceName)
}

func TestSelectBestTieKeepsLaterDevice(t *testing.T) {
	a := &PhysicalDevice{DeviceName: "a"}
	b := &PhysicalDevice{DeviceName: "b"}

	best := selectBest([]RankedDevice{
		{Rank: 1500, Device: a},
		{Rank: 1500, Device: b},
	})
	assert.Equal(t, "b", best.Device.DeviceName, "the stable sort keeps the later-enumerated device on top for ties")
}

func TestSelectBestEmpty(t *testing.T) {
	assert.Nil(t, selectBest(nil))
}
