package sigill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func TestFrameRingCyclesModulo(t *testing.T) {
	ring := &FrameRing{slots: []*FrameSlot{{}, {}}}

	first := ring.Current()
	ring.Advance()
	second := ring.Current()
	assert.NotSame(t, first, second)

	ring.Advance()
	assert.Same(t, first, ring.Current(), "the ring wraps back to the first slot")

	for i := 0; i < 5; i++ {
		ring.Advance()
	}
	assert.Same(t, second, ring.Current())
}

func TestFrameRingFlushPreservesCursor(t *testing.T) {
	// No slots means no native work: Flush must still succeed and must not
	// move the cursor, which survives a rebuild.
	ring := &FrameRing{index: 1}
	assert.NoError(t, ring.Flush())
	assert.Equal(t, 1, ring.index)
}

func TestFrameFenceCreateInfoSignaled(t *testing.T) {
	info := frameFenceCreateInfo(true)
	assert.Equal(t, vk.StructureTypeFenceCreateInfo, info.SType)
	assert.Equal(t, vk.FenceCreateFlags(vk.FenceCreateSignaledBit), info.Flags,
		"frame fences start signaled so the first wait passes")

	unsignaled := frameFenceCreateInfo(false)
	assert.Equal(t, vk.FenceCreateFlags(0), unsignaled.Flags)
}

func TestAspectForLayout(t *testing.T) {
	assert.Equal(t,
		vk.ImageAspectFlags(vk.ImageAspectDepthBit),
		aspectForLayout(vk.ImageLayoutDepthStencilAttachmentOptimal))

	colorLayouts := []vk.ImageLayout{
		vk.ImageLayoutGeneral,
		vk.ImageLayoutTransferSrcOptimal,
		vk.ImageLayoutTransferDstOptimal,
		vk.ImageLayoutPresentSrc,
	}
	for _, layout := range colorLayouts {
		assert.Equal(t, vk.ImageAspectFlags(vk.ImageAspectColorBit), aspectForLayout(layout))
	}
}
