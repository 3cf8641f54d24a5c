package sigill

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetireSwapchainDestroysPriorEntry(t *testing.T) {
	var log []ObjectKind
	r := NewObjectRegistry()
	r.Set(KindSwapchain, &recordedObject{kind: KindSwapchain, log: &log})

	retireSwapchain(r)

	assert.Equal(t, []ObjectKind{KindSwapchain}, log,
		"the old swapchain must be destroyed before a replacement is created, so the surface has no second live swapchain")
	assert.False(t, r.Has(KindSwapchain))
}

func TestRetireSwapchainWithoutEntryIsNoop(t *testing.T) {
	r := NewObjectRegistry()
	assert.NotPanics(t, func() { retireSwapchain(r) })
}
