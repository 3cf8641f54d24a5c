package sigill

import (
	"errors"
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// ErrUnsupportedDevice is returned when no physical device satisfies the
// application's hard requirements. There is nothing to render with, so this
// is fatal and unrecoverable.
var ErrUnsupportedDevice = errors.New("no suitable GPU device found")

// ErrFenceTimeout is returned when a frame slot's render fence does not
// signal within FenceTimeout. The GPU is wedged or the submission was lost;
// either way the condition is fatal and must be reported, never ignored.
var ErrFenceTimeout = errors.New("timed out waiting for render fence")

// ErrAcquireTimeout is returned when no swapchain image becomes available
// within AcquireTimeout. Like a fence timeout it is fatal: the presentation
// engine is not returning images.
var ErrAcquireTimeout = errors.New("timed out acquiring swapchain image")

// ErrOutOfDate is returned when the swapchain no longer matches the surface
// (typically after a resize) during acquire or present. The caller recreates
// the swapchain in place and retries the frame.
var ErrOutOfDate = errors.New("swapchain out of date")

// ErrHandleUnavailable is returned when the windowing layer cannot supply a
// usable native surface or window handle.
var ErrHandleUnavailable = errors.New("window handle unavailable")

// apiError wraps a non-success vk.Result with the originating call name.
// Results are propagated upward unchanged, never swallowed.
func apiError(op string, res vk.Result) error {
	return fmt.Errorf("%s: %w", op, vk.Error(res))
}
