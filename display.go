package sigill

import (
	"github.com/vulkan-go/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

// Window is the sliver of the windowing layer the renderer needs: a surface
// to present into, the current framebuffer size, and the instance extensions
// the window system requires. Core depends on this interface so rendering
// stays decoupled from GLFW.
type Window interface {
	CreateSurface(instance *Instance) (vk.Surface, error)
	FramebufferSize() (width, height uint32)
	RequiredExtensions() []string
}

// GLFWWindow adapts a glfw.Window to the Window interface.
type GLFWWindow struct {
	Window *glfw.Window
}

func NewGLFWWindow(w *glfw.Window) *GLFWWindow {
	return &GLFWWindow{Window: w}
}

// CreateSurface creates a Vulkan surface for the window.
func (w *GLFWWindow) CreateSurface(instance *Instance) (vk.Surface, error) {
	surfacePtr, err := w.Window.CreateWindowSurface(instance.VKInstance, nil)
	if err != nil {
		return vk.NullSurface, err
	}
	if surfacePtr == 0 {
		return vk.NullSurface, ErrHandleUnavailable
	}
	return vk.SurfaceFromPointer(surfacePtr), nil
}

// FramebufferSize returns the current framebuffer size in pixels.
func (w *GLFWWindow) FramebufferSize() (uint32, uint32) {
	width, height := w.Window.GetFramebufferSize()
	return uint32(width), uint32(height)
}

// RequiredExtensions returns the instance extensions GLFW needs to create
// surfaces on this platform.
func (w *GLFWWindow) RequiredExtensions() []string {
	return w.Window.GetRequiredInstanceExtensions()
}
