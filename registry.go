package sigill

import (
	"fmt"
	"sort"
)

// ObjectKind identifies a class of Vulkan object owned by the ObjectRegistry.
// The ordinal value encodes mandatory destruction order: lower kinds are
// destroyed first. Every kind must be declared above the kinds it depends on,
// since teardown destroys entries in ascending ordinal order.
type ObjectKind int

const (
	KindShader ObjectKind = iota

	KindRenderTarget

	KindFrameRing

	KindSwapchain

	KindSurface

	KindDevice

	// Destroy the debug messenger last so it can still report mistakes made
	// while destroying the other objects.
	KindDebugMessenger
)

func (k ObjectKind) String() string {
	switch k {
	case KindShader:
		return "shader"
	case KindRenderTarget:
		return "render-target"
	case KindFrameRing:
		return "frame-ring"
	case KindSwapchain:
		return "swapchain"
	case KindSurface:
		return "surface"
	case KindDevice:
		return "device"
	case KindDebugMessenger:
		return "debug-messenger"
	}
	return fmt.Sprintf("object-kind(%d)", int(k))
}

// IDestructable is implemented by every object the registry can own.
type IDestructable interface {
	Destroy()
}

// ObjectRegistry owns every Vulkan object created after the instance, keyed
// by kind. It exists so that teardown of a heterogeneous object graph reduces
// to a single sort-then-destroy step instead of a hand-maintained sequence of
// field destructors.
//
// The registry is accessed only from the render thread and has no internal
// locking; any future multi-threaded use must add it.
type ObjectRegistry struct {
	objects map[ObjectKind]IDestructable
}

func NewObjectRegistry() *ObjectRegistry {
	return &ObjectRegistry{objects: make(map[ObjectKind]IDestructable)}
}

// Set inserts or replaces the entry for kind. A replaced entry is destroyed
// before the new one is stored.
func (r *ObjectRegistry) Set(kind ObjectKind, object IDestructable) {
	if prev, ok := r.objects[kind]; ok {
		prev.Destroy()
	}
	r.objects[kind] = object
}

// Has reports whether an entry exists for kind.
func (r *ObjectRegistry) Has(kind ObjectKind) bool {
	_, ok := r.objects[kind]
	return ok
}

// Remove drops the entry for kind without destroying it. The caller takes
// ownership of the returned object.
func (r *ObjectRegistry) Remove(kind ObjectKind) IDestructable {
	object := r.objects[kind]
	delete(r.objects, kind)
	return object
}

// Get returns the entry for kind downcast to T. The second result is false
// if the entry is absent or the stored value is of a different type; it never
// silently returns the wrong object.
func Get[T IDestructable](r *ObjectRegistry, kind ObjectKind) (T, bool) {
	object, ok := r.objects[kind]
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := object.(T)
	return t, ok
}

// MustGet is Get for callers that require the entry to exist. Absence is an
// initialization-order bug, not a recoverable runtime condition, so it panics.
func MustGet[T IDestructable](r *ObjectRegistry, kind ObjectKind) T {
	t, ok := Get[T](r, kind)
	if !ok {
		panic(fmt.Sprintf("%s must be initialized before being accessed", kind))
	}
	return t
}

// DestroyAll destroys every entry in ascending kind order and empties the
// registry. The caller must ensure the device is idle first: destroying an
// object the GPU still references is undefined behavior at the API level.
func (r *ObjectRegistry) DestroyAll() {
	kinds := make([]ObjectKind, 0, len(r.objects))
	for kind := range r.objects {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	for _, kind := range kinds {
		r.objects[kind].Destroy()
		delete(r.objects, kind)
	}
}
