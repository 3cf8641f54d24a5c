/*
Package sigill implements the lifecycle and frame-synchronization core of a
Vulkan renderer: picking a GPU, assigning queue families, building a
swapchain, cycling a ring of frame slots, and tearing everything down in a
safe order.

The central piece is the ObjectRegistry. Every Vulkan object created after
the instance is registered under an ObjectKind whose ordinal encodes its
destruction order, so teardown of the whole object graph reduces to a single
sort-then-destroy sweep instead of a hand-maintained sequence of destructor
calls. Objects are fetched back out with the generic Get/MustGet accessors.

Device selection is a filter-then-rank pass over every enumerated physical
device: hard requirements (device type, API version, features, queue
capabilities, extensions, surface adequacy) eliminate candidates, and the
survivors are scored so the most capable device wins deterministically.

The frame loop runs over a FrameRing of slots, each carrying its own command
buffer, semaphores and fence, so the CPU records one frame while the GPU
executes the previous one. Each frame clears an off-screen render target and
blits it into the acquired swapchain image; an out-of-date swapchain is
rebuilt in place and the frame retried.

Native Vulkan handles are exposed on every wrapper as VK-prefixed fields, so
applications can always drop down to the raw API where this package stops.
*/
package sigill
