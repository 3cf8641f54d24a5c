package sigill

import (
	"fmt"
	"sort"

	vk "github.com/vulkan-go/vulkan"
)

// QueueRole names a purpose a queue serves for the renderer.
type QueueRole int

const (
	RoleGraphics QueueRole = iota
	RolePresent
)

func (r QueueRole) String() string {
	switch r {
	case RoleGraphics:
		return "graphics"
	case RolePresent:
		return "present"
	}
	return fmt.Sprintf("queue-role(%d)", int(r))
}

// Queue is a queue slot bound to a role. The native handle is nil until
// PopulateHandles runs after device creation; reading it earlier is a
// programming error.
type Queue struct {
	Info      QueueInfo
	Priority  float32
	handle    vk.Queue
	populated bool
}

// Handle returns the native queue handle. It panics when called before
// PopulateHandles, since that is an initialization-order bug.
func (q *Queue) Handle() vk.Queue {
	if !q.populated {
		panic("queue handle must be populated before being accessed")
	}
	return q.handle
}

func (q *Queue) populate(d *Device) {
	var handle vk.Queue
	vk.GetDeviceQueue(d.VKDevice, q.Info.FamilyIndex, q.Info.Index, &handle)
	q.handle = handle
	q.populated = true
}

// WaitIdle blocks until all work submitted to this queue has completed.
func (q *Queue) WaitIdle() error {
	return vk.Error(vk.QueueWaitIdle(q.Handle()))
}

// QueueSet maps queue roles to their assigned queue slots on the chosen
// device.
type QueueSet struct {
	queues map[QueueRole]*Queue
}

// NewQueueSet builds a queue set with the graphics role resolved from the
// queue family map. A map without a graphics assignment is unusable for
// rendering.
func NewQueueSet(m *QueueFamilyMap) (*QueueSet, error) {
	info, ok := m.Get(vk.QueueFlags(vk.QueueGraphicsBit))
	if !ok {
		return nil, fmt.Errorf("graphics queue should be available")
	}
	return &QueueSet{
		queues: map[QueueRole]*Queue{
			RoleGraphics: {Info: info, Priority: 1.0},
		},
	}, nil
}

// QueryPresentQueue scans every mapped queue slot and binds the present role
// to one whose family can present to the surface. Present support is not
// guaranteed to coincide with the graphics family, so graphics and present
// may resolve to the same or different families; swapchain creation branches
// on that. supportsPresent is typically QueueFamily.SupportsPresent bound to
// the chosen device and surface.
func (s *QueueSet) QueryPresentQueue(m *QueueFamilyMap, supportsPresent func(familyIndex uint32) (bool, error)) error {
	var outerErr error
	m.Each(func(_ vk.QueueFlags, info QueueInfo) {
		if outerErr != nil {
			return
		}
		ok, err := supportsPresent(info.FamilyIndex)
		if err != nil {
			outerErr = err
			return
		}
		if ok {
			s.queues[RolePresent] = &Queue{Info: info, Priority: 1.0}
		}
	})
	return outerErr
}

// QueueCreateInfos deduplicates the map by family and emits one device queue
// descriptor per distinct family. Each priority array is as long as the
// family's highest assigned index + 1; slots not bound to a role keep the
// default priority 0.
func (s *QueueSet) QueueCreateInfos(m *QueueFamilyMap) []vk.DeviceQueueCreateInfo {
	counts := m.familySlotCounts()

	families := make([]uint32, 0, len(counts))
	for family := range counts {
		families = append(families, family)
	}
	sort.Slice(families, func(i, j int) bool { return families[i] < families[j] })

	createInfos := make([]vk.DeviceQueueCreateInfo, 0, len(families))
	for _, family := range families {
		priorities := make([]float32, counts[family])
		for _, queue := range s.queues {
			if queue.Info.FamilyIndex == family {
				priorities[queue.Info.Index] = queue.Priority
			}
		}
		createInfos = append(createInfos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       uint32(len(priorities)),
			PQueuePriorities: priorities,
		})
	}
	return createInfos
}

// PopulateHandles retrieves the native queue handle for every role. It must
// run once, immediately after device creation.
func (s *QueueSet) PopulateHandles(d *Device) {
	for _, queue := range s.queues {
		queue.populate(d)
	}
}

// Get returns the queue bound to the given role.
func (s *QueueSet) Get(role QueueRole) (*Queue, bool) {
	q, ok := s.queues[role]
	return q, ok
}

// Graphics returns the graphics queue. It always exists for a set built by
// NewQueueSet.
func (s *QueueSet) Graphics() *Queue {
	return s.queues[RoleGraphics]
}

// Present returns the present queue, which may alias the graphics queue. It
// panics when QueryPresentQueue found no present-capable family, since such
// a device should have been rejected during selection.
func (s *QueueSet) Present() *Queue {
	q, ok := s.queues[RolePresent]
	if !ok {
		panic("present queue must be initialized before being accessed")
	}
	return q
}

// SharedPresent reports whether graphics and present resolved to the same
// queue family.
func (s *QueueSet) SharedPresent() bool {
	return s.Graphics().Info.FamilyIndex == s.Present().Info.FamilyIndex
}

// Submit submits the command buffer gated on waitSemaphore at the given
// stage, signalling signalSemaphore and fence on completion.
func (q *Queue) Submit(buffer vk.CommandBuffer, waitSemaphore vk.Semaphore, waitStage vk.PipelineStageFlags, signalSemaphore vk.Semaphore, fence vk.Fence) error {
	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{waitSemaphore},
		PWaitDstStageMask:    []vk.PipelineStageFlags{waitStage},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{buffer},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{signalSemaphore},
	}
	res := vk.QueueSubmit(q.Handle(), 1, []vk.SubmitInfo{submitInfo}, fence)
	if res != vk.Success {
		return apiError("vkQueueSubmit", res)
	}
	return nil
}
