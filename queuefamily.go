package sigill

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

type QueueFamilySlice []*QueueFamily

func (ql QueueFamilySlice) Filter(f func(q *QueueFamily) bool) QueueFamilySlice {
	ret := make([]*QueueFamily, 0)
	for _, q := range ql {
		if f(q) {
			ret = append(ret, q)
		}
	}
	return ret
}

func (ql QueueFamilySlice) FilterGraphics() QueueFamilySlice {
	return ql.Filter(func(q *QueueFamily) bool {
		return q.IsGraphics()
	})
}

func (ql QueueFamilySlice) FilterPresent(surface vk.Surface) QueueFamilySlice {
	return ql.Filter(func(q *QueueFamily) bool {
		return q.SupportsPresent(surface)
	})
}

// AvailableFlags returns the union of the queue capability flags exposed
// across all families in the slice.
func (ql QueueFamilySlice) AvailableFlags() vk.QueueFlags {
	var flags vk.QueueFlags
	for _, q := range ql {
		flags |= q.VKQueueFamilyProperties.QueueFlags
	}
	return flags
}

type QueueFamily struct {
	Index                   int
	PhysicalDevice          *PhysicalDevice
	VKQueueFamilyProperties vk.QueueFamilyProperties
}

func (q *QueueFamily) Supports(flags vk.QueueFlags) bool {
	return q.VKQueueFamilyProperties.QueueFlags&flags == flags
}

func (q *QueueFamily) IsGraphics() bool {
	return q.Supports(vk.QueueFlags(vk.QueueGraphicsBit))
}

func (q *QueueFamily) IsCompute() bool {
	return q.Supports(vk.QueueFlags(vk.QueueComputeBit))
}

func (q *QueueFamily) IsTransfer() bool {
	return q.Supports(vk.QueueFlags(vk.QueueTransferBit))
}

func (q *QueueFamily) SupportsPresent(surface vk.Surface) bool {
	var supported vk.Bool32
	vk.GetPhysicalDeviceSurfaceSupport(q.PhysicalDevice.VKPhysicalDevice, uint32(q.Index), surface, &supported)
	return supported == vk.True
}

func (q *QueueFamily) String() string {
	return fmt.Sprintf("{ Index: %d Compute: %v Graphics: %v Transfer: %v }", q.Index, q.IsCompute(), q.IsGraphics(), q.IsTransfer())
}

// QueueInfo is a concrete queue slot: a family index plus an index within
// that family.
type QueueInfo struct {
	FamilyIndex uint32
	Index       uint32
}

// QueueFamilyMap maps a required queue capability flag to the concrete
// (family, index) pair assigned to it. Each requested flag maps to at most
// one pair, and once assigned a flag is never revisited.
type QueueFamilyMap struct {
	inner map[vk.QueueFlags]QueueInfo
}

// BuildQueueFamilyMap assigns required capability flags to queue slots
// greedily in queue family enumeration order. Each element of queueFlags is
// assumed to contain a single flag so that it can key one map entry; add
// multiple flags to an element only when one family should serve several
// roles under one lookup key.
func BuildQueueFamilyMap(families QueueFamilySlice, queueFlags []vk.QueueFlags) *QueueFamilyMap {
	inner := make(map[vk.QueueFlags]QueueInfo)
	for _, family := range families {
		queueIndex := uint32(0) // the index within the queue family
		for _, flag := range queueFlags {
			if _, assigned := inner[flag]; !assigned && family.Supports(flag) {
				inner[flag] = QueueInfo{FamilyIndex: uint32(family.Index), Index: queueIndex}
				queueIndex++
			}
		}
	}
	return &QueueFamilyMap{inner: inner}
}

// Get returns the queue slot assigned to the given flag.
func (m *QueueFamilyMap) Get(flags vk.QueueFlags) (QueueInfo, bool) {
	info, ok := m.inner[flags]
	return info, ok
}

// Len returns the number of assigned flags.
func (m *QueueFamilyMap) Len() int {
	return len(m.inner)
}

// Each calls f for every assigned (flag, slot) pair.
func (m *QueueFamilyMap) Each(f func(flags vk.QueueFlags, info QueueInfo)) {
	for flags, info := range m.inner {
		f(flags, info)
	}
}

// familySlotCounts computes, per family, the number of queue slots needed to
// cover every assignment in the map: max assigned index + 1.
func (m *QueueFamilyMap) familySlotCounts() map[uint32]uint32 {
	counts := make(map[uint32]uint32)
	for _, info := range m.inner {
		if counts[info.FamilyIndex] < info.Index+1 {
			counts[info.FamilyIndex] = info.Index + 1
		}
	}
	return counts
}
