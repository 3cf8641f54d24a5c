package sigill

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// PhysicalDevice is a candidate GPU plus a snapshot of its properties taken
// at enumeration time.
type PhysicalDevice struct {
	DeviceName                 string
	VKPhysicalDevice           vk.PhysicalDevice
	VKPhysicalDeviceProperties vk.PhysicalDeviceProperties
}

func (p *PhysicalDevice) String() string {
	return p.DeviceName
}

// QueueFamilies returns the queue families exposed by this device, in index
// order.
func (p *PhysicalDevice) QueueFamilies() (QueueFamilySlice, error) {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &count, nil)

	if count == 0 {
		return nil, nil
	}

	properties := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &count, properties)

	ret := make([]*QueueFamily, count)
	for i, props := range properties {
		ret[i] = &QueueFamily{Index: i, PhysicalDevice: p, VKQueueFamilyProperties: props}
		ret[i].VKQueueFamilyProperties.Deref()
	}
	return ret, nil
}

// VKPhysicalDeviceFeatures queries the feature bits supported by the device.
func (p *PhysicalDevice) VKPhysicalDeviceFeatures() vk.PhysicalDeviceFeatures {
	var features vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(p.VKPhysicalDevice, &features)
	features.Deref()
	return features
}

// SupportedExtensions returns the device extensions this device supports.
func (p *PhysicalDevice) SupportedExtensions() ([]string, error) {
	var count uint32
	err := vk.Error(vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, nil))
	if err != nil {
		return nil, err
	}

	extensions := make([]vk.ExtensionProperties, count)
	err = vk.Error(vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, extensions))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, count)
	for _, ext := range extensions {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, nil
}

// FindMemoryType locates a memory type matching the given type bits and
// property flags. See the VkPhysicalDeviceMemoryProperties documentation for
// a description of the search.
func (p *PhysicalDevice) FindMemoryType(memoryTypeBits uint32, properties vk.MemoryPropertyFlags) (uint32, error) {
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(p.VKPhysicalDevice, &memoryProperties)
	memoryProperties.Deref()

	var i uint32
	for i = 0; i < memoryProperties.MemoryTypeCount; i++ {
		mt := memoryProperties.MemoryTypes[i]
		mt.Deref()
		if memoryTypeBits&(1<<i) != 0 &&
			vk.MemoryPropertyFlags(mt.PropertyFlags)&properties == properties {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no matching memory type found")
}

// CreateDeviceOptions configures logical device creation.
type CreateDeviceOptions struct {
	EnabledExtensions []string
	EnabledLayers     []string
}

// CreateDevice creates a logical device with the given queue descriptors,
// typically produced by QueueSet.QueueCreateInfos.
func (p *PhysicalDevice) CreateDevice(queueCreateInfos []vk.DeviceQueueCreateInfo, options *CreateDeviceOptions) (*Device, error) {
	features := p.VKPhysicalDeviceFeatures()

	createInfo := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: uint32(len(queueCreateInfos)),
		PQueueCreateInfos:    queueCreateInfos,
		PEnabledFeatures:     []vk.PhysicalDeviceFeatures{features},
	}

	if options != nil {
		if options.EnabledExtensions != nil {
			createInfo.EnabledExtensionCount = uint32(len(options.EnabledExtensions))
			createInfo.PpEnabledExtensionNames = safeStrings(options.EnabledExtensions)
		}
		if options.EnabledLayers != nil {
			createInfo.EnabledLayerCount = uint32(len(options.EnabledLayers))
			createInfo.PpEnabledLayerNames = safeStrings(options.EnabledLayers)
		}
	}

	var handle vk.Device
	err := vk.Error(vk.CreateDevice(p.VKPhysicalDevice, &createInfo, nil, &handle))
	if err != nil {
		return nil, fmt.Errorf("creating device: %w", err)
	}

	return &Device{PhysicalDevice: p, VKDevice: handle}, nil
}
