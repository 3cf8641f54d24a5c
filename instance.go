package sigill

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// Initialize loads the Vulkan loader and resolves the instance proc
// addresses. It must be called once, before any other call into this
// package. Failure means the driver/runtime could not be located; there is
// nothing to retry against.
func Initialize() error {
	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return fmt.Errorf("locating Vulkan loader: %w", err)
	}
	if err := vk.Init(); err != nil {
		return fmt.Errorf("initializing Vulkan: %w", err)
	}
	return nil
}

// Version is used to specify versions of components
type Version struct {
	Major int
	Minor int
	Patch int
}

// VKVersion returns a Vulkan compatible version representation
func (v Version) VKVersion() uint32 {
	return vk.MakeVersion(v.Major, v.Minor, v.Patch)
}

// App is the process-wide immutable configuration describing this
// application to Vulkan. It is assembled once at startup and passed by
// reference; nothing reads configuration through globals.
type App struct {
	// Name the name of the application
	Name string
	// EngineName the name of the engine associated with the application
	EngineName string
	// Version the version of the application
	Version Version
	// APIVersion the minimum required version of the Vulkan API
	APIVersion Version

	// EnabledLayers the enabled instance layers
	EnabledLayers []string

	// EnabledExtensions the enabled instance extensions
	EnabledExtensions []string

	// RequiredDeviceExtensions must all be supported by a suitable device
	RequiredDeviceExtensions []string

	// RequiredQueueFlags is the set of queue capabilities a suitable device
	// must expose, one flag per element (see RequiredQueueFlags).
	RequiredQueueFlags []vk.QueueFlags

	// PreferredPresentMode is requested first during swapchain creation
	PreferredPresentMode vk.PresentMode
}

// NewApp returns an App populated with the package defaults.
func NewApp(name string, version Version) *App {
	return &App{
		Name:                     name,
		EngineName:               name,
		Version:                  version,
		APIVersion:               DefaultAPIVersion,
		RequiredDeviceExtensions: RequiredDeviceExtensions,
		RequiredQueueFlags:       RequiredQueueFlags,
		PreferredPresentMode:     PreferredPresentMode,
	}
}

// SupportedLayers returns a list of instance layers supported by the loader.
func SupportedLayers() ([]string, error) {
	var count uint32
	err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, nil))
	if err != nil {
		return nil, err
	}
	layers := make([]vk.LayerProperties, count)
	err = vk.Error(vk.EnumerateInstanceLayerProperties(&count, layers))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, count)
	for _, layer := range layers {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}
	return names, nil
}

// SupportedExtensions returns a list of instance extensions supported by the
// loader.
func SupportedExtensions() ([]string, error) {
	var count uint32
	err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, nil))
	if err != nil {
		return nil, err
	}
	extensions := make([]vk.ExtensionProperties, count)
	err = vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, extensions))
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

// EnableLayer enables the given instance layer if the loader supports it. A
// missing required validation layer is a capability mismatch: the returned
// error names the layer and startup should abort.
func (a *App) EnableLayer(layer string) error {
	layers, err := SupportedLayers()
	if err != nil {
		return fmt.Errorf("error getting supported layers: %w", err)
	}
	for _, l := range layers {
		if l == layer {
			a.EnabledLayers = append(a.EnabledLayers, layer)
			return nil
		}
	}
	return fmt.Errorf("validation layer '%s' not found", layer)
}

// EnableExtension enables an instance extension for use by the application.
func (a *App) EnableExtension(extension string) *App {
	a.EnabledExtensions = append(a.EnabledExtensions, extension)
	return a
}

// EnableDebugging enables the standard validation layer and the debug report
// extension so layer output can be routed through slog.
func (a *App) EnableDebugging() error {
	if err := a.EnableLayer("VK_LAYER_KHRONOS_validation"); err != nil {
		return err
	}
	a.EnableExtension("VK_EXT_debug_report")
	return nil
}

// VKApplicationInfo creates a structure representing this application in a
// Vulkan friendly format.
func (a *App) VKApplicationInfo() vk.ApplicationInfo {
	if a.APIVersion.Major < 1 {
		a.APIVersion.Major = 1
	}
	return vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         a.APIVersion.VKVersion(),
		ApplicationVersion: a.Version.VKVersion(),
		PApplicationName:   safeString(a.Name),
		PEngineName:        safeString(a.EngineName),
	}
}

// CreateInstance creates the Vulkan instance.
func (a *App) CreateInstance() (*Instance, error) {
	appInfo := a.VKApplicationInfo()

	extensions := safeStrings(a.EnabledExtensions)
	layers := safeStrings(a.EnabledLayers)

	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}

	instance := &Instance{}

	err := vk.Error(vk.CreateInstance(&createInfo, nil, &instance.VKInstance))
	if err != nil {
		return nil, fmt.Errorf("creating instance: %w", err)
	}
	vk.InitInstance(instance.VKInstance)

	return instance, nil
}

// Instance is the root Vulkan object. It is created once, outlives every
// other object, and owns the proc tables used to create and destroy all
// subordinate objects.
type Instance struct {
	VKInstance vk.Instance
}

// PhysicalDevices returns the physical devices known to Vulkan.
func (i *Instance) PhysicalDevices() ([]*PhysicalDevice, error) {
	var count uint32
	err := vk.Error(vk.EnumeratePhysicalDevices(i.VKInstance, &count, nil))
	if err != nil {
		return nil, err
	}

	if count == 0 {
		return nil, nil
	}

	devices := make([]vk.PhysicalDevice, count)
	err = vk.Error(vk.EnumeratePhysicalDevices(i.VKInstance, &count, devices))
	if err != nil {
		return nil, err
	}

	ret := make([]*PhysicalDevice, count)
	for i, device := range devices {
		ret[i] = &PhysicalDevice{}
		ret[i].VKPhysicalDevice = device

		vk.GetPhysicalDeviceProperties(device, &ret[i].VKPhysicalDeviceProperties)
		ret[i].VKPhysicalDeviceProperties.Deref()
		ret[i].VKPhysicalDeviceProperties.Limits.Deref()
		ret[i].DeviceName = vk.ToString(ret[i].VKPhysicalDeviceProperties.DeviceName[:])
	}
	return ret, nil
}

func (i *Instance) Destroy() {
	vk.DestroyInstance(i.VKInstance, nil)
}

// Surface wraps a window surface so the registry can destroy it in kind
// order alongside the rest of the object graph.
type Surface struct {
	Instance  *Instance
	VKSurface vk.Surface
}

func (s *Surface) Destroy() {
	vk.DestroySurface(s.Instance.VKInstance, s.VKSurface, nil)
}
