package sigill

import (
	"sort"

	vk "github.com/vulkan-go/vulkan"
)

// DeviceProfile is a plain snapshot of the capabilities relevant to device
// selection, queried once per candidate so that filtering and ranking run on
// values instead of native handles.
type DeviceProfile struct {
	Name                string
	Type                vk.PhysicalDeviceType
	APIVersion          uint32
	GeometryShader      bool
	QueueFlags          vk.QueueFlags
	Extensions          map[string]bool
	MaxImageDimension2D uint32
	SurfaceAdequate     bool
}

// Requirements are the hard requirements a device must meet to be ranked at
// all.
type Requirements struct {
	MinAPIVersion    Version
	QueueFlags       []vk.QueueFlags
	DeviceExtensions []string
}

// Requirements derives the selector's hard requirements from the app config.
func (a *App) Requirements() Requirements {
	return Requirements{
		MinAPIVersion:    a.APIVersion,
		QueueFlags:       a.RequiredQueueFlags,
		DeviceExtensions: a.RequiredDeviceExtensions,
	}
}

// Profile captures the selection-relevant capabilities of the device against
// the given surface.
func (p *PhysicalDevice) Profile(surface vk.Surface) (*DeviceProfile, error) {
	families, err := p.QueueFamilies()
	if err != nil {
		return nil, err
	}

	extensions, err := p.SupportedExtensions()
	if err != nil {
		return nil, err
	}
	extensionSet := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extensionSet[ext] = true
	}

	support, err := QuerySurfaceSupport(p, surface)
	if err != nil {
		return nil, err
	}

	features := p.VKPhysicalDeviceFeatures()

	return &DeviceProfile{
		Name:                p.DeviceName,
		Type:                p.VKPhysicalDeviceProperties.DeviceType,
		APIVersion:          p.VKPhysicalDeviceProperties.ApiVersion,
		GeometryShader:      features.GeometryShader == vk.True,
		QueueFlags:          families.AvailableFlags(),
		Extensions:          extensionSet,
		MaxImageDimension2D: p.VKPhysicalDeviceProperties.Limits.MaxImageDimension2D,
		SurfaceAdequate:     support.Adequate(),
	}, nil
}

// Meets evaluates the hard-requirement predicate. Every clause is computed
// so a failing device is fully characterized, then the conjunction decides.
func (p *DeviceProfile) Meets(req Requirements) bool {
	supportedGPU := p.Type == vk.PhysicalDeviceTypeDiscreteGpu || p.Type == vk.PhysicalDeviceTypeIntegratedGpu

	version := vk.Version(p.APIVersion)
	supportsVersion := version.Major() > req.MinAPIVersion.Major ||
		(version.Major() == req.MinAPIVersion.Major && version.Minor() >= req.MinAPIVersion.Minor)

	supportsFeatures := p.GeometryShader

	var required vk.QueueFlags
	for _, flags := range req.QueueFlags {
		required |= flags
	}
	hasQueueFamilies := p.QueueFlags&required == required

	supportsExtensions := true
	for _, ext := range req.DeviceExtensions {
		if !p.Extensions[ext] {
			supportsExtensions = false
		}
	}

	return supportedGPU && supportsVersion && supportsFeatures && hasQueueFamilies && supportsExtensions && p.SurfaceAdequate
}

// Rank scores the device: discrete GPUs get a flat bonus, and the maximum
// supported 2D image dimension stands in for raw capability.
func (p *DeviceProfile) Rank() uint32 {
	var score uint32
	if p.Type == vk.PhysicalDeviceTypeDiscreteGpu {
		score += 1000
	}
	score += p.MaxImageDimension2D
	return score
}

// RankedDevice pairs a candidate with its score.
type RankedDevice struct {
	Rank   uint32
	Device *PhysicalDevice
}

// selectBest orders candidates by score ascending with a stable sort and
// returns the last one, so ties keep the later-enumerated device. It returns
// nil for an empty candidate set.
func selectBest(candidates []RankedDevice) *RankedDevice {
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Rank < candidates[j].Rank
	})
	return &candidates[len(candidates)-1]
}

// FindSuitableDevice enumerates all physical devices, filters them by the
// app's hard requirements, ranks the survivors, and returns the winner
// together with a fresh surface capability snapshot for it. Enumeration
// never short-circuits: every candidate is evaluated so the whole set is
// ranked consistently. With zero survivors it fails with
// ErrUnsupportedDevice.
func FindSuitableDevice(instance *Instance, app *App, surface vk.Surface) (*PhysicalDevice, *SurfaceSupport, error) {
	devices, err := instance.PhysicalDevices()
	if err != nil {
		return nil, nil, err
	}

	req := app.Requirements()
	candidates := make([]RankedDevice, 0, len(devices))
	for _, device := range devices {
		profile, err := device.Profile(surface)
		if err != nil {
			return nil, nil, err
		}
		if !profile.Meets(req) {
			continue
		}
		candidates = append(candidates, RankedDevice{Rank: profile.Rank(), Device: device})
	}

	best := selectBest(candidates)
	if best == nil {
		return nil, nil, ErrUnsupportedDevice
	}

	// Capability queries are scoped to the device+surface pair, so the
	// snapshot is re-taken against the winner.
	support, err := QuerySurfaceSupport(best.Device, surface)
	if err != nil {
		return nil, nil, err
	}
	return best.Device, support, nil
}
