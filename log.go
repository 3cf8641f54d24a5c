package sigill

import (
	"context"
	"log/slog"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// MinLogLevel filters validation layer messages routed through slog. Messages
// below this level are dropped in the debug callback itself.
var MinLogLevel = slog.LevelDebug

func logLevelFor(flags vk.DebugReportFlags) slog.Level {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		return slog.LevelError
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0,
		flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		return slog.LevelWarn
	case flags&vk.DebugReportFlags(vk.DebugReportInformationBit) != 0:
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

// debugReportCallback forwards validation layer output to slog. Layer
// messages are observability signals only; they never constitute errors and
// rendering always continues.
func debugReportCallback(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, layerPrefix string,
	message string, userData unsafe.Pointer) vk.Bool32 {

	level := logLevelFor(flags)
	if level < MinLogLevel {
		return vk.Bool32(vk.False)
	}
	slog.Log(context.Background(), level, message, "layer", layerPrefix, "code", messageCode)
	return vk.Bool32(vk.False)
}

// DebugMessenger owns a debug report callback registered on the instance.
// It is stored under KindDebugMessenger so it is destroyed dead last and can
// still report mistakes made while other objects are torn down.
type DebugMessenger struct {
	Instance   *Instance
	VKCallback vk.DebugReportCallback
}

func (i *Instance) CreateDebugMessenger() (*DebugMessenger, error) {
	var callback vk.DebugReportCallback
	res := vk.CreateDebugReportCallback(i.VKInstance, &vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit |
			vk.DebugReportPerformanceWarningBit | vk.DebugReportInformationBit),
		PfnCallback: debugReportCallback,
	}, nil, &callback)
	if res != vk.Success {
		return nil, apiError("vkCreateDebugReportCallbackEXT", res)
	}
	return &DebugMessenger{Instance: i, VKCallback: callback}, nil
}

func (m *DebugMessenger) Destroy() {
	vk.DestroyDebugReportCallback(m.Instance.VKInstance, m.VKCallback, nil)
}
