package sigill

import (
	"fmt"
	"os"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// ShaderModule is a SPIR-V module loaded from disk. The path is remembered
// so diagnostics can name the file the module came from.
type ShaderModule struct {
	Device         *Device
	Path           string
	VKShaderModule vk.ShaderModule
}

// LoadShaderModule reads SPIR-V bytecode from file and creates a shader
// module from it. The byte length must be a multiple of four, the SPIR-V
// word size.
func (d *Device) LoadShaderModule(file string) (*ShaderModule, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading shader %s: %w", file, err)
	}
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, fmt.Errorf("shader %s is not SPIR-V: %d bytes", file, len(data))
	}

	var module vk.ShaderModule
	res := vk.CreateShaderModule(d.VKDevice, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(data)),
		PCode:    sliceUint32(data),
	}, nil, &module)
	if res != vk.Success {
		return nil, apiError("vkCreateShaderModule", res)
	}

	return &ShaderModule{Device: d, Path: file, VKShaderModule: module}, nil
}

// VKPipelineShaderStageCreateInfo describes this module as a pipeline stage.
func (s *ShaderModule) VKPipelineShaderStageCreateInfo(stage vk.ShaderStageFlagBits, entryPoint string) vk.PipelineShaderStageCreateInfo {
	return vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  stage,
		Module: s.VKShaderModule,
		PName:  safeString(entryPoint),
	}
}

func (s *ShaderModule) Destroy() {
	vk.DestroyShaderModule(s.Device.VKDevice, s.VKShaderModule, nil)
}

func sliceUint32(data []byte) []uint32 {
	const m = 0x7fffffff
	return (*[m / 4]uint32)(unsafe.Pointer((*sliceHeader)(unsafe.Pointer(&data)).Data))[:len(data)/4]
}

type sliceHeader struct {
	Data uintptr
	Len  int
	Cap  int
}
