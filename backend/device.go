package backend

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
// The host owns the device and passes it in; luma never creates one,
// so GPU resources stay shared between the animation engine and the
// rest of the host's rendering stack.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider so any
// gpucontext-compatible host plugs in directly.
type DeviceHandle = gpucontext.DeviceProvider

// TextureDescriptor describes the output texture a GPU executor
// composites a frame into.
type TextureDescriptor struct {
	// Label is an optional debug label.
	Label string
	// Width and Height are the texture dimensions in pixels.
	Width  uint32
	Height uint32
	// Format is the texture pixel format.
	Format gputypes.TextureFormat
}

// DefaultTextureDescriptor returns a descriptor for a standard
// 8-bit RGBA frame target.
func DefaultTextureDescriptor(width, height int) TextureDescriptor {
	return TextureDescriptor{
		Width:  uint32(width),
		Height: uint32(height),
		Format: gputypes.TextureFormatRGBA8Unorm,
	}
}

// NullDeviceHandle is a DeviceHandle with no device behind it, used
// when compositing stays on the CPU.
type NullDeviceHandle struct{}

// Device returns nil for the null handle.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null handle.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null handle.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns the undefined format for the null handle.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

var _ DeviceHandle = NullDeviceHandle{}
