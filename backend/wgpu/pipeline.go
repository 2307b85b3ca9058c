package wgpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
	types "github.com/gogpu/gputypes"
)

//go:embed shaders/composite.wgsl
var compositeShaderWGSL string

// GPUCompositeParams is the GPU-side uniform layout.
// Must match the Params struct in composite.wgsl.
type GPUCompositeParams struct {
	Width     uint32
	Height    uint32
	MaskMode  uint32
	Inverted  uint32
	Opacity   float32
	MatteMode uint32
	Pad0      uint32
	Pad1      uint32
}

// pipelines holds the compiled compute pipelines for mask and matte
// compositing on one device.
type pipelines struct {
	device hal.Device

	shaderModule   hal.ShaderModule
	inputLayout    hal.BindGroupLayout
	outputLayout   hal.BindGroupLayout
	pipelineLayout hal.PipelineLayout

	maskCombine   hal.ComputePipeline
	applyCoverage hal.ComputePipeline
	matteApply    hal.ComputePipeline

	spirvCode []uint32
}

// buildPipelines compiles the WGSL kernels and creates the compute
// pipelines on the device.
func buildPipelines(device hal.Device) (*pipelines, error) {
	spirvBytes, err := naga.Compile(compositeShaderWGSL)
	if err != nil {
		return nil, fmt.Errorf("wgpu: failed to compile composite shader: %w", err)
	}
	spirv := make([]uint32, len(spirvBytes)/4)
	for i := range spirv {
		spirv[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	p := &pipelines{device: device, spirvCode: spirv}

	p.shaderModule, err = device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: "luma_composite_shader",
		Source: hal.ShaderSource{
			SPIRV: spirv,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: failed to create shader module: %w", err)
	}

	if err := p.createLayouts(); err != nil {
		p.destroy()
		return nil, err
	}
	if err := p.createPipelines(); err != nil {
		p.destroy()
		return nil, err
	}
	return p, nil
}

func (p *pipelines) createLayouts() error {
	inputLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "luma_composite_input_layout",
		Entries: []types.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: types.ShaderStageCompute,
				Buffer: &types.BufferBindingLayout{
					Type:           types.BufferBindingTypeUniform,
					MinBindingSize: 32, // sizeof(GPUCompositeParams)
				},
			},
			{
				Binding:    1,
				Visibility: types.ShaderStageCompute,
				Buffer: &types.BufferBindingLayout{
					Type: types.BufferBindingTypeReadOnlyStorage,
				},
			},
			{
				Binding:    2,
				Visibility: types.ShaderStageCompute,
				Buffer: &types.BufferBindingLayout{
					Type: types.BufferBindingTypeReadOnlyStorage,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: failed to create input bind group layout: %w", err)
	}
	p.inputLayout = inputLayout

	outputLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "luma_composite_output_layout",
		Entries: []types.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: types.ShaderStageCompute,
				Buffer: &types.BufferBindingLayout{
					Type: types.BufferBindingTypeStorage,
				},
			},
			{
				Binding:    1,
				Visibility: types.ShaderStageCompute,
				Buffer: &types.BufferBindingLayout{
					Type: types.BufferBindingTypeStorage,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: failed to create output bind group layout: %w", err)
	}
	p.outputLayout = outputLayout

	layout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "luma_composite_pipeline_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.inputLayout, p.outputLayout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: failed to create pipeline layout: %w", err)
	}
	p.pipelineLayout = layout
	return nil
}

func (p *pipelines) createPipelines() error {
	maskCombine, err := p.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  "luma_mask_combine_pipeline",
		Layout: p.pipelineLayout,
		Compute: hal.ComputeState{
			Module:     p.shaderModule,
			EntryPoint: "cs_mask_combine",
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: failed to create mask combine pipeline: %w", err)
	}
	p.maskCombine = maskCombine

	applyCoverage, err := p.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  "luma_apply_coverage_pipeline",
		Layout: p.pipelineLayout,
		Compute: hal.ComputeState{
			Module:     p.shaderModule,
			EntryPoint: "cs_apply_coverage",
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: failed to create coverage pipeline: %w", err)
	}
	p.applyCoverage = applyCoverage

	matteApply, err := p.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  "luma_matte_apply_pipeline",
		Layout: p.pipelineLayout,
		Compute: hal.ComputeState{
			Module:     p.shaderModule,
			EntryPoint: "cs_matte_apply",
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: failed to create matte pipeline: %w", err)
	}
	p.matteApply = matteApply
	return nil
}

func (p *pipelines) destroy() {
	if p.device == nil {
		return
	}
	if p.maskCombine != nil {
		p.device.DestroyComputePipeline(p.maskCombine)
		p.maskCombine = nil
	}
	if p.applyCoverage != nil {
		p.device.DestroyComputePipeline(p.applyCoverage)
		p.applyCoverage = nil
	}
	if p.matteApply != nil {
		p.device.DestroyComputePipeline(p.matteApply)
		p.matteApply = nil
	}
	if p.pipelineLayout != nil {
		p.device.DestroyPipelineLayout(p.pipelineLayout)
		p.pipelineLayout = nil
	}
	if p.inputLayout != nil {
		p.device.DestroyBindGroupLayout(p.inputLayout)
		p.inputLayout = nil
	}
	if p.outputLayout != nil {
		p.device.DestroyBindGroupLayout(p.outputLayout)
		p.outputLayout = nil
	}
	if p.shaderModule != nil {
		p.device.DestroyShaderModule(p.shaderModule)
		p.shaderModule = nil
	}
}
