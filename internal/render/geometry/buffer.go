// Package geometry builds the static vertex buffers shared by the renderers.
package geometry

import (
	"fmt"

	"github.com/Faultbox/midgard-render/internal/engine/gpu"
)

// StaticBuffer is a vertex buffer uploaded once and read many times.
type StaticBuffer struct {
	dev gpu.Device
	id  gpu.Buffer

	// Stride is the number of floats per vertex.
	Stride int32
	// VertexCount is len(data) / Stride.
	VertexCount int32
}

// NewStaticBuffer uploads data as an immutable vertex buffer.
// len(data) must be a multiple of stride.
func NewStaticBuffer(dev gpu.Device, data []float32, stride int32) (*StaticBuffer, error) {
	if stride <= 0 || len(data)%int(stride) != 0 {
		return nil, fmt.Errorf("static buffer: %d floats do not split into vertices of %d", len(data), stride)
	}

	id, err := dev.CreateBuffer()
	if err != nil {
		return nil, fmt.Errorf("static buffer: %w", err)
	}
	dev.BufferData(id, data, gpu.StaticDraw)

	return &StaticBuffer{
		dev:         dev,
		id:          id,
		Stride:      stride,
		VertexCount: int32(len(data)) / stride,
	}, nil
}

// ID returns the device handle of the buffer.
func (b *StaticBuffer) ID() gpu.Buffer {
	return b.id
}

// Bind binds the buffer to the array target.
func (b *StaticBuffer) Bind() {
	b.dev.BindArrayBuffer(b.id)
}

// Delete releases the buffer.
func (b *StaticBuffer) Delete() {
	if b.id != 0 {
		b.dev.DeleteBuffer(b.id)
		b.id = 0
	}
}

// Sprite quad vertices: position (XY) + texcoord (UV), drawn as a
// triangle strip.
var (
	cornerQuad = []float32{
		0.0, 0.0, 0.0, 0.0,
		1.0, 0.0, 1.0, 0.0,
		0.0, 1.0, 0.0, 1.0,
		1.0, 1.0, 1.0, 1.0,
	}
	centeredQuad = []float32{
		-0.5, +0.5, 0.0, 0.0,
		+0.5, +0.5, 1.0, 0.0,
		-0.5, -0.5, 0.0, 1.0,
		+0.5, -0.5, 1.0, 1.0,
	}
)

// QuadStride is the number of floats per sprite quad vertex.
const QuadStride = 4

// NewSpriteQuad uploads the unit quad spanning (0,0)..(1,1), used by the
// 2D rectangle and texture paths.
func NewSpriteQuad(dev gpu.Device) (*StaticBuffer, error) {
	return NewStaticBuffer(dev, cornerQuad, QuadStride)
}

// NewCenteredSpriteQuad uploads the unit quad centered on the origin,
// used by billboarded sprites.
func NewCenteredSpriteQuad(dev gpu.Device) (*StaticBuffer, error) {
	return NewStaticBuffer(dev, centeredQuad, QuadStride)
}

// DynamicBuffer is a vertex buffer re-uploaded every frame.
type DynamicBuffer struct {
	dev gpu.Device
	id  gpu.Buffer

	// Stride is the number of floats per vertex.
	Stride int32
}

// NewDynamicBuffer creates an empty buffer for vertices of stride floats.
func NewDynamicBuffer(dev gpu.Device, stride int32) (*DynamicBuffer, error) {
	if stride <= 0 {
		return nil, fmt.Errorf("dynamic buffer: invalid stride %d", stride)
	}
	id, err := dev.CreateBuffer()
	if err != nil {
		return nil, fmt.Errorf("dynamic buffer: %w", err)
	}
	return &DynamicBuffer{dev: dev, id: id, Stride: stride}, nil
}

// ID returns the device handle of the buffer.
func (b *DynamicBuffer) ID() gpu.Buffer {
	return b.id
}

// Upload replaces the contents and leaves the buffer bound to the array
// target. It returns the number of vertices uploaded.
func (b *DynamicBuffer) Upload(data []float32) int32 {
	b.dev.BufferData(b.id, data, gpu.DynamicDraw)
	return int32(len(data)) / b.Stride
}

// Delete releases the buffer.
func (b *DynamicBuffer) Delete() {
	if b.id != 0 {
		b.dev.DeleteBuffer(b.id)
		b.id = 0
	}
}
