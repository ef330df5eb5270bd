// Package shaders provides the embedded GLSL sources of the flat 3D
// texture renderer.
package shaders

import _ "embed"

// Horizontal3DVertexShader lays the centered quad on the XZ plane, scaled
// by size, then applies model, view and projection.
//
//go:embed horizontal3d.vert
var Horizontal3DVertexShader string

// Horizontal3DFragmentShader modulates the texture by color.
//
//go:embed horizontal3d.frag
var Horizontal3DFragmentShader string
