// Package shaders provides the embedded GLSL sources of the 2D texture renderer.
package shaders

import _ "embed"

// Texture2DVertexShader places the unit quad at size and offset, in pixels.
//
//go:embed texture2d.vert
var Texture2DVertexShader string

// Texture2DFragmentShader modulates the texture by color and discards
// fully transparent texels.
//
//go:embed texture2d.frag
var Texture2DFragmentShader string
