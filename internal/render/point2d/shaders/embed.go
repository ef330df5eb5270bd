// Package shaders provides the embedded GLSL sources of the 2D point renderer.
package shaders

import _ "embed"

// Point2DVertexShader projects per-vertex positions and passes the
// per-vertex color through.
//
//go:embed point2d.vert
var Point2DVertexShader string

// Point2DFragmentShader emits the interpolated color.
//
//go:embed point2d.frag
var Point2DFragmentShader string
