// Package shaders provides the embedded GLSL sources of the ground grid.
package shaders

import _ "embed"

//go:embed ground.vert
var GroundVertexShader string

//go:embed ground.frag
var GroundFragmentShader string
