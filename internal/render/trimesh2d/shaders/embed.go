// Package shaders provides the embedded GLSL sources of the 2D shape renderer.
package shaders

import _ "embed"

// Trimesh2DVertexShader scales the base geometry by size, then applies
// model and projection.
//
//go:embed trimesh2d.vert
var Trimesh2DVertexShader string

// Trimesh2DFragmentShader emits the flat color uniform.
//
//go:embed trimesh2d.frag
var Trimesh2DFragmentShader string
