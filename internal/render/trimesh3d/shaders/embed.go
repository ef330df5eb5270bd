// Package shaders provides the embedded GLSL sources of the 3D wireframe renderer.
package shaders

import _ "embed"

//go:embed trimesh3d.vert
var Trimesh3DVertexShader string

//go:embed trimesh3d.frag
var Trimesh3DFragmentShader string
