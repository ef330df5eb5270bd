// Package shaders provides the embedded GLSL sources of the billboard renderer.
package shaders

import _ "embed"

// Sprite3DVertexShader turns the centered quad to face the camera.
//
//go:embed sprite3d.vert
var Sprite3DVertexShader string

//go:embed sprite3d.frag
var Sprite3DFragmentShader string
