// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MaxLights is the size of the light uniform arrays in PhongFragmentShader.
// Keep in sync with MAX_LIGHTS in phong.frag.
const MaxLights = 8

// DepthVertexShader transforms geometry into a light's clip space.
//
//go:embed depth.vert
var DepthVertexShader string

// DepthFragmentShader writes depth only.
//
//go:embed depth.frag
var DepthFragmentShader string

// PhongVertexShader is the vertex shader for the main shading pass.
//
//go:embed phong.vert
var PhongVertexShader string

// PhongFragmentShader shades with Blinn-Phong and samples one shadow layer per light.
//
//go:embed phong.frag
var PhongFragmentShader string
