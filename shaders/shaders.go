package shaders

import (
	_ "embed"
)

//go:embed cubes.wgsl
var CubesWGSL string

//go:embed frame.wgsl
var FrameWGSL string
