package glbackend

import "github.com/DevonLowjamski/canopy/engine/core"

// Compile-time checks that the backend resource types satisfy the sealed
// core handle interfaces.
var (
	_ core.Texture  = (*texture)(nil)
	_ core.Mesh     = (*mesh)(nil)
	_ core.Pipeline = (*pipeline)(nil)
	_ core.Renderer = (*RendererGL)(nil)
)
