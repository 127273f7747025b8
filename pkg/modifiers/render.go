package modifiers

import "github.com/arthur-debert/rigkit/pkg/scene"

// ApplyRenderModifiers toggles the viewport cost of every mesh below the rig:
// solidify and bevel follow enabled, subsurf stays visible with its viewport
// levels set to the render levels or to zero.
func ApplyRenderModifiers(rig *scene.Rig, enabled bool) int {
	changed := 0
	rig.Walk(func(o *scene.Object) bool {
		if !o.Alive() {
			return false
		}
		if !o.IsMesh() {
			return true
		}
		for _, m := range o.Modifiers {
			switch m.Type {
			case scene.ModSolidify, scene.ModBevel:
				m.ShowViewport = enabled
			case scene.ModSubsurf:
				m.ShowViewport = true
				m.Levels = 0
				if enabled {
					m.Levels = m.RenderLevels
				}
			default:
				continue
			}
			changed++
		}
		return true
	})
	return changed
}
