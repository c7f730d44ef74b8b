package viz

import (
	"github.com/san-kum/partsim/internal/sim"
)

// Action is a user command reachable from the menu or a hotkey.
type Action int

const (
	ActNone Action = iota
	ActOriginalView
	ActFlyAround
	ActGravityUp
	ActGravityDown
	ActVelocityUp
	ActVelocityDown
	ActPoint
	ActSprite
	ActSphere
	ActPointBigger
	ActPointSmaller
	ActSpriteBigger
	ActSpriteSmaller
	ActSlicesMore
	ActSlicesFewer
	ActCountReset
	ActCountGrow
	ActCountShrink
	ActTexture
	ActQuit
)

// MenuItem pairs a label with its action.
type MenuItem struct {
	Label  string
	Action Action
}

// MenuItems lists the menu in display order.
var MenuItems = []MenuItem{
	{"Original View", ActOriginalView},
	{"Fly Around", ActFlyAround},
	{"+ Gravity", ActGravityUp},
	{"- Gravity", ActGravityDown},
	{"+ Velocity", ActVelocityUp},
	{"- Velocity", ActVelocityDown},
	{"Point", ActPoint},
	{"Square", ActSprite},
	{"Sphere", ActSphere},
	{"+ Point size", ActPointBigger},
	{"- Point size", ActPointSmaller},
	{"+ Square size", ActSpriteBigger},
	{"- Square size", ActSpriteSmaller},
	{"+ Slices and Stacks", ActSlicesMore},
	{"- Slices and Stacks", ActSlicesFewer},
	{"100 points", ActCountReset},
	{"x10 points", ActCountGrow},
	{"/10 points", ActCountShrink},
	{"On/Off texture", ActTexture},
	{"Quit", ActQuit},
}

// Menu is a vertical list with a cursor.
type Menu struct {
	Open   bool
	Cursor int
}

func (m *Menu) Show() { m.Open, m.Cursor = true, 0 }
func (m *Menu) Hide() { m.Open = false }

func (m *Menu) Prev() {
	m.Cursor = (m.Cursor - 1 + len(MenuItems)) % len(MenuItems)
}

func (m *Menu) Next() {
	m.Cursor = (m.Cursor + 1) % len(MenuItems)
}

// Selected returns the highlighted action and closes the menu.
func (m *Menu) Selected() Action {
	m.Open = false
	return MenuItems[m.Cursor].Action
}

// apply runs a on the controller and camera. It reports whether the program
// should quit.
func apply(a Action, c *sim.Controller, cam *Camera) (quit bool, err error) {
	switch a {
	case ActOriginalView:
		cam.Original()
	case ActFlyAround:
		cam.Fly()
	case ActGravityUp:
		c.IncreaseGravity()
	case ActGravityDown:
		err = c.DecreaseGravity()
	case ActVelocityUp:
		c.IncreaseVelocity()
	case ActVelocityDown:
		err = c.DecreaseVelocity()
	case ActPoint:
		err = c.SetRenderStyle(sim.StylePoint)
	case ActSprite:
		err = c.SetRenderStyle(sim.StyleSprite)
	case ActSphere:
		err = c.SetRenderStyle(sim.StyleSphere)
	case ActPointBigger:
		err = c.IncreasePointSize()
	case ActPointSmaller:
		err = c.DecreasePointSize()
	case ActSpriteBigger:
		err = c.IncreaseSpriteSize()
	case ActSpriteSmaller:
		err = c.DecreaseSpriteSize()
	case ActSlicesMore:
		err = c.IncreaseSphereSlices()
	case ActSlicesFewer:
		err = c.DecreaseSphereSlices()
	case ActCountReset:
		err = c.ResetParticleCount()
	case ActCountGrow:
		err = c.GrowParticles()
	case ActCountShrink:
		err = c.ShrinkParticles()
	case ActTexture:
		err = c.ToggleTexture()
	case ActQuit:
		return true, nil
	}
	return false, err
}

// sizeAction picks the grow or shrink action for the active style.
func sizeAction(s sim.Style, grow bool) Action {
	switch s {
	case sim.StyleSprite:
		if grow {
			return ActSpriteBigger
		}
		return ActSpriteSmaller
	case sim.StyleSphere:
		if grow {
			return ActSlicesMore
		}
		return ActSlicesFewer
	}
	if grow {
		return ActPointBigger
	}
	return ActPointSmaller
}
