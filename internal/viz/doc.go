// Package viz is the terminal presentation driver for partsim.
//
// It reads a [sim.Controller] once per frame and draws the particles, the
// platform and the ground onto a colored Braille [Canvas]:
//
//   - [Camera]: original and fly-around views, mouse-drag rotation
//   - [Renderer]: point, sprite and wireframe-sphere styles
//   - [Model]: Bubble Tea program with HUD, menu and key bindings
//
// # Key Bindings
//
//	Enter      - Pause/Resume
//	Space      - Restart (re-emit every particle)
//	m / right  - Open the menu
//	o / f      - Original view / Fly around
//	arrows a s - Move the fly-around camera
//	g G v V    - Gravity and velocity up/down
//	1 2 3      - Point, sprite, sphere
//	+ -        - Size of the active style
//	x X 0      - Particles x10, /10, reset to 100
//	t          - Toggle sphere texture
//	T          - Cycle themes
//	?          - Help
//	q / Esc    - Quit
package viz
