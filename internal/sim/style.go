package sim

import "fmt"

// Style selects how particles are drawn.
type Style int

const (
	StylePoint Style = iota
	StyleSprite
	StyleSphere
)

var styleNames = [...]string{"point", "sprite", "sphere"}

func (s Style) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return styleNames[s]
}

func (s Style) Valid() bool { return s >= StylePoint && s <= StyleSphere }

// ParseStyle accepts the style names plus the "square" alias.
func ParseStyle(name string) (Style, error) {
	switch name {
	case "point", "points":
		return StylePoint, nil
	case "sprite", "square", "billboard":
		return StyleSprite, nil
	case "sphere", "spheres":
		return StyleSphere, nil
	}
	return 0, fmt.Errorf("%w: unknown style %q", ErrConfigViolation, name)
}
