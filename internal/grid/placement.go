package grid

// Picker placement in CSS pixels.
const (
	DefaultPadding = 16
	DefaultSpacing = 8
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Rect is a viewport-relative box.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func (r Rect) Bottom() float64 { return r.Y + r.H }

// Place positions content of the given size next to anchor so it stays inside
// viewport. It goes spacing below the anchor, centred; flips above when the
// bottom would cross the padded viewport edge; and pins to the bottom edge
// when the flipped position would cross the top. Left is clamped last.
func Place(anchor Rect, content, viewport Size, padding, spacing float64) Point {
	top := anchor.Bottom() + spacing
	left := anchor.X + anchor.W/2 - content.W/2

	if top+content.H > viewport.H-padding {
		top = anchor.Y - content.H - spacing
		if top < padding {
			top = max(padding, viewport.H-content.H-padding)
		}
	}

	left = min(left, viewport.W-content.W-padding)
	left = max(left, padding)

	return Point{X: left, Y: top}
}
