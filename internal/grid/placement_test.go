package grid

import "testing"

var (
	viewport = Size{W: 400, H: 800}
	picker   = Size{W: 200, H: 240}
)

func TestPlaceBelowCentred(t *testing.T) {
	anchor := Rect{X: 150, Y: 100, W: 40, H: 40}
	got := Place(anchor, picker, viewport, DefaultPadding, DefaultSpacing)
	want := Point{X: 70, Y: 148}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestPlaceFlipsAbove(t *testing.T) {
	anchor := Rect{X: 150, Y: 600, W: 40, H: 40}
	got := Place(anchor, picker, viewport, DefaultPadding, DefaultSpacing)
	if got.Y != 600-240-8 {
		t.Errorf("y = %v, want %v", got.Y, 600-240-8)
	}
}

func TestPlacePinsWhenNeitherFits(t *testing.T) {
	small := Size{W: 400, H: 300}
	anchor := Rect{X: 150, Y: 120, W: 40, H: 40}
	got := Place(anchor, picker, small, DefaultPadding, DefaultSpacing)
	// max(16, 300-240-16) = 44
	if got.Y != 44 {
		t.Errorf("y = %v, want 44", got.Y)
	}

	tiny := Size{W: 400, H: 200}
	got = Place(anchor, picker, tiny, DefaultPadding, DefaultSpacing)
	if got.Y != DefaultPadding {
		t.Errorf("y = %v, want padding", got.Y)
	}
}

func TestPlaceClampsHorizontally(t *testing.T) {
	left := Place(Rect{X: 0, Y: 100, W: 40, H: 40}, picker, viewport, DefaultPadding, DefaultSpacing)
	if left.X != DefaultPadding {
		t.Errorf("left edge x = %v, want %v", left.X, DefaultPadding)
	}

	right := Place(Rect{X: 370, Y: 100, W: 30, H: 40}, picker, viewport, DefaultPadding, DefaultSpacing)
	if right.X != 400-200-16 {
		t.Errorf("right edge x = %v, want %v", right.X, 400-200-16)
	}
}

func TestPlaceStaysInsideViewport(t *testing.T) {
	for y := 0.0; y < viewport.H; y += 37 {
		for x := 0.0; x < viewport.W; x += 29 {
			p := Place(Rect{X: x, Y: y, W: 36, H: 36}, picker, viewport, DefaultPadding, DefaultSpacing)
			if p.X < DefaultPadding || p.X+picker.W > viewport.W-DefaultPadding {
				t.Fatalf("anchor (%v,%v): x = %v outside viewport", x, y, p.X)
			}
			if p.Y < DefaultPadding || p.Y+picker.H > viewport.H-DefaultPadding {
				t.Fatalf("anchor (%v,%v): y = %v outside viewport", x, y, p.Y)
			}
		}
	}
}
