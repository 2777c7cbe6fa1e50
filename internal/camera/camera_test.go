package camera

import (
	"testing"

	"github.com/danmuck/stagectl/internal/stage/pxm"
)

func flatMap(w, h int) *pxm.Map {
	return &pxm.Map{Width: w, Height: h, Tiles: make([]byte, w*h)}
}

func TestSmallMapStaysCentered(t *testing.T) {
	// 5x4 tiles = 64x48 px span, well inside a 320x240 viewport.
	m := flatMap(5, 4)
	f := New(16)
	f.Update(m, 10_000*SubPixels, 10_000*SubPixels, 320, 240)

	wantX := -((320 - 4*TileSize) * SubPixels) / 2
	wantY := -((240 - 3*TileSize) * SubPixels) / 2
	if f.X != wantX || f.Y != wantY {
		t.Fatalf("got (%d,%d) want (%d,%d)", f.X, f.Y, wantX, wantY)
	}

	// Centering ignores the target entirely.
	f.Update(m, 0, 0, 320, 240)
	if f.X != wantX || f.Y != wantY {
		t.Fatalf("target must not move a centered frame: (%d,%d)", f.X, f.Y)
	}
}

func TestFrameClampsAtMapEdges(t *testing.T) {
	m := flatMap(100, 100) // 1584x1584 px span
	f := New(1)            // wait=1 snaps straight to the target

	f.Update(m, -50_000, -50_000, 320, 240)
	if f.X != 0 || f.Y != 0 {
		t.Fatalf("expected clamp at origin, got (%d,%d)", f.X, f.Y)
	}

	f.Update(m, 1<<30, 1<<30, 320, 240)
	maxX := ((m.Width-1)*TileSize - 320) * SubPixels
	maxY := ((m.Height-1)*TileSize - 240) * SubPixels
	if f.X != maxX || f.Y != maxY {
		t.Fatalf("expected clamp at far edge, got (%d,%d) want (%d,%d)", f.X, f.Y, maxX, maxY)
	}
}

func TestFramePursuesTargetGradually(t *testing.T) {
	m := flatMap(100, 100)
	f := New(16)

	target := 500 * SubPixels
	f.Update(m, target, target, 320, 240)
	wantFirst := (target - 320*SubPixels/2) / 16
	if f.X != wantFirst {
		t.Fatalf("first tick: got %d want %d", f.X, wantFirst)
	}

	// Repeated ticks converge on the target minus half the viewport.
	for i := 0; i < 500; i++ {
		f.Update(m, target, target, 320, 240)
	}
	rest := target - 320*SubPixels/2
	if diff := f.X - rest; diff < -16 || diff > 16 {
		t.Fatalf("frame did not settle: got %d want ~%d", f.X, rest)
	}
}

func TestNewDefaultsWait(t *testing.T) {
	if f := New(0); f.Wait != defaultWait {
		t.Fatalf("expected default wait, got %d", f.Wait)
	}
}
