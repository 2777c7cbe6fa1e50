// Package camera implements the follow-camera update. Positions are in
// 0x200 sub-pixel units over 16-pixel tiles; the frame origin chases a
// target, centering on axes where the map is smaller than the canvas
// and clamping to the map edge otherwise.
package camera

import "github.com/danmuck/stagectl/internal/stage/pxm"

const (
	// SubPixels is the number of sub-pixel units per pixel.
	SubPixels = 0x200
	// TileSize is the tile edge length in pixels.
	TileSize = 16
)

// Frame is the camera origin in sub-pixel units. Wait divides the
// remaining distance to the target each tick; larger values follow
// more loosely.
type Frame struct {
	X, Y int
	Wait int
}

const defaultWait = 16

func New(wait int) *Frame {
	if wait <= 0 {
		wait = defaultWait
	}
	return &Frame{Wait: wait}
}

// Update advances the frame one tick toward (targetX, targetY), both in
// sub-pixel units. canvasW and canvasH are the viewport size in pixels.
func (f *Frame) Update(m *pxm.Map, targetX, targetY, canvasW, canvasH int) {
	f.X = follow(f.X, targetX, m.Width, canvasW, f.Wait)
	f.Y = follow(f.Y, targetY, m.Height, canvasH, f.Wait)
}

func follow(pos, target, tiles, canvas, wait int) int {
	span := (tiles - 1) * TileSize
	if span < canvas {
		// Map smaller than the viewport: park the origin so the map
		// sits centered, ignoring the target.
		return -((canvas - span) * SubPixels) / 2
	}

	pos += (target - canvas*SubPixels/2 - pos) / wait
	if pos < 0 {
		pos = 0
	}
	if max := (span - canvas) * SubPixels; pos > max {
		pos = max
	}
	return pos
}
