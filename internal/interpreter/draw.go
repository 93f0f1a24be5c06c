package interpreter

import (
	"fmt"

	"github.com/retroenv/chip8/internal/frontend"
)

// sprite describes the shape of a sprite that dxyn draws.
type sprite struct {
	rows  int
	width int // 8 or 16 pixels
}

// bytes returns the number of sprite bytes per plane.
func (s sprite) bytes() int {
	return s.rows * s.width / 8
}

// spriteShape returns the sprite shape for the row count n. A count of 0
// selects a large sprite if a quirk enables it for the current resolution.
func (i *Interpreter) spriteShape(n uint8) sprite {
	if n != 0 {
		return sprite{rows: int(n), width: 8}
	}

	highRes := i.hw.HighRes
	switch {
	case highRes && i.quirks.Dxy016x16HighRes:
		return sprite{rows: 16, width: 16}
	case !highRes && i.quirks.Dxy016x16LowRes:
		return sprite{rows: 16, width: 16}
	case !highRes && i.quirks.Dxy08x16LowRes:
		return sprite{rows: 16, width: 8}
	default:
		return sprite{}
	}
}

// draw executes dxyn: the sprite at I is XORed onto every active plane at
// position (Vx, Vy). Planes after the first one use the sprite data that
// follows the data of the previous plane.
func (i *Interpreter) draw(f frontend.Frontend, op opcode) error {
	hw := i.hw
	hw.V[0xf] = 0

	shape := i.spriteShape(op.n)
	if shape.rows == 0 {
		return nil
	}

	scale := 1
	if hw.LowResScaled() {
		scale = 2
	}
	width := hw.Width() / scale
	height := hw.Height() / scale
	originX := int(hw.V[op.x]) % width
	originY := int(hw.V[op.y]) % height

	countRows := i.quirks.DxynCountCollisionsHighRes && hw.HighRes
	collidedRows := make([]bool, shape.rows)
	clippedRows := 0

	planeIndex := 0
	for plane := range hw.Planes() {
		if hw.PlaneMask&(1<<plane) == 0 {
			continue
		}
		base := int(hw.I) + planeIndex*shape.bytes()
		planeIndex++

		for row := range shape.rows {
			y := originY + row
			if y >= height {
				if i.quirks.DxynNoWrapping {
					clippedRows = shape.rows - row
					break
				}
				y %= height
			}

			data, err := i.spriteRow(base, row, shape)
			if err != nil {
				return err
			}
			if i.drawRow(f, plane, data, shape.width, originX, y, width, scale) {
				collidedRows[row] = true
			}
		}
	}

	collisions := 0
	for _, collided := range collidedRows {
		if collided {
			collisions++
		}
	}

	switch {
	case countRows:
		hw.V[0xf] = uint8(collisions + clippedRows)
	case collisions > 0:
		hw.V[0xf] = 1
	}
	return nil
}

// spriteRow returns the pixel bits of one sprite row, the leftmost pixel
// is the highest bit.
func (i *Interpreter) spriteRow(base, row int, shape sprite) (uint16, error) {
	bytesPerRow := shape.width / 8
	var data uint16
	for b := range bytesPerRow {
		value, err := i.hw.ReadMemory(base + row*bytesPerRow + b)
		if err != nil {
			return 0, fmt.Errorf("reading sprite data: %w", err)
		}
		data = data<<8 | uint16(value)
	}
	return data, nil
}

// drawRow XORs one sprite row onto the plane and returns whether a set
// pixel was cleared.
func (i *Interpreter) drawRow(f frontend.Frontend, plane int, data uint16, spriteWidth, originX, y, width, scale int) bool {
	collision := false
	for column := range spriteWidth {
		if data&(1<<(spriteWidth-1-column)) == 0 {
			continue
		}

		x := originX + column
		if x >= width {
			if i.quirks.DxynNoWrapping {
				break
			}
			x %= width
		}

		if i.flipPixel(f, plane, x, y, scale) {
			collision = true
		}
	}
	return collision
}

// flipPixel inverts a logical pixel, which covers a scale x scale block of
// screen pixels. It returns whether a set pixel was cleared.
func (i *Interpreter) flipPixel(f frontend.Frontend, plane, x, y, scale int) bool {
	collision := false
	for dy := range scale {
		for dx := range scale {
			px, py := x*scale+dx, y*scale+dy
			old := i.hw.Pixel(plane, px, py)
			if old == 1 {
				collision = true
			}
			i.hw.SetPixel(plane, px, py, old^1, f)
		}
	}
	return collision
}

// scroll moves the content of the active planes by the given number of
// screen pixels. Vacated pixels are cleared.
func (i *Interpreter) scroll(f frontend.Frontend, dx, dy int) {
	hw := i.hw
	if i.quirks.LowResDoubleScroll && hw.LowResScaled() {
		dx *= 2
		dy *= 2
	}

	width, height := hw.Width(), hw.Height()
	source := make([]uint8, width*height)

	for plane := range hw.Planes() {
		if hw.PlaneMask&(1<<plane) == 0 {
			continue
		}

		for y := range height {
			for x := range width {
				source[y*width+x] = hw.Pixel(plane, x, y)
			}
		}

		for y := range height {
			for x := range width {
				sx, sy := x-dx, y-dy
				var bit uint8
				if sx >= 0 && sx < width && sy >= 0 && sy < height {
					bit = source[sy*width+sx]
				}
				if bit != source[y*width+x] {
					hw.SetPixel(plane, x, y, bit, f)
				}
			}
		}
	}
}

// setResolution switches between low and high resolution. The screen is
// cleared if a quirk requests it.
func (i *Interpreter) setResolution(f frontend.Frontend, highRes bool) {
	hw := i.hw
	hw.HighRes = highRes && hw.Config().AllowHighRes

	if !i.quirks.ClearOnResolutionChange {
		return
	}
	mask := hw.PlaneMask
	if i.quirks.ClearAllPlanes {
		mask = 0xf
	}
	hw.ClearPlanes(mask, f)
}
