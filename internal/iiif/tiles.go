// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package iiif

import "fmt"

// Region is a rectangle in full-resolution image coordinates.
type Region struct {
	X, Y, W, H int
}

// String formats r as an Image API region segment.
func (r Region) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.W, r.H)
}

// Tile is one level 0 tile: a source region and the width it is scaled to.
type Tile struct {
	Region      Region
	ScaleFactor int
	Width       int
	Height      int
}

// Size is a width and height pair as listed in info.json.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// maxLevels bounds the halving loops.
const maxLevels = 30

// ScaleFactors returns the power-of-two scale factors for an image. The
// sequence stops at the first factor whose scaled tile exceeds both
// dimensions.
func ScaleFactors(width, height, tile int) []int {
	sfs := []int{1}
	sf := 1
	for range maxLevels {
		sf *= 2
		if tile*sf > width && tile*sf > height {
			break
		}
		sfs = append(sfs, sf)
	}
	return sfs
}

// PartialTiles returns the tiles for every scale factor whose scaled tile
// does not cover the whole image. Tiles are ordered by scale factor, then
// column, then row. Edge tiles are clipped to the image.
func PartialTiles(width, height, tile int, scaleFactors []int) []Tile {
	var tiles []Tile
	for _, sf := range scaleFactors {
		rts := tile * sf
		if rts >= width && rts >= height {
			continue
		}
		xt := (width-1)/rts + 1
		yt := (height-1)/rts + 1
		for nx := range xt {
			rx := nx * rts
			rw := min(rx+rts, width) - rx
			sw := (rw + sf - 1) / sf
			for ny := range yt {
				ry := ny * rts
				rh := min(ry+rts, height) - ry
				tiles = append(tiles, Tile{
					Region:      Region{X: rx, Y: ry, W: rw, H: rh},
					ScaleFactor: sf,
					Width:       sw,
					Height:      (rh + sf - 1) / sf,
				})
			}
		}
	}
	return tiles
}

// FullSizes returns the reduced full-image sizes a viewer may request when
// zoomed out: every halving of the image where both sides are below the
// tile size, down to 1x1.
func FullSizes(width, height, tile int) []Size {
	var sizes []Size
	for level := range 20 {
		factor := float64(int(1) << level)
		sw := int(float64(width)/factor + 0.5)
		sh := int(float64(height)/factor + 0.5)
		if sw < tile && sh < tile {
			if sw < 1 || sh < 1 {
				break
			}
			sizes = append(sizes, Size{Width: sw, Height: sh})
		}
	}
	return sizes
}

// ScaledHeight returns the height of an image of the given size scaled to
// width w, rounded to the nearest pixel.
func ScaledHeight(width, height, w int) int {
	return max(1, int(float64(height)*float64(w)/float64(width)+0.5))
}
