package renderer

import (
	"image"
)

// TileState is the lifecycle of a tile within one pass
type TileState int

const (
	TilePending TileState = iota
	TileActive
	TileDone
	TileCancelled
)

func (s TileState) String() string {
	switch s {
	case TilePending:
		return "pending"
	case TileActive:
		return "active"
	case TileDone:
		return "done"
	case TileCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID       int             // Row-major index in the grid
	Col, Row int             // Grid coordinates
	Bounds   image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	State    TileState
}

// TileGrid is a grid of tiles covering the entire image
type TileGrid struct {
	Tiles      []*Tile
	Cols, Rows int
	TileSize   int
}

// NewTileGrid creates a grid of tiles covering the entire image; edge tiles are clipped
func NewTileGrid(width, height, tileSize int) *TileGrid {
	cols := (width + tileSize - 1) / tileSize // Ceiling division
	rows := (height + tileSize - 1) / tileSize

	grid := &TileGrid{Cols: cols, Rows: rows, TileSize: tileSize}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x0 := col * tileSize
			y0 := row * tileSize
			grid.Tiles = append(grid.Tiles, &Tile{
				ID:     len(grid.Tiles),
				Col:    col,
				Row:    row,
				Bounds: image.Rect(x0, y0, min(x0+tileSize, width), min(y0+tileSize, height)),
			})
		}
	}
	return grid
}

// At returns the tile at the grid coordinates, or nil outside the grid
func (g *TileGrid) At(col, row int) *Tile {
	if col < 0 || row < 0 || col >= g.Cols || row >= g.Rows {
		return nil
	}
	return g.Tiles[row*g.Cols+col]
}

// SpiralOrder lists every tile once, unwinding a square spiral from the tile containing
// focus: right 1, down 1, left 2, up 2, right 3, ... Positions outside the grid are skipped.
func (g *TileGrid) SpiralOrder(focus image.Point) []*Tile {
	order := make([]*Tile, 0, len(g.Tiles))
	if len(g.Tiles) == 0 {
		return order
	}

	col := min(max(focus.X/g.TileSize, 0), g.Cols-1)
	row := min(max(focus.Y/g.TileSize, 0), g.Rows-1)
	order = append(order, g.At(col, row))

	directions := [4]image.Point{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	for leg := 0; len(order) < len(g.Tiles); leg++ {
		d := directions[leg%4]
		length := leg/2 + 1
		for step := 0; step < length; step++ {
			col += d.X
			row += d.Y
			if t := g.At(col, row); t != nil {
				order = append(order, t)
			}
		}
	}
	return order
}
