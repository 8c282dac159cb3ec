package renderer

import (
	"fmt"
	"image"
	"testing"
)

func TestNewTileGrid(t *testing.T) {
	grid := NewTileGrid(100, 70, 32)
	if grid.Cols != 4 || grid.Rows != 3 {
		t.Fatalf("Expected 4x3 grid, got %dx%d", grid.Cols, grid.Rows)
	}
	last := grid.At(3, 2)
	if want := image.Rect(96, 64, 100, 70); last.Bounds != want {
		t.Errorf("Expected clipped corner tile %v, got %v", want, last.Bounds)
	}
	if grid.At(4, 0) != nil || grid.At(0, -1) != nil {
		t.Error("Expected nil outside the grid")
	}
	for i, tile := range grid.Tiles {
		if tile.ID != i {
			t.Errorf("Expected tile %d to have ID %d, got %d", i, i, tile.ID)
		}
		if tile.State != TilePending {
			t.Errorf("Expected new tile to be pending, got %v", tile.State)
		}
	}
}

func TestSpiralOrder_CoversFilmOnce(t *testing.T) {
	tests := []struct {
		width, height, tileSize int
		focus                   image.Point
	}{
		{64, 64, 16, image.Pt(32, 32)},
		{100, 70, 32, image.Pt(50, 35)},
		{1, 1, 32, image.Pt(0, 0)},
		{200, 20, 16, image.Pt(0, 0)},
		{20, 200, 16, image.Pt(19, 199)},
		{97, 61, 7, image.Pt(90, 3)},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%dx%d/%d", tt.width, tt.height, tt.tileSize), func(t *testing.T) {
			grid := NewTileGrid(tt.width, tt.height, tt.tileSize)
			order := grid.SpiralOrder(tt.focus)

			if len(order) != len(grid.Tiles) {
				t.Fatalf("Expected %d tiles, got %d", len(grid.Tiles), len(order))
			}
			seen := make(map[int]bool)
			for _, tile := range order {
				if seen[tile.ID] {
					t.Errorf("Tile %d appears twice", tile.ID)
				}
				seen[tile.ID] = true
			}

			coverage := make([]int, tt.width*tt.height)
			for _, tile := range order {
				for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
					for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
						coverage[y*tt.width+x]++
					}
				}
			}
			for i, c := range coverage {
				if c != 1 {
					t.Fatalf("Expected pixel (%d, %d) covered once, got %d", i%tt.width, i/tt.width, c)
				}
			}

			if !tt.focus.In(order[0].Bounds) {
				t.Errorf("Expected first tile to contain focus %v, got %v", tt.focus, order[0].Bounds)
			}
		})
	}
}

func TestSpiralOrder_RingsAroundCenter(t *testing.T) {
	grid := NewTileGrid(80, 80, 16)
	order := grid.SpiralOrder(image.Pt(40, 40))

	// The first nine tiles form the 3x3 block around the center tile
	for i, tile := range order[:9] {
		if tile.Col < 1 || tile.Col > 3 || tile.Row < 1 || tile.Row > 3 {
			t.Errorf("Expected tile %d in the inner ring, got (%d, %d)", i, tile.Col, tile.Row)
		}
	}
	if order[1].Col != 3 || order[1].Row != 2 {
		t.Errorf("Expected spiral to step right first, got (%d, %d)", order[1].Col, order[1].Row)
	}
}

func TestTileState_String(t *testing.T) {
	states := map[TileState]string{
		TilePending:   "pending",
		TileActive:    "active",
		TileDone:      "done",
		TileCancelled: "cancelled",
		TileState(9):  "unknown",
	}
	for state, want := range states {
		if got := state.String(); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	}
}
