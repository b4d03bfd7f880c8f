package mapview

import (
	"math"
)

// Cell is a marker placed on a character grid.
type Cell struct {
	Col, Row int
	Marker   Marker
}

// Viewport maps (lng, lat) onto a Width x Height grid around Center. At
// zoom z the grid spans 360/2^z degrees of longitude, as a 256px web map
// tile would; latitude uses the same scale halved to offset the taller
// shape of terminal cells.
type Viewport struct {
	Width, Height int
	Center        [2]float64
	Zoom          float64
}

func (v Viewport) degreesPerCol() float64 {
	return 360 / math.Pow(2, v.Zoom) / float64(max(v.Width, 1))
}

// Project returns the grid cell for a coordinate and whether it is visible.
func (v Viewport) Project(lng, lat float64) (col, row int, ok bool) {
	if v.Width <= 0 || v.Height <= 0 {
		return 0, 0, false
	}
	dx := v.degreesPerCol()
	dy := dx * 2
	col = int(math.Floor((lng-v.Center[0])/dx)) + v.Width/2
	row = v.Height/2 - int(math.Floor((lat-v.Center[1])/dy)) - 1
	ok = col >= 0 && col < v.Width && row >= 0 && row < v.Height
	return col, row, ok
}

// Place projects every marker and returns the visible ones. When several
// markers share a cell the first one wins.
func (v Viewport) Place(markers []Marker) []Cell {
	taken := make(map[[2]int]bool, len(markers))
	cells := make([]Cell, 0, len(markers))
	for _, m := range markers {
		col, row, ok := v.Project(m.Lng(), m.Lat())
		if !ok || taken[[2]int{col, row}] {
			continue
		}
		taken[[2]int{col, row}] = true
		cells = append(cells, Cell{Col: col, Row: row, Marker: m})
	}
	return cells
}
