package telemetry

import "github.com/pthm-cable/antfarm/components"

// FieldLayer is one pheromone field quantized to 0..255 per cell, row-major.
type FieldLayer struct {
	Category string   `json:"category"`
	W        int      `json:"w"`
	H        int      `json:"h"`
	Color    [3]uint8 `json:"color"`
	Cells    []byte   `json:"cells"`
}

// AntMarker is the renderer view of one ant.
type AntMarker struct {
	X        float32 `json:"x"`
	Y        float32 `json:"y"`
	HeadingX float32 `json:"heading_x"`
	HeadingY float32 `json:"heading_y"`
	Carrying bool    `json:"carrying"`
}

// FoodState is one food source position.
type FoodState struct {
	ID int     `json:"id"`
	X  float32 `json:"x"`
	Y  float32 `json:"y"`
}

// Frame is what external renderers draw: quantized fields, ant markers and food.
type Frame struct {
	Tick        int32        `json:"tick"`
	SimTimeSec  float64      `json:"sim_time"`
	WorldWidth  float32      `json:"world_width"`
	WorldHeight float32      `json:"world_height"`
	Fields      []FieldLayer `json:"fields"`
	Ants        []AntMarker  `json:"ants"`
	Food        []FoodState  `json:"food"`
}

// NewFieldLayer builds a layer from quantized cells.
func NewFieldLayer(cat components.Category, w, h int, color components.RGB, cells []byte) FieldLayer {
	return FieldLayer{
		Category: cat.String(),
		W:        w,
		H:        h,
		Color:    [3]uint8{color.R, color.G, color.B},
		Cells:    cells,
	}
}

// AntMarkers converts ants to renderer markers.
func AntMarkers(ants []components.Ant) []AntMarker {
	out := make([]AntMarker, len(ants))
	for i := range ants {
		a := &ants[i]
		out[i] = AntMarker{
			X:        a.Pos.X,
			Y:        a.Pos.Y,
			HeadingX: a.Heading.X,
			HeadingY: a.Heading.Y,
			Carrying: a.CarryingFood,
		}
	}
	return out
}

// FoodStates converts food sources for export.
func FoodStates(sources []components.FoodSource) []FoodState {
	out := make([]FoodState, len(sources))
	for i, s := range sources {
		out[i] = FoodState{ID: s.ID, X: s.Pos.X, Y: s.Pos.Y}
	}
	return out
}
