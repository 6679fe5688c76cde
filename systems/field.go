package systems

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas32"

	"github.com/pthm-cable/antfarm/components"
)

// Field is a toroidal grid of pheromone intensities in [0,1].
// One cell covers one world unit; cells are stored row-major.
type Field struct {
	W, H     int
	Category components.Category

	cells []float32
}

// NewField allocates a zeroed field. Non-positive sizes are a startup error.
func NewField(cat components.Category, w, h int) (*Field, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("field %s: size must be positive, got %dx%d", cat, w, h)
	}
	return &Field{
		W:        w,
		H:        h,
		Category: cat,
		cells:    make([]float32, w*h),
	}, nil
}

// Index maps world coordinates to a cell index. Coordinates are truncated
// toward negative infinity and wrapped, so any finite input is valid.
func (f *Field) Index(x, y float32) int {
	ix := wrapIndex(x, f.W)
	iy := wrapIndex(y, f.H)
	return iy*f.W + ix
}

// At returns the intensity of the cell containing (x, y).
func (f *Field) At(x, y float32) float32 {
	return f.cells[f.Index(x, y)]
}

// Cell returns the intensity at integer grid coordinates, wrapping out-of-range indices.
func (f *Field) Cell(ix, iy int) float32 {
	return f.cells[modInt(iy, f.H)*f.W+modInt(ix, f.W)]
}

// Deposit adds amount to the cell containing pos, saturating at 1.
func (f *Field) Deposit(pos components.Vec2, amount float32) {
	if amount <= 0 {
		return
	}
	i := f.Index(pos.X, pos.Y)
	f.cells[i] = min(f.cells[i]+amount, 1)
}

// Decay scales every cell by d. Factors outside (0,1) are clamped into it
// so decay never increases a value.
func (f *Field) Decay(d float32) {
	if d >= 1 {
		return
	}
	if d <= 0 {
		clear(f.cells)
		return
	}
	blas32.Scal(d, f.vector())
}

// Total returns the summed intensity of the field.
func (f *Field) Total() float32 {
	return blas32.Asum(f.vector())
}

// Coverage returns the fraction of cells whose intensity exceeds threshold.
func (f *Field) Coverage(threshold float32) float64 {
	n := 0
	for _, v := range f.cells {
		if v > threshold {
			n++
		}
	}
	return float64(n) / float64(len(f.cells))
}

// Snapshot returns a copy of the cells for readers outside the tick.
func (f *Field) Snapshot() []float32 {
	out := make([]float32, len(f.cells))
	copy(out, f.cells)
	return out
}

// Quantize maps intensities to 0..255 bytes, row-major, for texture upload.
func (f *Field) Quantize() []byte {
	out := make([]byte, len(f.cells))
	for i, v := range f.cells {
		out[i] = quantize(v)
	}
	return out
}

// Downsample max-pools k x k blocks into a quantized grid of size ceil(W/k) x ceil(H/k).
func (f *Field) Downsample(k int) (w, h int, data []byte) {
	if k <= 1 {
		return f.W, f.H, f.Quantize()
	}
	w = (f.W + k - 1) / k
	h = (f.H + k - 1) / k
	data = make([]byte, w*h)
	for y := 0; y < f.H; y++ {
		row := (y / k) * w
		for x := 0; x < f.W; x++ {
			q := quantize(f.cells[y*f.W+x])
			i := row + x/k
			if q > data[i] {
				data[i] = q
			}
		}
	}
	return w, h, data
}

// Load replaces the cells with data, clamping each value into [0,1].
func (f *Field) Load(data []float32) error {
	if len(data) != len(f.cells) {
		return fmt.Errorf("field %s: expected %d cells, got %d", f.Category, len(f.cells), len(data))
	}
	for i, v := range data {
		f.cells[i] = clamp01(v)
	}
	return nil
}

// Reset zeroes every cell.
func (f *Field) Reset() {
	clear(f.cells)
}

func (f *Field) vector() blas32.Vector {
	return blas32.Vector{N: len(f.cells), Inc: 1, Data: f.cells}
}

func quantize(v float32) byte {
	return byte(clamp01(v)*255 + 0.5)
}

// wrapIndex floors v and wraps it into [0, n). NaN and infinities land on 0.
func wrapIndex(v float32, n int) int {
	fv := math.Floor(float64(v))
	if math.IsNaN(fv) || math.IsInf(fv, 0) {
		return 0
	}
	i := int(math.Mod(fv, float64(n)))
	if i < 0 {
		i += n
	}
	// Guard against float rounding at the upper edge
	if i >= n {
		i = n - 1
	}
	return i
}

func modInt(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

func clamp01(x float32) float32 {
	if x < 0 || x != x {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
