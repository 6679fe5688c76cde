package systems

import (
	"github.com/dhconnelly/rtreego"

	"github.com/pthm-cable/antfarm/components"
)

// foodPointTol is the half-extent of the degenerate rectangle stored per source.
const foodPointTol = 0.01

// foodEntry adapts a FoodSource to rtreego.Spatial.
type foodEntry struct {
	src  components.FoodSource
	rect rtreego.Rect
}

func (e *foodEntry) Bounds() rtreego.Rect { return e.rect }

// FoodIndex answers proximity queries over the static food sources.
// Queries are toroidal: near an edge the wrapped images of the query disc are
// searched too.
type FoodIndex struct {
	world   World
	sources []components.FoodSource
	tree    *rtreego.Rtree
}

// NewFoodIndex builds the index. Source positions are wrapped into the world.
func NewFoodIndex(world World, sources []components.FoodSource) *FoodIndex {
	idx := &FoodIndex{
		world:   world,
		sources: make([]components.FoodSource, len(sources)),
	}
	spatials := make([]rtreego.Spatial, len(sources))
	for i, s := range sources {
		s.Pos = world.Wrap(s.Pos)
		idx.sources[i] = s
		spatials[i] = &foodEntry{
			src:  s,
			rect: rtreego.Point{float64(s.Pos.X), float64(s.Pos.Y)}.ToRect(foodPointTol),
		}
	}
	idx.tree = rtreego.NewTree(2, 2, 8, spatials...)
	return idx
}

// Sources returns the indexed food sources.
func (idx *FoodIndex) Sources() []components.FoodSource {
	return idx.sources
}

// Len returns the number of food sources.
func (idx *FoodIndex) Len() int {
	return len(idx.sources)
}

// Near reports whether any source lies strictly within r of pos.
func (idx *FoodIndex) Near(pos components.Vec2, r float32) bool {
	if r <= 0 || len(idx.sources) == 0 {
		return false
	}
	found := false
	idx.search(pos, r, func(src components.FoodSource) bool {
		if idx.world.Dist(pos, src.Pos) < r {
			found = true
			return true
		}
		return false
	})
	return found
}

// search visits candidate sources whose bounds intersect the query square
// around pos and each of its wrapped images. visit returns true to stop.
func (idx *FoodIndex) search(pos components.Vec2, r float32, visit func(components.FoodSource) bool) {
	p := idx.world.Wrap(pos)
	xs := []float32{p.X}
	ys := []float32{p.Y}
	if p.X-r < 0 {
		xs = append(xs, p.X+idx.world.W)
	}
	if p.X+r >= idx.world.W {
		xs = append(xs, p.X-idx.world.W)
	}
	if p.Y-r < 0 {
		ys = append(ys, p.Y+idx.world.H)
	}
	if p.Y+r >= idx.world.H {
		ys = append(ys, p.Y-idx.world.H)
	}

	side := 2 * float64(r)
	for _, x := range xs {
		for _, y := range ys {
			bb, err := rtreego.NewRect(rtreego.Point{float64(x - r), float64(y - r)}, []float64{side, side})
			if err != nil {
				continue
			}
			for _, hit := range idx.tree.SearchIntersect(bb) {
				if visit(hit.(*foodEntry).src) {
					return
				}
			}
		}
	}
}
