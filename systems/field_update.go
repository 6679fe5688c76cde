package systems

import "github.com/pthm-cable/antfarm/components"

// Fields holds one Field per pheromone category.
type Fields [components.NumCategories]*Field

// NewFields allocates a zeroed field for every category.
func NewFields(w, h int) (Fields, error) {
	var fs Fields
	for _, cat := range components.Categories() {
		f, err := NewField(cat, w, h)
		if err != nil {
			return Fields{}, err
		}
		fs[cat] = f
	}
	return fs, nil
}

// Get returns the field for cat.
func (fs *Fields) Get(cat components.Category) *Field {
	return fs[cat]
}

// PheromoneTable holds per-category parameters indexed by category tag.
type PheromoneTable [components.NumCategories]components.PheromoneParams

// UpdateFields runs the field update step: each ant deposits into the field
// matching its carrying state, then every field decays once.
//
// Deposits are applied serially so ants sharing a cell accumulate (saturating
// at 1) instead of racing. This must run after steering within a tick, so
// steering always reads the previous tick's deposits.
func UpdateFields(fs *Fields, ants []components.Ant, params *PheromoneTable) {
	for i := range ants {
		a := &ants[i]
		cat := a.DepositCategory()
		fs[cat].Deposit(a.Pos, params[cat].Increment)
	}
	for _, cat := range components.Categories() {
		fs[cat].Decay(params[cat].Decay)
	}
}
