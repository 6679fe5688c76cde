package game

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/antfarm/components"
	"github.com/pthm-cable/antfarm/systems"
)

// antSnapshot captures the read-only state steering needs for one ant.
type antSnapshot struct {
	Pos     components.Vec2
	Heading components.Vec2
	Follow  components.Category
}

// workChunk represents a range of ants for a worker to process.
type workChunk struct {
	start, end int
}

// parallelState holds resources for parallel steering.
type parallelState struct {
	threshold  int // minimum ant count to use the worker pool
	snapshots  []antSnapshot
	intents    []systems.SteerResult
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState(threshold int) *parallelState {
	if threshold < 1 {
		threshold = 1
	}
	return &parallelState{
		threshold:  threshold,
		numWorkers: runtime.GOMAXPROCS(0),
		snapshots:  make([]antSnapshot, 0, 512),
		intents:    make([]systems.SteerResult, 0, 512),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(g *Game) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(g)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker(g *Game) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			g.steerChunk(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// updateSteering moves every ant one step. Fields are only read here.
func (g *Game) updateSteering() {
	par := g.parallel

	// Phase A: Build snapshots (single-threaded)
	par.snapshots = par.snapshots[:0]
	for i := range g.ants {
		a := &g.ants[i]
		par.snapshots = append(par.snapshots, antSnapshot{
			Pos:     a.Pos,
			Heading: a.Heading,
			Follow:  a.FollowCategory(),
		})
	}

	n := len(par.snapshots)
	if n == 0 {
		return
	}

	if cap(par.intents) < n {
		par.intents = make([]systems.SteerResult, n)
	}
	par.intents = par.intents[:n]

	// Phase B: Compute
	if n < par.threshold {
		g.steerChunk(0, n)
	} else {
		g.steerParallel(n)
	}

	// Phase C: Apply intents (single-threaded)
	g.applyIntents()
}

// steerParallel dispatches chunks to the worker pool and waits for them.
func (g *Game) steerParallel(n int) {
	par := g.parallel
	if !par.running {
		par.startWorkers(g)
	}

	chunkSize := (n + par.numWorkers - 1) / par.numWorkers

	chunksDispatched := 0
	for w := 0; w < par.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		par.workChan <- workChunk{start: start, end: end}
		chunksDispatched++
	}

	for i := 0; i < chunksDispatched; i++ {
		<-par.doneChan
	}
}

// steerChunk steers ants [i0, i1). Each ant uses only its own RNG stream
// and writes only its own intent.
func (g *Game) steerChunk(i0, i1 int) {
	for i := i0; i < i1; i++ {
		snap := &g.parallel.snapshots[i]
		g.parallel.intents[i] = g.steerer.Steer(
			snap.Pos, snap.Heading, g.fields[snap.Follow], g.world, g.rngs[i],
		)
	}
}

// applyIntents writes steering results back to the ants.
func (g *Game) applyIntents() {
	explored, followed := 0, 0
	for i := range g.parallel.intents {
		res := &g.parallel.intents[i]
		a := &g.ants[i]
		a.Pos = res.Pos
		a.Heading = res.Heading
		if res.Explored {
			explored++
		} else {
			followed++
		}
	}
	g.collector.RecordSteering(explored, followed)
}

// stopParallelWorkers should be called when shutting down the game.
func (g *Game) stopParallelWorkers() {
	if g.parallel != nil {
		g.parallel.stopWorkers()
	}
}
