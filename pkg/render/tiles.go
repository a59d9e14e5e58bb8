package render

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// tile is an inclusive pixel rectangle of the framebuffer.
type tile struct {
	index                  int
	minX, minY, maxX, maxY int
}

// bounds returns the continuous screen area the tile's pixels cover.
func (t tile) bounds() rect {
	return rect{
		minX: float64(t.minX),
		minY: float64(t.minY),
		maxX: float64(t.maxX + 1),
		maxY: float64(t.maxY + 1),
	}
}

// partitionTiles splits a w x h buffer into an across x up grid in row-major
// order. The last column and row absorb any remainder, so every pixel
// belongs to exactly one tile.
func partitionTiles(w, h, across, up int) []tile {
	tw, th := w/across, h/up
	tiles := make([]tile, 0, across*up)
	for j := range up {
		for i := range across {
			t := tile{
				index: len(tiles),
				minX:  i * tw,
				minY:  j * th,
				maxX:  (i+1)*tw - 1,
				maxY:  (j+1)*th - 1,
			}
			if i == across-1 {
				t.maxX = w - 1
			}
			if j == up-1 {
				t.maxY = h - 1
			}
			tiles = append(tiles, t)
		}
	}
	return tiles
}

// frameJob is the read-only state shared by every tile worker for one frame.
type frameJob struct {
	batch []triRef
	flags Flags
	wire  Color // wireframe color after gamma
	done  sync.WaitGroup
}

// tileScheduler owns one goroutine per tile. Each worker stays parked on
// its own start channel between frames, and a frame completes when every
// worker has passed the barrier.
type tileScheduler struct {
	tiles []tile
	start []chan *frameJob
	errs  []error
	work  func(t tile, job *frameJob)

	workers sync.WaitGroup
	running atomic.Bool
}

func newTileScheduler(tiles []tile, work func(t tile, job *frameJob)) *tileScheduler {
	s := &tileScheduler{
		tiles: tiles,
		start: make([]chan *frameJob, len(tiles)),
		errs:  make([]error, len(tiles)),
		work:  work,
	}
	s.running.Store(true)

	s.workers.Add(len(tiles))
	for i := range tiles {
		s.start[i] = make(chan *frameJob)
		go s.worker(i)
	}
	return s
}

func (s *tileScheduler) worker(i int) {
	defer s.workers.Done()
	for job := range s.start[i] {
		s.errs[i] = s.runTile(s.tiles[i], job)
		job.done.Done()
	}
}

// runTile rasterizes one tile and turns a panic into an error.
func (s *tileScheduler) runTile(t tile, job *frameJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tile %d (%d,%d)-(%d,%d): %v", t.index, t.minX, t.minY, t.maxX, t.maxY, r)
		}
	}()
	s.work(t, job)
	return nil
}

// run hands job to every worker and blocks until all of them are done.
func (s *tileScheduler) run(job *frameJob) error {
	if !s.running.Load() {
		return ErrSceneClosed
	}
	clear(s.errs)
	job.done.Add(len(s.tiles))
	for _, ch := range s.start {
		ch <- job
	}
	job.done.Wait()
	return errors.Join(s.errs...)
}

// close stops every worker. Calling it again does nothing.
func (s *tileScheduler) close() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	for _, ch := range s.start {
		close(ch)
	}
	s.workers.Wait()
}
