package progress

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultInterval is the sampling cadence used when none is given.
const DefaultInterval = time.Millisecond

// Source reports queue depth. rowqueue.Queue satisfies it.
type Source interface {
	Remaining() int
	Height() int
}

// Renderer draws progress samples. Render is only ever called from the
// monitor goroutine.
type Renderer interface {
	Render(percent float64)
	Clear()
}

// Monitor samples a Source at a fixed interval until stopped.
type Monitor struct {
	source   Source
	renderer Renderer
	interval time.Duration

	done     atomic.Bool
	started  sync.Once
	stopped  sync.Once
	wake     chan struct{}
	finished chan struct{}

	last    float64
	samples int
}

// NewMonitor builds a monitor. A nil renderer selects NopRenderer.
func NewMonitor(source Source, renderer Renderer, interval time.Duration) *Monitor {
	if renderer == nil {
		renderer = NopRenderer{}
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		source:   source,
		renderer: renderer,
		interval: interval,
		wake:     make(chan struct{}),
		finished: make(chan struct{}),
		last:     -1,
	}
}

// Start launches the sampling goroutine. Calling it more than once is a no-op.
func (m *Monitor) Start() {
	m.started.Do(func() {
		go m.loop()
	})
}

// Stop sets the completion flag and waits for the sampling goroutine to
// render its final sample and clear the line.
func (m *Monitor) Stop() {
	m.Start()
	m.stopped.Do(func() {
		m.done.Store(true)
		close(m.wake)
	})
	<-m.finished
}

// Samples returns how many samples were rendered. Valid after Stop.
func (m *Monitor) Samples() int {
	return m.samples
}

// Last returns the final rendered percentage. Valid after Stop.
func (m *Monitor) Last() float64 {
	return m.last
}

func (m *Monitor) loop() {
	defer close(m.finished)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		m.sample()
		if m.done.Load() {
			// The previous sample may predate the last claim; take one more
			// so the final render reflects the drained queue.
			m.sample()
			m.renderer.Clear()
			return
		}
		select {
		case <-ticker.C:
		case <-m.wake:
		}
	}
}

func (m *Monitor) sample() {
	p := Percent(m.source.Remaining(), m.source.Height())
	if p < m.last {
		p = m.last
	}
	m.last = p
	m.samples++
	m.renderer.Render(p)
}

// Percent converts a remaining count into a completion percentage in [0, 100].
func Percent(remaining, height int) float64 {
	if height <= 0 {
		return 100
	}
	switch {
	case remaining <= 0:
		return 100
	case remaining >= height:
		return 0
	}
	return 100 * (1 - float64(remaining)/float64(height))
}
