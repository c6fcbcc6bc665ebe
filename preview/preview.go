// Package preview coalesces bursts of preview requests into one render of
// the most recent snapshot.
package preview

import (
	"log/slog"
	"sync"
	"time"

	"invoicepro/models"
)

type Renderer interface {
	Render(s models.Snapshot) ([]byte, error)
}

// Result is a finished preview. Generation identifies the request that
// produced it.
type Result struct {
	Generation uint64
	PDF        []byte
	Err        error
	RenderedAt time.Time
}

// Coalescer waits delay after the last Schedule call before rendering. A new
// Schedule cancels a render that has not started, and a render that
// finishes after a newer request was scheduled is thrown away.
type Coalescer struct {
	renderer Renderer
	delay    time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	gen    uint64
	timer  *time.Timer
	latest Result
	done   bool
}

func New(r Renderer, delay time.Duration, logger *slog.Logger) *Coalescer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coalescer{renderer: r, delay: delay, logger: logger.With("component", "preview")}
}

// Schedule queues a render of s and returns its generation.
func (c *Coalescer) Schedule(s models.Snapshot) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	gen := c.gen
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.delay, func() { c.run(gen, s) })
	return gen
}

func (c *Coalescer) run(gen uint64, s models.Snapshot) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	pdf, err := c.renderer.Render(s)
	if err != nil {
		c.logger.Warn("preview render failed", "generation", gen, "error", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.logger.Debug("preview superseded", "generation", gen, "latest", c.gen)
		return
	}
	c.latest = Result{Generation: gen, PDF: pdf, Err: err, RenderedAt: time.Now()}
	c.done = true
}

// Latest returns the newest completed preview, if any, and the generation of
// the newest scheduled request.
func (c *Coalescer) Latest() (Result, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest, c.gen, c.done
}

// Stop drops any pending render.
func (c *Coalescer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
	}
}
