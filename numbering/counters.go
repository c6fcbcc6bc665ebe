package numbering

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"invoicepro/metrics"
	"invoicepro/models"
	"invoicepro/session"

	"golang.org/x/sync/errgroup"
)

var ErrInvalidOverride = errors.New("document number must be a positive integer")

// FallbackError reports that the drive listing failed and both counters
// were reset to 1. It is a warning; numbering keeps working.
type FallbackError struct {
	Err error
}

func (e *FallbackError) Error() string {
	return fmt.Sprintf("could not fetch the next document number, defaulting to 1: %v", e.Err)
}

func (e *FallbackError) Unwrap() error { return e.Err }

type Status struct {
	Invoice   int    `json:"invoice"`
	Quotation int    `json:"quotation"`
	Loading   bool   `json:"loading"`
	Warning   string `json:"warning,omitempty"`
}

// Counters holds the next sequence for each kind for the current session.
// The drive listing is the source of truth; Refresh re-derives both values.
type Counters struct {
	lister Lister
	logger *slog.Logger

	mu      sync.Mutex
	next    map[models.Kind]int
	loading bool
	warning error
	// gen moves on with every refresh and reset; a refresh whose generation
	// is no longer current drops its result.
	gen uint64
}

func NewCounters(l Lister, logger *slog.Logger) *Counters {
	if logger == nil {
		logger = slog.Default()
	}
	return &Counters{
		lister: l,
		logger: logger.With("component", "numbering"),
		next:   map[models.Kind]int{models.Invoice: 1, models.Quotation: 1},
	}
}

func (c *Counters) Current(kind models.Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next[kind]
}

func (c *Counters) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := Status{
		Invoice:   c.next[models.Invoice],
		Quotation: c.next[models.Quotation],
		Loading:   c.loading,
	}
	if c.warning != nil {
		st.Warning = c.warning.Error()
	}
	return st
}

// Refresh resolves both kinds in parallel. If either listing fails both
// counters fall back to 1 and a *FallbackError is returned.
func (c *Counters) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	var inv, quo int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		inv, err = NextNumber(gctx, c.lister, models.Invoice)
		return err
	})
	g.Go(func() (err error) {
		quo, err = NextNumber(gctx, c.lister, models.Quotation)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.logger.Debug("stale refresh dropped", "error", err)
		return nil
	}
	c.loading = false
	if err != nil {
		fe := &FallbackError{Err: err}
		c.next[models.Invoice], c.next[models.Quotation] = 1, 1
		c.warning = fe
		metrics.NumberingFallback()
		c.logger.Warn("numbering fell back to 1", "error", err)
		return fe
	}
	c.next[models.Invoice], c.next[models.Quotation] = inv, quo
	c.warning = nil
	c.logger.Info("numbers refreshed", "invoice", inv, "quotation", quo)
	return nil
}

// Advance moves the kind's counter on by one after a successful export and
// returns the new value.
func (c *Counters) Advance(kind models.Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next[kind]++
	return c.next[kind]
}

// Override replaces the counter outright until the next refresh.
func (c *Counters) Override(kind models.Kind, n int) error {
	if n <= 0 {
		return ErrInvalidOverride
	}
	c.mu.Lock()
	c.next[kind] = n
	c.mu.Unlock()
	c.logger.Info("number overridden", "kind", kind, "next", n)
	return nil
}

// reset sets both counters to 1 without a warning, as when nobody is
// signed in and there is no drive to consult.
func (c *Counters) reset() {
	c.mu.Lock()
	c.next[models.Invoice], c.next[models.Quotation] = 1, 1
	c.warning = nil
	c.loading = false
	c.gen++
	c.mu.Unlock()
}

// Watch refreshes the counters each time the session signs in and resets
// them on sign-out. Refreshes run in the background under ctx. The returned
// function stops watching.
func (c *Counters) Watch(ctx context.Context, m *session.Manager) func() {
	var (
		mu    sync.Mutex
		token string
		first = true
	)
	return m.Subscribe(func(st session.State) {
		mu.Lock()
		changed := first || st.Token != token
		first, token = false, st.Token
		mu.Unlock()
		if !changed {
			return
		}
		if !st.SignedIn {
			c.reset()
			return
		}
		c.mu.Lock()
		c.loading = true
		c.mu.Unlock()
		go func() {
			_ = c.Refresh(ctx)
		}()
	})
}
