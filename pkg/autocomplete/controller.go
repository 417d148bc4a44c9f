/*
Package autocomplete is the place search controller that sits between a text input and a geocoder.

It debounces keystrokes, merges local and remote results under one budget, runs the
keyboard selection cycle and turns a chosen result into a map viewport.

# Flow

Each call to Input bumps a sequence number and re-arms the debounce timer. When the
timer fires the query is resolved by the Merger; the resulting list is installed only
if no newer input arrived meanwhile. Superseded requests have their context cancelled,
and whatever they still return is dropped.

	ctrl, err := autocomplete.New(opts)
	ctrl.Open()
	ctrl.Input("berl")
	t, _ := ctrl.KeyDown(autocomplete.KeyDown)
	t, _ = ctrl.KeyDown(autocomplete.KeyEnter) // OnSelect fires

All handlers are safe for concurrent use. Callbacks run outside the internal lock
and may call back into the controller.
*/
package autocomplete

import (
	"context"
	"sync"

	"github.com/bastiangx/geoserve/pkg/geocode"
	"github.com/bastiangx/geoserve/pkg/viewport"
	"github.com/charmbracelet/log"
)

// Controller owns the SearchState and every transition on it.
type Controller struct {
	opts     Options
	merger   *Merger
	debounce *Debouncer
	log      *log.Logger

	ctx      context.Context
	shutdown context.CancelFunc

	mu       sync.Mutex
	state    SearchState
	viewport viewport.Viewport
	seq      uint64
	inflight context.CancelFunc
	disposed bool
}

// New validates opts and returns a ready controller.
func New(opts Options) (*Controller, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.fillDefaults()

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		opts:     opts,
		merger:   NewMerger(opts.Client, opts.LocalGeocoder, opts.Limit, opts.QueryParams, opts.LocalOnly),
		debounce: NewDebouncer(opts.Debounce, opts.Clock),
		log:      opts.Logger,
		ctx:      ctx,
		shutdown: cancel,
		state:    SearchState{Selected: -1},
		viewport: opts.Viewport,
	}
	c.log.Debug("controller ready", "limit", opts.Limit, "debounce", opts.Debounce, "localOnly", opts.LocalOnly)
	return c, nil
}

// Input records new text and schedules a dispatch for it.
// Empty text cancels the pending dispatch and leaves the list alone.
func (c *Controller) Input(query string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return ErrDisposed
	}

	c.state.Query = query
	c.seq++
	c.cancelInflightLocked()

	seq := c.seq
	c.debounce.Schedule(query, func(q string) {
		c.dispatch(seq, q)
	})
	return nil
}

// dispatch runs on the timer goroutine.
func (c *Controller) dispatch(seq uint64, query string) {
	c.mu.Lock()
	if c.disposed || seq != c.seq {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.inflight = cancel
	c.state.Loading = true
	loading := c.state.clone()
	c.mu.Unlock()

	c.notifyChange(loading)
	c.log.Debug("dispatch", "query", query, "seq", seq)

	set, err := c.merger.Merge(ctx, query)
	cancel()

	c.mu.Lock()
	if c.disposed || seq != c.seq {
		c.mu.Unlock()
		c.log.Debug("discarding stale response", "query", query, "seq", seq)
		return
	}
	c.inflight = nil
	c.state.Loading = false

	if err != nil {
		c.state.Err = err
		snap := c.state.clone()
		c.mu.Unlock()

		c.log.Warn("lookup failed", "query", query, "err", err)
		if c.opts.OnError != nil {
			c.opts.OnError(query, err)
		}
		c.notifyChange(snap)
		return
	}

	c.state.Err = nil
	c.state.Results = set.Results
	c.state.Selected = 0
	if len(set.Results) == 0 {
		c.state.Selected = -1
	}
	snap := c.state.clone()
	c.mu.Unlock()

	c.log.Debug("results installed", "query", query, "local", set.Local, "remote", set.Remote)
	c.notifyChange(snap)
}

// KeyDown applies a navigation key and returns what the input owner should do.
func (c *Controller) KeyDown(key Key) (Transition, error) {
	c.mu.Lock()

	if c.disposed {
		c.mu.Unlock()
		return Transition{Key: key, Index: -1}, ErrDisposed
	}

	t := Navigate(key, c.state.Selected, len(c.state.Results))

	var fire func()
	switch t.Action {
	case ActionMove:
		c.state.Selected = t.Index
	case ActionClose:
		c.state.Visible = false
		c.state.Focused = false
	case ActionConfirm:
		fire = c.selectLocked(t.Index)
		c.state.Focused = false
	}
	c.mu.Unlock()

	if fire != nil {
		fire()
	}
	return t, nil
}

// Select confirms the result at index, as a click on a list row would.
func (c *Controller) Select(index int) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	if len(c.state.Results) == 0 {
		c.mu.Unlock()
		return ErrNoSelection
	}
	if index < 0 || index >= len(c.state.Results) {
		c.mu.Unlock()
		return ErrIndexOutOfRange
	}
	c.state.Selected = index
	fire := c.selectLocked(index)
	c.mu.Unlock()

	fire()
	return nil
}

// Confirm selects the currently highlighted result.
func (c *Controller) Confirm() error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	idx := c.state.Selected
	if idx < 0 || idx >= len(c.state.Results) {
		c.mu.Unlock()
		return ErrNoSelection
	}
	fire := c.selectLocked(idx)
	c.mu.Unlock()

	fire()
	return nil
}

// selectLocked resolves the viewport and updates the input. The returned
// function invokes OnSelect and must be called after unlocking.
func (c *Controller) selectLocked(index int) func() {
	r := c.state.Results[index]
	vp := viewport.Project(c.viewport, r, c.opts.PointZoom, c.opts.TransitionDuration)
	c.viewport = vp

	c.state.Query = c.opts.FormatInputItem(r)
	if c.opts.HideOnSelect {
		c.state.Visible = false
	}

	// the label we just wrote must not trigger a lookup of the old text
	c.seq++
	c.debounce.Cancel()
	c.cancelInflightLocked()

	c.log.Debug("selected", "name", r.Label(), "viewport", vp.String())
	return func() {
		c.opts.OnSelect(vp, r)
	}
}

// Open marks the input focused and the list visible.
func (c *Controller) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.state.Focused = true
	c.state.Visible = true
}

// Close marks the input blurred and hides the list.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.state.Focused = false
	c.state.Visible = false
}

// SetViewport replaces the projection base, normally the map's current camera.
func (c *Controller) SetViewport(v viewport.Viewport) {
	c.mu.Lock()
	c.viewport = v
	c.mu.Unlock()
}

// Viewport returns the projection base.
func (c *Controller) Viewport() viewport.Viewport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewport
}

// State returns a copy of the current search state.
func (c *Controller) State() SearchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Items returns the list rows formatted with FormatListItem.
func (c *Controller) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]Item, len(c.state.Results))
	for i, r := range c.state.Results {
		items[i] = Item{
			Label:    c.opts.FormatListItem(r),
			Selected: i == c.state.Selected,
			Result:   r,
		}
	}
	return items
}

// Render draws every row with r.
func (c *Controller) Render(r ItemRenderer) []string {
	items := c.Items()
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = r.RenderItem(it, i)
	}
	return out
}

// Dispose stops the timer and cancels any in-flight lookup. Further calls fail with ErrDisposed.
func (c *Controller) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	c.seq++
	c.debounce.Stop()
	c.cancelInflightLocked()
	c.mu.Unlock()

	c.shutdown()
	c.log.Debug("controller disposed")
}

func (c *Controller) cancelInflightLocked() {
	if c.inflight != nil {
		c.inflight()
		c.inflight = nil
	}
	c.state.Loading = false
}

func (c *Controller) notifyChange(s SearchState) {
	if c.opts.OnChange != nil {
		c.opts.OnChange(s)
	}
}

// Formatted returns the input label FormatInputItem gives r.
func (c *Controller) Formatted(r geocode.Result) string {
	return c.opts.FormatInputItem(r)
}
