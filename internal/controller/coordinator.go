// Package controller implements the client-side synchronization core: the
// search, trade, and portfolio controllers and the coordinator that links
// trade completion to portfolio refresh. Controllers hold no rendering
// concerns; the TUI drives them and owns loading indicators.
package controller

import "sync"

// View is the coordinator's navigation state. Switching views has no
// network effect.
type View int

const (
	ViewDashboard View = iota
	ViewPortfolio
)

// Coordinator owns the refresh epoch: a monotonically increasing counter
// bumped exactly once per completed trade. Its absolute value is
// meaningless; distinctness is the re-fetch trigger. The dependency is
// made explicit through Subscribe rather than a shared global the
// portfolio side polls.
type Coordinator struct {
	mu         sync.Mutex
	activeView View
	epoch      int
	subs       []func(epoch int)
}

// NewCoordinator returns a Coordinator at epoch 0 showing the dashboard.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Epoch returns the current refresh epoch.
func (c *Coordinator) Epoch() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// ActiveView returns the current navigation state.
func (c *Coordinator) ActiveView() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeView
}

// SetActiveView switches the visible view.
func (c *Coordinator) SetActiveView(v View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeView = v
}

// Subscribe registers fn to run on every epoch change. Subscribers are
// invoked synchronously, outside the coordinator lock, in registration
// order.
func (c *Coordinator) Subscribe(fn func(epoch int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// OnTradeComplete increments the epoch and notifies subscribers. It is the
// sole epoch writer and the only cross-controller signal in the system.
// Returns the new epoch.
func (c *Coordinator) OnTradeComplete() int {
	c.mu.Lock()
	c.epoch++
	epoch := c.epoch
	subs := make([]func(int), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(epoch)
	}
	return epoch
}
