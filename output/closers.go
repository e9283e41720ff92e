package output

import "sync"

// closeCallbacks collects the functions to be called once a display surface
// is closed by its user.
type closeCallbacks struct {
	mux   sync.Mutex
	fns   []func()
	fired bool
}

// add registers fn. If the surface is already closed, fn is called
// immediately.
func (c *closeCallbacks) add(fn func()) {
	c.mux.Lock()
	if c.fired {
		c.mux.Unlock()
		fn()
		return
	}
	c.fns = append(c.fns, fn)
	c.mux.Unlock()
}

// fire calls every registered function exactly once.
func (c *closeCallbacks) fire() {
	c.mux.Lock()
	if c.fired {
		c.mux.Unlock()
		return
	}
	c.fired = true
	fns := c.fns
	c.fns = nil
	c.mux.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (c *closeCallbacks) isFired() bool {
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.fired
}
