package app

// ClipItem is a pending copy source.
type ClipItem struct {
	Name string
	Path string
}

// Clipboard holds at most one pending copy. A new copy replaces the old one.
type Clipboard struct {
	item *ClipItem
}

// Copy records name/path as the next paste source.
func (c *Clipboard) Copy(name, path string) {
	c.item = &ClipItem{Name: name, Path: path}
}

// Peek returns the pending item without clearing it.
func (c *Clipboard) Peek() (ClipItem, bool) {
	if c.item == nil {
		return ClipItem{}, false
	}
	return *c.item, true
}

// Take returns the pending item and clears the slot.
func (c *Clipboard) Take() (ClipItem, bool) {
	item, ok := c.Peek()
	c.item = nil
	return item, ok
}

func (c *Clipboard) Empty() bool {
	return c.item == nil
}

// InFlight guards paste and drop copies so that only one runs at a time.
// Only the response carrying the holder's token releases it.
type InFlight struct {
	token int64
	held  bool
}

func (g *InFlight) Held() bool {
	return g.held
}

// Acquire takes the gate for token. It fails if the gate is already held.
func (g *InFlight) Acquire(token int64) bool {
	if g.held {
		return false
	}
	g.token, g.held = token, true
	return true
}

// Release frees the gate if token is the holder's.
func (g *InFlight) Release(token int64) bool {
	if !g.held || g.token != token {
		return false
	}
	g.token, g.held = 0, false
	return true
}

// Reset frees the gate regardless of the holder.
func (g *InFlight) Reset() {
	g.token, g.held = 0, false
}
