package tui

import (
	"sync"

	"github.com/ChristianF88/fjsort/steps"
)

// RenderCache keeps the rendered text of every step that has been shown,
// so paging back and forth does not rebuild it.
type RenderCache struct {
	mu    sync.RWMutex
	texts map[int]string
}

func NewRenderCache() *RenderCache {
	return &RenderCache{texts: make(map[int]string)}
}

// Get returns the rendered text for step index i, rendering it on a miss.
func (c *RenderCache) Get(i int, step steps.Step[float64]) string {
	c.mu.RLock()
	text, ok := c.texts[i]
	c.mu.RUnlock()
	if ok {
		return text
	}

	text = RenderStep(step)
	c.mu.Lock()
	c.texts[i] = text
	c.mu.Unlock()
	return text
}

// PreRender fills the cache for all steps in the background.
func (c *RenderCache) PreRender(recorded []steps.Step[float64]) {
	for i, s := range recorded {
		c.Get(i, s)
	}
}

func (c *RenderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.texts)
}
