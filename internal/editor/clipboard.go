package editor

import (
	"cardeditor/internal/domain"
	"cardeditor/internal/tree"
)

// Clipboard is a single slot holding a detached copy of one subtree. It is
// shared by all tabs.
type Clipboard struct {
	el *domain.Element
}

// Set stores a deep copy of el, replacing whatever was held.
func (c *Clipboard) Set(el *domain.Element) {
	c.el = tree.CopyElement(el)
}

// Get returns a deep copy of the held subtree, or nil when empty.
func (c *Clipboard) Get() *domain.Element {
	return tree.CopyElement(c.el)
}

func (c *Clipboard) Empty() bool { return c.el == nil }

func (c *Clipboard) Clear() { c.el = nil }
