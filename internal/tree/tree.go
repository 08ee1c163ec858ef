// Package tree implements the pure operations on an element forest.
//
// No function in this package modifies its input. Updates copy the path from
// the root list down to the changed node and share every other subtree with
// the input, so a previous forest stays valid (for history snapshots, for
// instance) after an edit.
package tree

import (
	"cardeditor/internal/domain"
)

// CanvasID is the move destination that means "the root list".
const CanvasID = domain.SelectionCanvas

// Find returns the first element with the given id, searching depth-first.
func Find(forest []*domain.Element, id string) (*domain.Element, bool) {
	for _, el := range forest {
		if el.ID == id {
			return el, true
		}
		if found, ok := Find(el.Children, id); ok {
			return found, true
		}
	}
	return nil, false
}

// Insert appends el to the children of parentID, or to the root list when
// parentID is empty. An unknown parentID leaves the forest unchanged.
func Insert(forest []*domain.Element, el *domain.Element, parentID string) []*domain.Element {
	if parentID == "" {
		return appendElement(forest, el)
	}
	out, _ := update(forest, parentID, func(parent *domain.Element) *domain.Element {
		parent.Children = appendElement(parent.Children, el)
		return parent
	})
	return out
}

// Remove deletes the element with the given id together with its subtree.
func Remove(forest []*domain.Element, id string) []*domain.Element {
	out, _ := remove(forest, id)
	return out
}

// Move re-parents id under newParentID (CanvasID for the root list).
//
// The forest is returned unchanged when id does not exist or when the
// destination does not resolve. Moving an element into itself or one of its
// descendants returns the forest unchanged together with ErrCyclicMove.
func Move(forest []*domain.Element, id, newParentID string) ([]*domain.Element, error) {
	el, ok := Find(forest, id)
	if !ok {
		return forest, nil
	}
	if newParentID == CanvasID || newParentID == "" {
		rest, _ := remove(forest, id)
		return appendElement(rest, el), nil
	}
	if newParentID == id || Contains(el, newParentID) {
		return forest, domain.ErrCyclicMove
	}
	if _, ok := Find(forest, newParentID); !ok {
		return forest, nil
	}
	rest, _ := remove(forest, id)
	return Insert(rest, el, newParentID), nil
}

// UpdateProperty sets one property key of the element with the given id.
func UpdateProperty(forest []*domain.Element, id, key, value string) []*domain.Element {
	out, _ := update(forest, id, func(el *domain.Element) *domain.Element {
		props := el.Properties
		if props == nil {
			props = domain.EmptyProperties(el.Type)
		}
		if props == nil {
			return el
		}
		el.Properties = domain.WithProperty(props, key, value)
		return el
	})
	return out
}

// UpdateVariable sets the template binding name of an element.
func UpdateVariable(forest []*domain.Element, id, value string) []*domain.Element {
	out, _ := update(forest, id, func(el *domain.Element) *domain.Element {
		el.Variavel = value
		return el
	})
	return out
}

// ToggleHidden flips the Hidden flag of an element.
func ToggleHidden(forest []*domain.Element, id string) []*domain.Element {
	out, _ := update(forest, id, func(el *domain.Element) *domain.Element {
		el.Hidden = !el.Hidden
		return el
	})
	return out
}

// Rename sets the display name of an element.
func Rename(forest []*domain.Element, id, name string) []*domain.Element {
	out, _ := update(forest, id, func(el *domain.Element) *domain.Element {
		el.Name = name
		return el
	})
	return out
}

// Contains reports whether id names root or any element below it.
func Contains(root *domain.Element, id string) bool {
	if root == nil {
		return false
	}
	if root.ID == id {
		return true
	}
	_, ok := Find(root.Children, id)
	return ok
}

// ── internals ─────────────────────────────────────────────

// update rebuilds the path to id, handing fn a shallow copy of the target.
// It returns the input slice itself when id is not found.
func update(forest []*domain.Element, id string, fn func(*domain.Element) *domain.Element) ([]*domain.Element, bool) {
	for i, el := range forest {
		if el.ID == id {
			c := *el
			return replaceAt(forest, i, fn(&c)), true
		}
		if len(el.Children) == 0 {
			continue
		}
		if children, ok := update(el.Children, id, fn); ok {
			c := *el
			c.Children = children
			return replaceAt(forest, i, &c), true
		}
	}
	return forest, false
}

func remove(forest []*domain.Element, id string) ([]*domain.Element, bool) {
	for i, el := range forest {
		if el.ID == id {
			out := make([]*domain.Element, 0, len(forest)-1)
			out = append(out, forest[:i]...)
			out = append(out, forest[i+1:]...)
			if len(out) == 0 {
				out = nil
			}
			return out, true
		}
		if len(el.Children) == 0 {
			continue
		}
		if children, ok := remove(el.Children, id); ok {
			c := *el
			c.Children = children
			return replaceAt(forest, i, &c), true
		}
	}
	return forest, false
}

func replaceAt(forest []*domain.Element, i int, el *domain.Element) []*domain.Element {
	out := make([]*domain.Element, len(forest))
	copy(out, forest)
	out[i] = el
	return out
}

func appendElement(forest []*domain.Element, el *domain.Element) []*domain.Element {
	out := make([]*domain.Element, len(forest), len(forest)+1)
	copy(out, forest)
	return append(out, el)
}
