package tree

import (
	"fmt"

	"cardeditor/internal/domain"
)

// WalkFunc is called for every element in depth-first order. parent is nil
// for root elements. Returning false skips the element's children.
type WalkFunc func(el, parent *domain.Element, depth int) bool

// Walk visits every element of the forest depth-first.
func Walk(forest []*domain.Element, fn WalkFunc) {
	walk(forest, nil, 0, fn)
}

func walk(forest []*domain.Element, parent *domain.Element, depth int, fn WalkFunc) {
	for _, el := range forest {
		if fn(el, parent, depth) {
			walk(el.Children, el, depth+1, fn)
		}
	}
}

// IDs returns the set of ids present in the forest.
func IDs(forest []*domain.Element) map[string]struct{} {
	ids := make(map[string]struct{})
	Walk(forest, func(el, _ *domain.Element, _ int) bool {
		ids[el.ID] = struct{}{}
		return true
	})
	return ids
}

// Count returns the number of elements in the forest.
func Count(forest []*domain.Element) int {
	n := 0
	Walk(forest, func(*domain.Element, *domain.Element, int) bool {
		n++
		return true
	})
	return n
}

// DeepCopy returns a forest sharing no elements, slices or maps with the input.
func DeepCopy(forest []*domain.Element) []*domain.Element {
	if forest == nil {
		return nil
	}
	out := make([]*domain.Element, len(forest))
	for i, el := range forest {
		out[i] = CopyElement(el)
	}
	return out
}

// CopyElement deep-copies one element and its subtree, keeping ids.
func CopyElement(el *domain.Element) *domain.Element {
	if el == nil {
		return nil
	}
	c := *el
	c.Properties = domain.CloneProperties(el.Properties)
	c.Children = DeepCopy(el.Children)
	return &c
}

// Validate checks the invariants a loaded forest must satisfy: every element
// has a non-empty, unique id and a known type.
func Validate(forest []*domain.Element) error {
	seen := make(map[string]struct{})
	var err error
	Walk(forest, func(el, _ *domain.Element, _ int) bool {
		if err != nil {
			return false
		}
		switch {
		case el == nil:
			err = fmt.Errorf("null element")
		case el.ID == "":
			err = fmt.Errorf("element %q has no id", el.Name)
		case !el.Type.Valid():
			err = fmt.Errorf("element %s has unknown type %q", el.ID, el.Type)
		default:
			if _, dup := seen[el.ID]; dup {
				err = fmt.Errorf("duplicate element id %s", el.ID)
			}
			seen[el.ID] = struct{}{}
		}
		return err == nil
	})
	return err
}
