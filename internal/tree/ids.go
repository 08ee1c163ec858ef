package tree

import (
	"github.com/google/uuid"

	"cardeditor/internal/domain"
)

// IDGenerator produces element ids.
type IDGenerator interface {
	NewID() string
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func() string

func (f IDGeneratorFunc) NewID() string { return f() }

// UUIDGenerator issues UUIDv7 ids: a millisecond timestamp followed by
// random bits.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// UniqueGenerator wraps a generator and never returns an id that is already
// taken, either by the forest it was created for or by an earlier call.
type UniqueGenerator struct {
	gen   IDGenerator
	taken map[string]struct{}
}

// NewUniqueGenerator reserves every id in forest.
func NewUniqueGenerator(gen IDGenerator, forest []*domain.Element) *UniqueGenerator {
	return &UniqueGenerator{gen: gen, taken: IDs(forest)}
}

func (g *UniqueGenerator) NewID() string {
	for {
		id := g.gen.NewID()
		if _, dup := g.taken[id]; dup || id == "" || id == CanvasID {
			continue
		}
		g.taken[id] = struct{}{}
		return id
	}
}

// CloneWithNewIDs deep-copies el, giving every element of the copy a fresh
// id. Only the top-level copy gets the " Copy" name suffix.
func CloneWithNewIDs(el *domain.Element, gen IDGenerator) *domain.Element {
	c := cloneSubtree(el, gen)
	c.Name = el.Name + " Copy"
	return c
}

func cloneSubtree(el *domain.Element, gen IDGenerator) *domain.Element {
	c := *el
	c.ID = gen.NewID()
	c.Properties = domain.CloneProperties(el.Properties)
	if len(el.Children) > 0 {
		c.Children = make([]*domain.Element, len(el.Children))
		for i, child := range el.Children {
			c.Children[i] = cloneSubtree(child, gen)
		}
	}
	return &c
}
