package domain

import (
	"encoding/json"
	"fmt"
)

type ElementType string

const (
	ElementFrame ElementType = "frame"
	ElementText  ElementType = "text"
	ElementImage ElementType = "image"
	ElementIcon  ElementType = "icon"
)

// Valid reports whether t is one of the known element types.
func (t ElementType) Valid() bool {
	switch t {
	case ElementFrame, ElementText, ElementImage, ElementIcon:
		return true
	}
	return false
}

// Element is one node of a document's element tree.
//
// Elements reachable from a tab or a history entry are never modified in
// place; the tree package derives new trees and shares untouched subtrees.
type Element struct {
	ID       string      `json:"id"`
	Type     ElementType `json:"type"`
	Name     string      `json:"name"`
	Variavel string      `json:"variavel"` // template binding name, "" when unset
	Hidden   bool        `json:"hidden"`
	Children []*Element  `json:"children"`

	Properties Properties `json:"properties"`
}

// Rendered reports whether a renderer should draw the element.
// Hidden == true means the element is not drawn. The first web editor drew
// the opposite way round (hidden == false meant not drawn), so elements its
// users hid show up when their .crd files are opened here.
func (e *Element) Rendered() bool {
	return !e.Hidden
}

// IsContainer reports whether the element lays out children.
func (e *Element) IsContainer() bool {
	return e.Type == ElementFrame
}

type elementJSON struct {
	ID         string          `json:"id"`
	Type       ElementType     `json:"type"`
	Name       string          `json:"name"`
	Variavel   string          `json:"variavel"`
	Hidden     bool            `json:"hidden"`
	Children   []*Element      `json:"children"`
	Properties json.RawMessage `json:"properties"`
}

func (e Element) MarshalJSON() ([]byte, error) {
	children := e.Children
	if children == nil {
		children = []*Element{}
	}
	props := e.Properties
	if props == nil {
		props = EmptyProperties(e.Type)
	}
	var raw json.RawMessage = []byte("{}")
	if props != nil {
		b, err := json.Marshal(props)
		if err != nil {
			return nil, fmt.Errorf("marshal properties of %s: %w", e.ID, err)
		}
		raw = b
	}
	return json.Marshal(elementJSON{
		ID:         e.ID,
		Type:       e.Type,
		Name:       e.Name,
		Variavel:   e.Variavel,
		Hidden:     e.Hidden,
		Children:   children,
		Properties: raw,
	})
}

func (e *Element) UnmarshalJSON(data []byte) error {
	var in elementJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	props := EmptyProperties(in.Type)
	if props == nil {
		return fmt.Errorf("element %q: unknown type %q", in.ID, in.Type)
	}
	if len(in.Properties) > 0 && string(in.Properties) != "null" {
		if err := json.Unmarshal(in.Properties, props); err != nil {
			return fmt.Errorf("element %q: properties: %w", in.ID, err)
		}
	}
	if len(in.Children) == 0 {
		in.Children = nil
	}
	*e = Element{
		ID:         in.ID,
		Type:       in.Type,
		Name:       in.Name,
		Variavel:   in.Variavel,
		Hidden:     in.Hidden,
		Children:   in.Children,
		Properties: props,
	}
	return nil
}
