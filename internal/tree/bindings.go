package tree

import (
	"cardeditor/internal/domain"
)

// Binding describes an element tagged with a template variable.
type Binding struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Variavel string             `json:"variavel"`
	Type     domain.ElementType `json:"type"`
	Key      string             `json:"key"`   // property filled by ApplyBindings
	Value    string             `json:"value"` // current value of Key
}

// BindingKey is the property a template value replaces for each type.
func BindingKey(t domain.ElementType) string {
	switch t {
	case domain.ElementText:
		return "content"
	case domain.ElementImage:
		return "file"
	case domain.ElementIcon:
		return "iconName"
	case domain.ElementFrame:
		return "backgroundImage"
	}
	return ""
}

// Bindings lists every element with a non-empty variable name, in document
// order.
func Bindings(forest []*domain.Element) []Binding {
	var out []Binding
	Walk(forest, func(el, _ *domain.Element, _ int) bool {
		if el.Variavel == "" {
			return true
		}
		key := BindingKey(el.Type)
		value, _ := domain.GetProperty(el.Properties, key)
		out = append(out, Binding{
			ID:       el.ID,
			Name:     el.Name,
			Variavel: el.Variavel,
			Type:     el.Type,
			Key:      key,
			Value:    value,
		})
		return true
	})
	return out
}

// ApplyBindings fills bound elements from values (variable name → value).
// Variables missing from values are left as they are. It returns the new
// forest and the number of elements changed.
func ApplyBindings(forest []*domain.Element, values map[string]string) ([]*domain.Element, int) {
	changed := 0
	for _, b := range Bindings(forest) {
		v, ok := values[b.Variavel]
		if !ok || v == b.Value {
			continue
		}
		forest = UpdateProperty(forest, b.ID, b.Key, v)
		changed++
	}
	return forest, changed
}
