package tree

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"cardeditor/internal/domain"
)

func newElement(id string, t domain.ElementType, children ...*domain.Element) *domain.Element {
	return &domain.Element{
		ID:         id,
		Type:       t,
		Name:       id,
		Children:   children,
		Properties: domain.NewProperties(t),
	}
}

// sample builds:
//
//	f1 (frame)
//	├── t1 (text)
//	└── f2 (frame)
//	    └── i1 (image)
//	c1 (icon)
func sample() []*domain.Element {
	return []*domain.Element{
		newElement("f1", domain.ElementFrame,
			newElement("t1", domain.ElementText),
			newElement("f2", domain.ElementFrame,
				newElement("i1", domain.ElementImage),
			),
		),
		newElement("c1", domain.ElementIcon),
	}
}

func parentOf(forest []*domain.Element, id string) string {
	parent := ""
	Walk(forest, func(el, p *domain.Element, _ int) bool {
		if el.ID == id && p != nil {
			parent = p.ID
		}
		return true
	})
	return parent
}

func TestInsertAtRootAndFind(t *testing.T) {
	var forest []*domain.Element
	forest = Insert(forest, newElement("f1", domain.ElementFrame), "")

	if len(forest) != 1 {
		t.Fatalf("expected 1 root element, got %d", len(forest))
	}
	el, ok := Find(forest, "f1")
	if !ok {
		t.Fatal("expected to find f1")
	}
	if el.Type != domain.ElementFrame {
		t.Errorf("expected frame, got %s", el.Type)
	}
}

func TestInsertUnderNestedParent(t *testing.T) {
	in := sample()
	out := Insert(in, newElement("t2", domain.ElementText), "f2")

	if got := parentOf(out, "t2"); got != "f2" {
		t.Errorf("expected t2 under f2, got %q", got)
	}
	if _, ok := Find(in, "t2"); ok {
		t.Error("input forest was modified")
	}
	// Untouched subtree is shared.
	if out[1] != in[1] {
		t.Error("expected untouched root c1 to be shared")
	}
}

func TestInsertUnknownParentIsNoop(t *testing.T) {
	in := sample()
	out := Insert(in, newElement("x", domain.ElementText), "missing")
	if !reflect.DeepEqual(in, out) {
		t.Error("expected unchanged forest")
	}
}

func TestRemoveTransitively(t *testing.T) {
	forest := []*domain.Element{
		newElement("f1", domain.ElementFrame, newElement("t1", domain.ElementText)),
	}
	out := Remove(forest, "f1")
	if len(out) != 0 {
		t.Fatalf("expected empty forest, got %d elements", len(out))
	}
	if _, ok := Find(out, "t1"); ok {
		t.Error("child t1 should have been removed with its parent")
	}
}

func TestRemoveNested(t *testing.T) {
	in := sample()
	out := Remove(in, "i1")
	if _, ok := Find(out, "i1"); ok {
		t.Error("i1 still present")
	}
	if Count(out) != Count(in)-1 {
		t.Errorf("expected %d elements, got %d", Count(in)-1, Count(out))
	}
	if _, ok := Find(in, "i1"); !ok {
		t.Error("input forest was modified")
	}
}

func TestNotFoundOperationsAreNoops(t *testing.T) {
	in := sample()
	moved, err := Move(in, "missing", "f1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cases := map[string][]*domain.Element{
		"UpdateProperty": UpdateProperty(in, "missing", "color", "red"),
		"UpdateVariable": UpdateVariable(in, "missing", "title"),
		"ToggleHidden":   ToggleHidden(in, "missing"),
		"Remove":         Remove(in, "missing"),
		"Move":           moved,
	}
	for name, out := range cases {
		if !reflect.DeepEqual(in, out) {
			t.Errorf("%s: expected forest deep-equal to input", name)
		}
	}
}

func TestMove(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		dest       string
		wantParent string
		wantErr    error
	}{
		{name: "into sibling frame", id: "t1", dest: "f2", wantParent: "f2"},
		{name: "to canvas", id: "i1", dest: CanvasID, wantParent: ""},
		{name: "frame with subtree", id: "f2", dest: CanvasID, wantParent: ""},
		{name: "into itself", id: "f1", dest: "f1", wantParent: "", wantErr: domain.ErrCyclicMove},
		{name: "into descendant", id: "f1", dest: "f2", wantParent: "", wantErr: domain.ErrCyclicMove},
		{name: "unknown destination", id: "t1", dest: "nope", wantParent: "f1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sample()
			out, err := Move(in, tt.id, tt.dest)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got := parentOf(out, tt.id); got != tt.wantParent {
				t.Errorf("expected parent %q, got %q", tt.wantParent, got)
			}
			if Count(out) != Count(in) {
				t.Errorf("element count changed: %d → %d", Count(in), Count(out))
			}
		})
	}
}

func TestMoveKeepsSubtree(t *testing.T) {
	out, err := Move(sample(), "f2", "c1")
	if err != nil {
		t.Fatal(err)
	}
	if got := parentOf(out, "f2"); got != "c1" {
		t.Errorf("expected f2 under c1, got %q", got)
	}
	if got := parentOf(out, "i1"); got != "f2" {
		t.Errorf("expected i1 to stay under f2, got %q", got)
	}
}

func TestUpdateProperty(t *testing.T) {
	in := sample()
	out := UpdateProperty(in, "t1", "content", "Hello")

	el, _ := Find(out, "t1")
	if v, _ := domain.GetProperty(el.Properties, "content"); v != "Hello" {
		t.Errorf("expected content Hello, got %q", v)
	}
	orig, _ := Find(in, "t1")
	if v, _ := domain.GetProperty(orig.Properties, "content"); v != "Sample text" {
		t.Errorf("input was modified: content = %q", v)
	}
	if v, _ := domain.GetProperty(el.Properties, "fontSize"); v != "14px" {
		t.Errorf("other keys must be preserved, fontSize = %q", v)
	}
}

func TestUpdatePropertyUnknownKeyIsKept(t *testing.T) {
	out := UpdateProperty(sample(), "c1", "rotate", "45deg")
	el, _ := Find(out, "c1")
	if v, ok := domain.GetProperty(el.Properties, "rotate"); !ok || v != "45deg" {
		t.Errorf("expected extra key rotate=45deg, got %q (%v)", v, ok)
	}
}

func TestUpdateVariableAndToggleHidden(t *testing.T) {
	out := UpdateVariable(sample(), "i1", "avatar")
	out = ToggleHidden(out, "i1")

	el, _ := Find(out, "i1")
	if el.Variavel != "avatar" {
		t.Errorf("expected variavel avatar, got %q", el.Variavel)
	}
	if !el.Hidden {
		t.Error("expected i1 hidden after toggle")
	}
	if el.Rendered() {
		t.Error("Hidden == true must mean not rendered")
	}

	out = ToggleHidden(out, "i1")
	el, _ = Find(out, "i1")
	if el.Hidden || !el.Rendered() {
		t.Error("expected i1 visible after second toggle")
	}
}

func TestCloneWithNewIDs(t *testing.T) {
	forest := sample()
	src, _ := Find(forest, "f1")

	gen := NewUniqueGenerator(UUIDGenerator{}, forest)
	clone := CloneWithNewIDs(src, gen)

	if clone.Name != "f1 Copy" {
		t.Errorf("expected name %q, got %q", "f1 Copy", clone.Name)
	}
	if clone.Children[0].Name != "t1" {
		t.Errorf("descendants keep their names, got %q", clone.Children[0].Name)
	}

	// Same shape, all ids distinct from the document.
	existing := IDs(forest)
	var srcDepths, cloneDepths []int
	Walk([]*domain.Element{src}, func(_, _ *domain.Element, d int) bool {
		srcDepths = append(srcDepths, d)
		return true
	})
	Walk([]*domain.Element{clone}, func(el, _ *domain.Element, d int) bool {
		cloneDepths = append(cloneDepths, d)
		if _, dup := existing[el.ID]; dup {
			t.Errorf("clone reuses existing id %s", el.ID)
		}
		return true
	})
	if !reflect.DeepEqual(srcDepths, cloneDepths) {
		t.Errorf("nesting differs: %v vs %v", srcDepths, cloneDepths)
	}
	if Count([]*domain.Element{clone}) != len(IDs([]*domain.Element{clone})) {
		t.Error("clone has duplicate ids")
	}
}

func TestUniqueGeneratorSkipsTakenIDs(t *testing.T) {
	seq := []string{"f1", "t1", "canvas", "", "n1", "n1", "n2"}
	i := 0
	gen := NewUniqueGenerator(IDGeneratorFunc(func() string {
		id := seq[i]
		i++
		return id
	}), sample())

	if got := gen.NewID(); got != "n1" {
		t.Errorf("expected n1, got %s", got)
	}
	if got := gen.NewID(); got != "n2" {
		t.Errorf("expected n2, got %s", got)
	}
}

func TestInsertedIDsStayUnique(t *testing.T) {
	var forest []*domain.Element
	gen := NewUniqueGenerator(UUIDGenerator{}, forest)
	parent := ""
	for i := 0; i < 50; i++ {
		el := newElement(gen.NewID(), domain.ElementFrame)
		forest = Insert(forest, el, parent)
		if i%5 == 0 {
			parent = el.ID
		}
		if i%7 == 0 {
			src, _ := Find(forest, el.ID)
			forest = Insert(forest, CloneWithNewIDs(src, gen), "")
		}
	}
	if err := Validate(forest); err != nil {
		t.Fatalf("forest invalid: %v", err)
	}
	if Count(forest) != len(IDs(forest)) {
		t.Error("ids are not unique")
	}
}

func TestValidate(t *testing.T) {
	dup := []*domain.Element{newElement("a", domain.ElementText), newElement("a", domain.ElementText)}
	if err := Validate(dup); err == nil {
		t.Error("expected duplicate id error")
	}
	bad := []*domain.Element{{ID: "x", Type: "video"}}
	if err := Validate(bad); err == nil {
		t.Error("expected unknown type error")
	}
	if err := Validate(sample()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDeepCopyIsIndependent(t *testing.T) {
	in := sample()
	cp := DeepCopy(in)
	if !reflect.DeepEqual(in, cp) {
		t.Fatal("copy differs from input")
	}
	cp[0].Children[0].Name = "changed"
	if in[0].Children[0].Name == "changed" {
		t.Error("copy shares elements with input")
	}
}

func TestBindings(t *testing.T) {
	forest := UpdateVariable(sample(), "t1", "title")
	forest = UpdateVariable(forest, "c1", "icon")

	bindings := Bindings(forest)
	if len(bindings) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(bindings))
	}
	if bindings[0].Key != "content" || bindings[0].Value != "Sample text" {
		t.Errorf("unexpected first binding %+v", bindings[0])
	}

	out, changed := ApplyBindings(forest, map[string]string{"title": "Hi", "icon": "star", "other": "x"})
	if changed != 1 {
		t.Errorf("expected 1 change (icon already star), got %d", changed)
	}
	el, _ := Find(out, "t1")
	if v, _ := domain.GetProperty(el.Properties, "content"); v != "Hi" {
		t.Errorf("expected content Hi, got %q", v)
	}
}

func ExampleMove() {
	forest := []*domain.Element{
		{ID: "a", Type: domain.ElementFrame},
		{ID: "b", Type: domain.ElementText},
	}
	forest, _ = Move(forest, "b", "a")
	fmt.Println(len(forest), forest[0].Children[0].ID)
	// Output: 1 b
}
