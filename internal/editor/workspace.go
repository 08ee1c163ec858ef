package editor

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"cardeditor/internal/crd"
	"cardeditor/internal/domain"
	"cardeditor/internal/tree"
)

// MaxTabNameLength bounds tab names accepted by RenameTab.
const MaxTabNameLength = 120

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(message string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(message string) bool

func (f ConfirmFunc) Confirm(message string) bool { return f(message) }

// Workspace is the ordered set of open tabs. Exactly one tab is active and
// the workspace never becomes empty.
type Workspace struct {
	tabs       []*Tab
	active     string
	ids        tree.IDGenerator
	maxHistory int
	now        func() time.Time
}

func newWorkspace(ids tree.IDGenerator, maxHistory int, now func() time.Time) *Workspace {
	w := &Workspace{ids: ids, maxHistory: maxHistory, now: now}
	w.CreateTab()
	return w
}

// Tabs returns the tabs in display order.
func (w *Workspace) Tabs() []*Tab {
	return append([]*Tab(nil), w.tabs...)
}

// List summarises every tab.
func (w *Workspace) List() []TabInfo {
	out := make([]TabInfo, len(w.tabs))
	for i, t := range w.tabs {
		out[i] = t.info(t.ID == w.active)
	}
	return out
}

// Active returns the active tab.
func (w *Workspace) Active() *Tab {
	t, _ := w.Tab(w.active)
	return t
}

// Tab looks a tab up by id.
func (w *Workspace) Tab(id string) (*Tab, bool) {
	i := w.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return w.tabs[i], true
}

// CreateTab appends an empty document and activates it.
func (w *Workspace) CreateTab() *Tab {
	t := newTab(w.newTabID(), w.nextName(), w.maxHistory)
	w.tabs = append(w.tabs, t)
	w.active = t.ID
	return t
}

// CloseTab removes a tab. The last tab cannot be closed. A modified tab is
// only closed when c confirms; a nil c never confirms.
func (w *Workspace) CloseTab(id string, c Confirmer) error {
	i := w.indexOf(id)
	if i < 0 {
		return fmt.Errorf("tab %s: %w", id, domain.ErrNotFound)
	}
	if len(w.tabs) == 1 {
		return domain.ErrLastTab
	}
	t := w.tabs[i]
	if t.Modified {
		msg := fmt.Sprintf("%q has unsaved changes. Close anyway?", t.Name)
		if c == nil || !c.Confirm(msg) {
			return domain.ErrCloseCancelled
		}
	}
	w.tabs = append(w.tabs[:i:i], w.tabs[i+1:]...)
	if w.active == id {
		next := i - 1
		if next < 0 {
			next = 0
		}
		w.active = w.tabs[next].ID
	}
	return nil
}

// RenameTab changes a tab's name. Surrounding whitespace is trimmed.
func (w *Workspace) RenameTab(id, name string) error {
	t, ok := w.Tab(id)
	if !ok {
		return fmt.Errorf("tab %s: %w", id, domain.ErrNotFound)
	}
	name = strings.TrimSpace(name)
	if err := validation.Validate(name,
		validation.Required,
		validation.RuneLength(1, MaxTabNameLength),
	); err != nil {
		return &domain.ValidationError{Message: "tab name " + err.Error()}
	}
	t.Name = name
	return nil
}

// SwitchTab activates a tab.
func (w *Workspace) SwitchTab(id string) error {
	if w.indexOf(id) < 0 {
		return fmt.Errorf("tab %s: %w", id, domain.ErrNotFound)
	}
	w.active = id
	return nil
}

// LoadFromFile parses a .crd document into a new active tab with an empty
// history. On error no tab is touched.
func (w *Workspace) LoadFromFile(data []byte) (*Tab, error) {
	f, err := crd.Parse(data)
	if err != nil {
		return nil, err
	}
	return w.Open(f), nil
}

// Open adds an already parsed document as a new active tab.
func (w *Workspace) Open(f *domain.CRDFile) *Tab {
	t := newTab(w.newTabID(), crd.TabName(f), w.maxHistory)
	t.Elements = tree.DeepCopy(f.Elements)
	t.Canvas = f.Canvas.Clone()
	w.tabs = append(w.tabs, t)
	w.active = t.ID
	return t
}

// ExportToFile serialises the active tab. It returns the document and a
// suggested file name. History and selection are not exported.
func (w *Workspace) ExportToFile() (*domain.CRDFile, string) {
	t := w.Active()
	now := w.now()
	return crd.New(t.Name, t.Elements, t.Canvas, now), crd.FileName(t.Name, now)
}

// Restore replaces all tabs, for instance with a saved session. Tab ids must
// be unique and active must name one of them; otherwise the first tab is
// activated.
func (w *Workspace) Restore(tabs []*Tab, active string) error {
	if len(tabs) == 0 {
		return fmt.Errorf("restore workspace: no tabs")
	}
	seen := make(map[string]struct{}, len(tabs))
	for _, t := range tabs {
		if _, dup := seen[t.ID]; dup || t.ID == "" {
			return fmt.Errorf("restore workspace: bad tab id %q", t.ID)
		}
		seen[t.ID] = struct{}{}
		if t.History == nil {
			t.History = newTab("", "", w.maxHistory).History
		}
	}
	w.tabs = append([]*Tab(nil), tabs...)
	w.active = tabs[0].ID
	if _, ok := seen[active]; ok {
		w.active = active
	}
	return nil
}

func (w *Workspace) indexOf(id string) int {
	for i, t := range w.tabs {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (w *Workspace) newTabID() string {
	for {
		id := w.ids.NewID()
		if id != "" && w.indexOf(id) < 0 {
			return id
		}
	}
}

// nextName returns "Workspace N" with N starting at the tab count plus one
// and skipping names already in use.
func (w *Workspace) nextName() string {
	used := make(map[string]struct{}, len(w.tabs))
	for _, t := range w.tabs {
		used[t.Name] = struct{}{}
	}
	for n := len(w.tabs) + 1; ; n++ {
		name := fmt.Sprintf("Workspace %d", n)
		if _, ok := used[name]; !ok {
			return name
		}
	}
}
