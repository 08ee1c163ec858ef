package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
)

// Properties is the style/content payload of an element. Each element type
// has exactly one implementation; all of them embed BoxStyle.
//
// Properties values are treated as immutable once attached to an element:
// use WithProperty to derive a modified copy.
type Properties interface {
	ElementType() ElementType
	Box() BoxStyle
	clone() Properties
}

// BoxStyle holds the layout and box-model keys shared by every element type.
type BoxStyle struct {
	Position           string `json:"position"`
	Left               string `json:"left"`
	Top                string `json:"top"`
	Right              string `json:"right"`
	Bottom             string `json:"bottom"`
	Width              string `json:"width"`
	Height             string `json:"height"`
	MinWidth           string `json:"minWidth"`
	MinHeight          string `json:"minHeight"`
	MaxWidth           string `json:"maxWidth"`
	MaxHeight          string `json:"maxHeight"`
	Margin             string `json:"margin"`
	MarginTop          string `json:"marginTop"`
	MarginRight        string `json:"marginRight"`
	MarginBottom       string `json:"marginBottom"`
	MarginLeft         string `json:"marginLeft"`
	Padding            string `json:"padding"`
	PaddingTop         string `json:"paddingTop"`
	PaddingRight       string `json:"paddingRight"`
	PaddingBottom      string `json:"paddingBottom"`
	PaddingLeft        string `json:"paddingLeft"`
	BorderRadius       string `json:"borderRadius"`
	BorderRadiusTop    string `json:"borderRadiusTop"`
	BorderRadiusRight  string `json:"borderRadiusRight"`
	BorderRadiusBottom string `json:"borderRadiusBottom"`
	BorderRadiusLeft   string `json:"borderRadiusLeft"`
	Border             string `json:"border"`
	BorderTop          string `json:"borderTop"`
	BorderRight        string `json:"borderRight"`
	BorderBottom       string `json:"borderBottom"`
	BorderLeft         string `json:"borderLeft"`
	BoxShadow          string `json:"boxShadow"`
	Opacity            string `json:"opacity"`
	ZIndex             string `json:"zIndex"`
	CustomStyle        string `json:"customStyle"`

	// Extra keeps keys this version does not know about so that documents
	// written by other editors survive a load/save cycle.
	Extra map[string]string `json:"-"`
}

type FrameProperties struct {
	BoxStyle
	BackgroundColor     string `json:"backgroundColor"`
	BackgroundImage     string `json:"backgroundImage"`
	Display             string `json:"display"`
	JustifyContent      string `json:"justifyContent"`
	AlignItems          string `json:"alignItems"`
	FlexDirection       string `json:"flexDirection"`
	FlexWrap            string `json:"flexWrap"`
	FlexGrow            string `json:"flexGrow"`
	FlexShrink          string `json:"flexShrink"`
	GridTemplateColumns string `json:"gridTemplateColumns"`
	GridTemplateRows    string `json:"gridTemplateRows"`
	GridGap             string `json:"gridGap"`
	GridColumn          string `json:"gridColumn"`
	GridRow             string `json:"gridRow"`
	Gap                 string `json:"gap"`
	Overflow            string `json:"overflow"`
}

type TextProperties struct {
	BoxStyle
	Content         string `json:"content"`
	Color           string `json:"color"`
	BackgroundColor string `json:"backgroundColor"`
	FontSize        string `json:"fontSize"`
	FontWeight      string `json:"fontWeight"`
	FontFamily      string `json:"fontFamily"`
	LineHeight      string `json:"lineHeight"`
	LetterSpacing   string `json:"letterSpacing"`
	TextAlign       string `json:"textAlign"`
	TextDecoration  string `json:"textDecoration"`
	TextTransform   string `json:"textTransform"`
}

type ImageProperties struct {
	BoxStyle
	File      string `json:"file"`
	FileData  string `json:"fileData"` // data URL of the uploaded image
	ObjectFit string `json:"objectFit"`
}

type IconProperties struct {
	BoxStyle
	IconName        string `json:"iconName"`
	Color           string `json:"color"`
	BackgroundColor string `json:"backgroundColor"`
	Size            string `json:"size"`
}

func (*FrameProperties) ElementType() ElementType { return ElementFrame }
func (*TextProperties) ElementType() ElementType  { return ElementText }
func (*ImageProperties) ElementType() ElementType { return ElementImage }
func (*IconProperties) ElementType() ElementType  { return ElementIcon }

func (p *FrameProperties) Box() BoxStyle { return p.BoxStyle }
func (p *TextProperties) Box() BoxStyle  { return p.BoxStyle }
func (p *ImageProperties) Box() BoxStyle { return p.BoxStyle }
func (p *IconProperties) Box() BoxStyle  { return p.BoxStyle }

func (p *FrameProperties) clone() Properties {
	c := *p
	c.Extra = copyExtra(p.Extra)
	return &c
}

func (p *TextProperties) clone() Properties {
	c := *p
	c.Extra = copyExtra(p.Extra)
	return &c
}

func (p *ImageProperties) clone() Properties {
	c := *p
	c.Extra = copyExtra(p.Extra)
	return &c
}

func (p *IconProperties) clone() Properties {
	c := *p
	c.Extra = copyExtra(p.Extra)
	return &c
}

func (p FrameProperties) MarshalJSON() ([]byte, error) {
	return json.Marshal(flatten(reflect.ValueOf(p)))
}
func (p TextProperties) MarshalJSON() ([]byte, error) {
	return json.Marshal(flatten(reflect.ValueOf(p)))
}
func (p ImageProperties) MarshalJSON() ([]byte, error) {
	return json.Marshal(flatten(reflect.ValueOf(p)))
}
func (p IconProperties) MarshalJSON() ([]byte, error) {
	return json.Marshal(flatten(reflect.ValueOf(p)))
}

func (p *FrameProperties) UnmarshalJSON(data []byte) error {
	return unflatten(data, reflect.ValueOf(p).Elem())
}
func (p *TextProperties) UnmarshalJSON(data []byte) error {
	return unflatten(data, reflect.ValueOf(p).Elem())
}
func (p *ImageProperties) UnmarshalJSON(data []byte) error {
	return unflatten(data, reflect.ValueOf(p).Elem())
}
func (p *IconProperties) UnmarshalJSON(data []byte) error {
	return unflatten(data, reflect.ValueOf(p).Elem())
}

// EmptyProperties returns a zero-valued properties struct for t, or nil if t
// is not a known element type.
func EmptyProperties(t ElementType) Properties {
	switch t {
	case ElementFrame:
		return &FrameProperties{}
	case ElementText:
		return &TextProperties{}
	case ElementImage:
		return &ImageProperties{}
	case ElementIcon:
		return &IconProperties{}
	}
	return nil
}

// CloneProperties returns an independent copy of p.
func CloneProperties(p Properties) Properties {
	if p == nil {
		return nil
	}
	return p.clone()
}

// GetProperty reads a property by its JSON key. Keys unknown to the
// element's type are looked up in the Extra bag.
func GetProperty(p Properties, key string) (string, bool) {
	if p == nil {
		return "", false
	}
	return getField(reflect.ValueOf(p).Elem(), key)
}

// WithProperty returns a copy of p with key set to value. p is not modified.
func WithProperty(p Properties, key, value string) Properties {
	c := p.clone()
	setField(reflect.ValueOf(c).Elem(), key, value)
	return c
}

// PropertyMap flattens p into its JSON key/value form, Extra keys included.
func PropertyMap(p Properties) map[string]string {
	if p == nil {
		return map[string]string{}
	}
	return flatten(reflect.ValueOf(p).Elem())
}

// ── reflection helpers ────────────────────────────────────

var fieldIndexCache sync.Map // reflect.Type → map[string][]int

func fieldIndexes(t reflect.Type) map[string][]int {
	if v, ok := fieldIndexCache.Load(t); ok {
		return v.(map[string][]int)
	}
	m := make(map[string][]int)
	collectFields(t, nil, m)
	fieldIndexCache.Store(t, m)
	return m
}

func collectFields(t reflect.Type, prefix []int, m map[string][]int) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		idx := append(append([]int(nil), prefix...), i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			collectFields(f.Type, idx, m)
			continue
		}
		if !f.IsExported() || f.Type.Kind() != reflect.String {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		// Outer fields win over embedded ones with the same key.
		if _, exists := m[name]; !exists || len(idx) < len(m[name]) {
			m[name] = idx
		}
	}
}

func getField(v reflect.Value, key string) (string, bool) {
	if idx, ok := fieldIndexes(v.Type())[key]; ok {
		return v.FieldByIndex(idx).String(), true
	}
	extra := v.FieldByName("Extra")
	if !extra.IsValid() || extra.IsNil() {
		return "", false
	}
	val := extra.MapIndex(reflect.ValueOf(key))
	if !val.IsValid() {
		return "", false
	}
	return val.String(), true
}

func setField(v reflect.Value, key, value string) {
	if idx, ok := fieldIndexes(v.Type())[key]; ok {
		v.FieldByIndex(idx).SetString(value)
		return
	}
	extra := v.FieldByName("Extra")
	if !extra.IsValid() {
		return
	}
	if extra.IsNil() {
		extra.Set(reflect.ValueOf(map[string]string{}))
	}
	extra.SetMapIndex(reflect.ValueOf(key), reflect.ValueOf(value))
}

func flatten(v reflect.Value) map[string]string {
	idx := fieldIndexes(v.Type())
	out := make(map[string]string, len(idx))
	if extra := v.FieldByName("Extra"); extra.IsValid() && !extra.IsNil() {
		iter := extra.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().String()
		}
	}
	for key, i := range idx {
		out[key] = v.FieldByIndex(i).String()
	}
	return out
}

func unflatten(data []byte, v reflect.Value) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, msg := range raw {
		setField(v, key, rawString(msg))
	}
	return nil
}

// rawString turns a JSON value into the string form used for properties.
// Non-string scalars (numbers, booleans) keep their literal text; null is "".
func rawString(msg json.RawMessage) string {
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s
	}
	lit := strings.TrimSpace(string(msg))
	if lit == "null" {
		return ""
	}
	return lit
}

func copyExtra(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
