package domain

import (
	"encoding/json"
	"reflect"
)

// CanvasProperties styles the root container of a document. It is not part
// of the element tree; every tab owns exactly one.
type CanvasProperties struct {
	BackgroundColor     string `json:"backgroundColor"`
	BackgroundImage     string `json:"backgroundImage"`
	BorderRadius        string `json:"borderRadius"`
	BorderRadiusTop     string `json:"borderRadiusTop"`
	BorderRadiusRight   string `json:"borderRadiusRight"`
	BorderRadiusBottom  string `json:"borderRadiusBottom"`
	BorderRadiusLeft    string `json:"borderRadiusLeft"`
	Width               string `json:"width"`
	Height              string `json:"height"`
	Margin              string `json:"margin"`
	MarginTop           string `json:"marginTop"`
	MarginRight         string `json:"marginRight"`
	MarginBottom        string `json:"marginBottom"`
	MarginLeft          string `json:"marginLeft"`
	Padding             string `json:"padding"`
	PaddingTop          string `json:"paddingTop"`
	PaddingRight        string `json:"paddingRight"`
	PaddingBottom       string `json:"paddingBottom"`
	PaddingLeft         string `json:"paddingLeft"`
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
	Border              string `json:"border"`
	CustomStyle         string `json:"customStyle"`

	Extra map[string]string `json:"-"`
}

// Get reads a canvas property by its JSON key.
func (c CanvasProperties) Get(key string) (string, bool) {
	return getField(reflect.ValueOf(&c).Elem(), key)
}

// With returns a copy of c with key set to value.
func (c CanvasProperties) With(key, value string) CanvasProperties {
	out := c.Clone()
	setField(reflect.ValueOf(&out).Elem(), key, value)
	return out
}

// Clone returns a copy that shares no maps with c.
func (c CanvasProperties) Clone() CanvasProperties {
	c.Extra = copyExtra(c.Extra)
	return c
}

// Map flattens c into its JSON key/value form.
func (c CanvasProperties) Map() map[string]string {
	return flatten(reflect.ValueOf(c))
}

func (c CanvasProperties) MarshalJSON() ([]byte, error) {
	return json.Marshal(flatten(reflect.ValueOf(c)))
}

func (c *CanvasProperties) UnmarshalJSON(data []byte) error {
	return unflatten(data, reflect.ValueOf(c).Elem())
}

// DefaultCanvasProperties is the canvas every new tab starts with.
func DefaultCanvasProperties() CanvasProperties {
	return CanvasProperties{
		BackgroundColor:     "#ffffff",
		Width:               "400px",
		Height:              "300px",
		BorderRadius:        "8px",
		BorderRadiusTop:     "8px",
		BorderRadiusRight:   "8px",
		BorderRadiusBottom:  "8px",
		BorderRadiusLeft:    "8px",
		Margin:              "0",
		MarginTop:           "0",
		MarginRight:         "0",
		MarginBottom:        "0",
		MarginLeft:          "0",
		Padding:             "16px",
		PaddingTop:          "16px",
		PaddingRight:        "16px",
		PaddingBottom:       "16px",
		PaddingLeft:         "16px",
		Display:             "flex",
		JustifyContent:      "flex-start",
		AlignItems:          "flex-start",
		FlexDirection:       "column",
		FlexWrap:            "nowrap",
		FlexGrow:            "0",
		FlexShrink:          "1",
		GridTemplateColumns: "none",
		GridTemplateRows:    "none",
		GridGap:             "0",
		GridColumn:          "auto",
		GridRow:             "auto",
		Gap:                 "8px",
		Border:              "1px solid #e5e7eb",
	}
}
