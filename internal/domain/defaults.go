package domain

import "strings"

func defaultBox() BoxStyle {
	return BoxStyle{
		Position:           "static",
		Left:               "auto",
		Top:                "auto",
		Right:              "auto",
		Bottom:             "auto",
		Width:              "auto",
		Height:             "auto",
		Margin:             "0",
		MarginTop:          "0",
		MarginRight:        "0",
		MarginBottom:       "0",
		MarginLeft:         "0",
		Padding:            "8px",
		PaddingTop:         "8px",
		PaddingRight:       "8px",
		PaddingBottom:      "8px",
		PaddingLeft:        "8px",
		BorderRadius:       "0",
		BorderRadiusTop:    "0",
		BorderRadiusRight:  "0",
		BorderRadiusBottom: "0",
		BorderRadiusLeft:   "0",
		Border:             "none",
		BorderTop:          "none",
		BorderRight:        "none",
		BorderBottom:       "none",
		BorderLeft:         "none",
		BoxShadow:          "none",
		Opacity:            "1",
		ZIndex:             "auto",
	}
}

// NewProperties returns the properties a freshly dropped element of type t
// starts with. It returns nil for unknown types.
func NewProperties(t ElementType) Properties {
	box := defaultBox()
	switch t {
	case ElementFrame:
		box.Width = "200px"
		box.Height = "100px"
		box.Border = "2px dashed #d1d5db"
		return &FrameProperties{
			BoxStyle:            box,
			BackgroundColor:     "transparent",
			Display:             "flex",
			JustifyContent:      "flex-start",
			AlignItems:          "stretch",
			FlexDirection:       "row",
			FlexWrap:            "nowrap",
			FlexGrow:            "0",
			FlexShrink:          "1",
			GridTemplateColumns: "none",
			GridTemplateRows:    "none",
			GridGap:             "0",
			GridColumn:          "auto",
			GridRow:             "auto",
			Gap:                 "0",
			Overflow:            "visible",
		}
	case ElementText:
		return &TextProperties{
			BoxStyle:        box,
			Content:         "Sample text",
			Color:           "#000000",
			BackgroundColor: "transparent",
			FontSize:        "14px",
			FontWeight:      "normal",
			LineHeight:      "normal",
			LetterSpacing:   "normal",
			TextAlign:       "left",
			TextDecoration:  "none",
			TextTransform:   "none",
		}
	case ElementImage:
		box.Width = "100px"
		box.Height = "100px"
		return &ImageProperties{
			BoxStyle:  box,
			ObjectFit: "cover",
		}
	case ElementIcon:
		box.Width = "40px"
		box.Height = "40px"
		return &IconProperties{
			BoxStyle:        box,
			IconName:        "star",
			Color:           "#000000",
			BackgroundColor: "transparent",
			Size:            "24px",
		}
	}
	return nil
}

// DisplayName is the capitalised type name used for generated element names.
func (t ElementType) DisplayName() string {
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
