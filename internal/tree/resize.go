package tree

import (
	"strconv"
	"strings"

	"cardeditor/internal/domain"
)

const (
	// MinSize is the smallest width or height a resize produces, in px.
	MinSize = 20
	// fallbackSize stands in for a width or height without a leading number.
	fallbackSize = 100
)

// ResizeDirections are the handles an element can be dragged by.
var ResizeDirections = []string{"n", "s", "e", "w", "ne", "nw", "se", "sw"}

// Resize drags the element's direction handle by (dx, dy) and writes the
// new width and height as "<n>px". Only the dimensions the handle controls
// change; they never drop below MinSize. Unknown ids leave the forest as is.
func Resize(forest []*domain.Element, id, direction string, dx, dy int) []*domain.Element {
	el, ok := Find(forest, id)
	if !ok {
		return forest
	}
	var w, h int
	if el.Properties != nil {
		ws, _ := domain.GetProperty(el.Properties, "width")
		hs, _ := domain.GetProperty(el.Properties, "height")
		w, h = leadingInt(ws), leadingInt(hs)
	} else {
		w, h = fallbackSize, fallbackSize
	}
	w, h = ResizeBox(w, h, direction, dx, dy)

	forest = UpdateProperty(forest, id, "width", strconv.Itoa(w)+"px")
	return UpdateProperty(forest, id, "height", strconv.Itoa(h)+"px")
}

// ResizeBox applies a handle drag to a width and height.
func ResizeBox(w, h int, direction string, dx, dy int) (int, int) {
	if strings.Contains(direction, "e") {
		w = max(MinSize, w+dx)
	}
	if strings.Contains(direction, "w") {
		w = max(MinSize, w-dx)
	}
	if strings.Contains(direction, "s") {
		h = max(MinSize, h+dy)
	}
	if strings.Contains(direction, "n") {
		h = max(MinSize, h-dy)
	}
	return w, h
}

// leadingInt reads the integer a CSS length such as "120px" starts with.
// Values without one, and zero, count as fallbackSize.
func leadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return fallbackSize
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n == 0 {
		return fallbackSize
	}
	return n
}
