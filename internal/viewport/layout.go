// Package viewport lays out the editor and output panes and debounces
// terminal resize events before re-laying them out.
package viewport

const (
	headerLines = 1
	statusLines = 2
	borderSize  = 2
	minContent  = 1
)

// Size is the content area of one pane, excluding its border.
type Size struct {
	Width  int
	Height int
}

// Layout is the arrangement of both panes for one terminal size.
type Layout struct {
	Width  int
	Height int
	Editor Size
	Output Size
}

// Compute splits width between the editor (left) and output (right) panes
// and reserves the header and status lines.
func Compute(width, height int) Layout {
	left := width / 2
	right := width - left
	paneHeight := clamp(height - headerLines - statusLines - borderSize)

	return Layout{
		Width:  width,
		Height: height,
		Editor: Size{Width: clamp(left - borderSize), Height: paneHeight},
		Output: Size{Width: clamp(right - borderSize), Height: paneHeight},
	}
}

func clamp(n int) int {
	if n < minContent {
		return minContent
	}
	return n
}
