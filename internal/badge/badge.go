// Package badge formats the pending-task counter for the badge collaborator.
package badge

import "strconv"

// AccentColor is the fixed badge background color.
const AccentColor = "#007AFF"

// Text renders a pending count as badge text. Zero renders as the empty
// string so the badge disappears when nothing is pending.
func Text(pending int) string {
	if pending <= 0 {
		return ""
	}
	return strconv.Itoa(pending)
}

// Renderer is the external collaborator that paints the badge.
type Renderer interface {
	RenderBadge(text string, color string)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(text string, color string)

// RenderBadge implements Renderer.
func (f RendererFunc) RenderBadge(text string, color string) {
	f(text, color)
}

// Discard is a Renderer that does nothing.
var Discard Renderer = RendererFunc(func(string, string) {})
