// Package render serializes trees to HTML.
//
// Renderer writes a committed fiber tree: component nodes are transparent,
// host nodes become elements and "#text" nodes become escaped text.
// Listeners are not rendered; each bound event is marked with a
// data-on-<event> attribute instead.
//
//	r := render.NewRenderer(render.RendererConfig{Pretty: true})
//	html, err := r.RenderToString(s.Current())
//
// The element helpers (WriteStartTag, WriteEndTag, EscapeHTML) are shared
// with other host trees such as package memdom so that every serializer in
// the module produces the same markup.
package render
