package el

import (
	"github.com/vango-dev/arbor/pkg/fiber"
)

// Element creates a host element with the given tag.
// Arguments can be: nil, Attr, []Attr, Event, *fiber.Element,
// []*fiber.Element or string.
func Element(tag string, args ...any) *fiber.Element {
	props := fiber.Props{}
	var children []*fiber.Element

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue

		case Attr:
			if v.Key != "" {
				props[v.Key] = v.Value
			}

		case []Attr:
			for _, a := range v {
				if a.Key != "" {
					props[a.Key] = a.Value
				}
			}

		case Event:
			if v.Handler != nil {
				props[v.Key] = v.Handler
			}

		case *fiber.Element:
			if v != nil {
				children = append(children, v)
			}

		case []*fiber.Element:
			for _, c := range v {
				if c != nil {
					children = append(children, c)
				}
			}

		case string:
			children = append(children, fiber.Text(v))
		}
	}

	if len(children) > 0 {
		props[fiber.ChildrenKey] = children
	}
	return &fiber.Element{Kind: fiber.HostType(tag), Props: props}
}

// Component creates an element rendered by c with props.
func Component(c *fiber.Component, props fiber.Props) *fiber.Element {
	return fiber.Render(c, props)
}

func Div(args ...any) *fiber.Element      { return Element("div", args...) }
func Span(args ...any) *fiber.Element     { return Element("span", args...) }
func P(args ...any) *fiber.Element        { return Element("p", args...) }
func H1(args ...any) *fiber.Element       { return Element("h1", args...) }
func H2(args ...any) *fiber.Element       { return Element("h2", args...) }
func H3(args ...any) *fiber.Element       { return Element("h3", args...) }
func Section(args ...any) *fiber.Element  { return Element("section", args...) }
func Header(args ...any) *fiber.Element   { return Element("header", args...) }
func Footer(args ...any) *fiber.Element   { return Element("footer", args...) }
func Main(args ...any) *fiber.Element     { return Element("main", args...) }
func Nav(args ...any) *fiber.Element      { return Element("nav", args...) }
func Ul(args ...any) *fiber.Element       { return Element("ul", args...) }
func Ol(args ...any) *fiber.Element       { return Element("ol", args...) }
func Li(args ...any) *fiber.Element       { return Element("li", args...) }
func A(args ...any) *fiber.Element        { return Element("a", args...) }
func Strong(args ...any) *fiber.Element   { return Element("strong", args...) }
func Em(args ...any) *fiber.Element       { return Element("em", args...) }
func Button(args ...any) *fiber.Element   { return Element("button", args...) }
func Form(args ...any) *fiber.Element     { return Element("form", args...) }
func Label(args ...any) *fiber.Element    { return Element("label", args...) }
func Input(args ...any) *fiber.Element    { return Element("input", args...) }
func Textarea(args ...any) *fiber.Element { return Element("textarea", args...) }
func Img(args ...any) *fiber.Element      { return Element("img", args...) }
func Br(args ...any) *fiber.Element       { return Element("br", args...) }
func Hr(args ...any) *fiber.Element       { return Element("hr", args...) }
func Table(args ...any) *fiber.Element    { return Element("table", args...) }
func Tr(args ...any) *fiber.Element       { return Element("tr", args...) }
func Td(args ...any) *fiber.Element       { return Element("td", args...) }
func Th(args ...any) *fiber.Element       { return Element("th", args...) }
